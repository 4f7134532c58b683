package properties

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Properties - Root Command Properties interface for all configs to use for adding and parsing values
type Properties interface {
	// Methods for adding yaml properties and command flag
	AddStringProperty(name string, defaultVal string, description string)
	AddDurationProperty(name string, defaultVal time.Duration, description string)
	AddIntProperty(name string, defaultVal int, description string)
	AddBoolProperty(name string, defaultVal bool, description string)
	AddStringSliceProperty(name string, defaultVal []string, description string)
	AddBoolFlag(name, description string)

	// Methods to get the configured properties
	StringPropertyValue(name string) string
	DurationPropertyValue(name string) time.Duration
	IntPropertyValue(name string) int
	BoolPropertyValue(name string) bool
	BoolFlagValue(name string) bool
	StringSlicePropertyValue(name string) []string
}

type properties struct {
	rootCmd *cobra.Command
}

// NewProperties - Creates a new Properties struct. Properties are persistent
// flags so every subcommand of rootCmd accepts them.
func NewProperties(rootCmd *cobra.Command) Properties {
	return &properties{
		rootCmd: rootCmd,
	}
}

func (p *properties) flags() *flag.FlagSet {
	return p.rootCmd.PersistentFlags()
}

func (p *properties) bindOrPanic(key string, flg *flag.Flag) {
	if err := viper.BindPFlag(key, flg); err != nil {
		panic(err)
	}
}

func (p *properties) AddStringProperty(name string, defaultVal string, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.flags().String(flagName, defaultVal, description)
		p.bindOrPanic(name, p.flags().Lookup(flagName))
	}
}

func (p *properties) AddStringSliceProperty(name string, defaultVal []string, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.flags().StringSlice(flagName, defaultVal, description)
		p.bindOrPanic(name, p.flags().Lookup(flagName))
	}
}

func (p *properties) AddDurationProperty(name string, defaultVal time.Duration, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.flags().Duration(flagName, defaultVal, description)
		p.bindOrPanic(name, p.flags().Lookup(flagName))
	}
}

func (p *properties) AddIntProperty(name string, defaultVal int, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.flags().Int(flagName, defaultVal, description)
		p.bindOrPanic(name, p.flags().Lookup(flagName))
	}
}

func (p *properties) AddBoolProperty(name string, defaultVal bool, description string) {
	if p.rootCmd != nil {
		flagName := p.nameToFlagName(name)
		p.flags().Bool(flagName, defaultVal, description)
		p.bindOrPanic(name, p.flags().Lookup(flagName))
	}
}

func (p *properties) AddBoolFlag(flagName string, description string) {
	if p.rootCmd != nil {
		p.flags().Bool(flagName, false, description)
	}
}

func (p *properties) StringSlicePropertyValue(name string) []string {
	val := viper.Get(name)

	// special check to differentiate between yaml and commandline parsing. For commandline, must
	// turn it into an array ourselves
	switch val.(type) {
	case string:
		return p.convertStringToSlice(fmt.Sprintf("%v", val))
	default:
		return viper.GetStringSlice(name)
	}
}

func (p *properties) convertStringToSlice(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	slc := strings.Split(value, ",")
	for i := range slc {
		slc[i] = strings.TrimSpace(slc[i])
	}
	return slc
}

func (p *properties) StringPropertyValue(name string) string {
	return viper.GetString(name)
}

func (p *properties) DurationPropertyValue(name string) time.Duration {
	return viper.GetDuration(name)
}

func (p *properties) IntPropertyValue(name string) int {
	return viper.GetInt(name)
}

func (p *properties) BoolPropertyValue(name string) bool {
	return viper.GetBool(name)
}

func (p *properties) BoolFlagValue(name string) bool {
	flg := p.rootCmd.Flag(name)
	if flg == nil {
		return false
	}
	return flg.Value.String() == "true"
}

// nameToFlagName - log.file.name becomes logFileName
func (p *properties) nameToFlagName(name string) string {
	parts := strings.Split(name, ".")
	flagName := parts[0]
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		flagName += string(r)
	}
	return flagName
}
