package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metadeploy/metadeploy-sdk/pkg/cmd/properties"
	"github.com/metadeploy/metadeploy-sdk/pkg/config"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

const (
	pathConfig = "path.config"
	envPrefix  = "metadeploy"
)

// SessionFactory - builds the session a command runs against
type SessionFactory func(cfg config.ClientConfig, globals *config.Globals) (*Session, error)

// RootCmd - Root Command of the client
type RootCmd interface {
	RootCmd() *cobra.Command
	Execute() error
	ExecuteContext(ctx context.Context) error
	GetProperties() properties.Properties
}

// rootCommand - Represents the client root command
type rootCommand struct {
	name       string
	rootCmd    *cobra.Command
	props      properties.Properties
	newSession SessionFactory
	cfg        config.ClientConfig
	globals    *config.Globals
}

// NewRootCmd - Creates the root command with the plan, install and job subcommands
func NewRootCmd(exeName, desc string) RootCmd {
	return newRootCmd(exeName, desc, NewSession)
}

func newRootCmd(exeName, desc string, newSession SessionFactory) *rootCommand {
	c := &rootCommand{
		name:       exeName,
		newSession: newSession,
	}

	c.rootCmd = &cobra.Command{
		Use:               c.name,
		Short:             desc,
		Version:           versionString(),
		SilenceUsage:      true,
		PersistentPreRunE: c.initialize,
	}
	c.props = properties.NewProperties(c.rootCmd)

	c.props.AddStringProperty(pathConfig, ".", "Path to the directory containing the YAML configuration file")
	config.AddClientConfigProperties(c.props)
	config.AddLogConfigProperties(c.props, exeName+".log")

	c.rootCmd.AddCommand(
		c.newPlanCmd(),
		c.newInstallCmd(),
		c.newJobCmd(),
	)
	return c
}

// initialize reads the config file and environment, sets up logging and
// parses the client config and globals
func (c *rootCommand) initialize(cmd *cobra.Command, args []string) error {
	viper.SetConfigName(c.name)
	viper.AddConfigPath(c.props.StringPropertyValue(pathConfig))
	viper.AddConfigPath(".")
	viper.SetTypeByDefaultValue(true)
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return err
		}
	}

	if _, err := config.ParseAndSetupLogConfig(c.props); err != nil {
		return err
	}

	cfg, err := config.ParseClientConfig(c.props)
	if err != nil {
		return err
	}
	globals, err := config.LoadGlobals(cfg.GetGlobalsFile(), cfg.GetEnvFile())
	if err != nil {
		return err
	}
	c.cfg, c.globals = cfg, globals
	log.Debugf("Starting %s (%s) against %s", c.rootCmd.Short, c.rootCmd.Version, cfg.GetURL())
	return nil
}

// startSession - a started session for a subcommand, close it when done
func (c *rootCommand) startSession(ctx context.Context) (*Session, error) {
	session, err := c.newSession(c.cfg, c.globals)
	if err != nil {
		return nil, err
	}
	if err := session.Start(ctx); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

func (c *rootCommand) RootCmd() *cobra.Command {
	return c.rootCmd
}

func (c *rootCommand) Execute() error {
	return c.rootCmd.Execute()
}

func (c *rootCommand) ExecuteContext(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *rootCommand) GetProperties() properties.Properties {
	return c.props
}
