package log

import (
	"flag"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// LoggingOutput - where log lines are written
type LoggingOutput int

// LoggingOutput values
const (
	STDOUT LoggingOutput = iota
	File
	Both
)

var stringLoggingOutputMap = map[string]LoggingOutput{
	"stdout": STDOUT,
	"file":   File,
	"both":   Both,
}

// GlobalLoggerConfig - is the default config of the logger
var GlobalLoggerConfig LoggerConfig

func init() {
	GlobalLoggerConfig = NewLoggerConfig()
}

// NewLoggerConfig - json to stdout at info level
func NewLoggerConfig() LoggerConfig {
	return LoggerConfig{
		output: STDOUT,
		path:   ".",
		cfg: rotatefilehook.RotateFileConfig{
			Filename:   "metadeploy.log",
			MaxSize:    100,
			MaxBackups: 7,
			Level:      logrus.InfoLevel,
			Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
		},
	}
}

// LoggerConfig - is a builder used to setup the logging for the client
type LoggerConfig struct {
	err         error
	output      LoggingOutput
	path        string
	cfg         rotatefilehook.RotateFileConfig
	initialized bool
}

// Apply - applies the config changes to the logger
func (b *LoggerConfig) Apply() error {
	if b.err != nil {
		return b.err
	}

	log.SetFormatter(b.cfg.Formatter)
	log.SetLevel(b.cfg.Level)
	log.SetOutput(io.Discard)

	if b.output == STDOUT || b.output == Both {
		log.SetOutput(os.Stdout)
	}

	if !b.initialized && (b.output == File || b.output == Both) {
		cfg := b.cfg
		if b.path != "" {
			cfg.Filename = path.Join(b.path, cfg.Filename)
		}
		hook, err := rotatefilehook.NewRotateFileHook(cfg)
		if err != nil {
			return err
		}
		log.AddHook(hook)
		// tests apply the config repeatedly
		b.initialized = flag.Lookup("test.v") == nil
	}
	return nil
}

// Level - sets the logger level
func (b *LoggerConfig) Level(level string) *LoggerConfig {
	if b.err == nil {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			b.err = ErrInvalidLogConfig.FormatError("log.level", "trace, debug, info, warn, error")
		}
		b.cfg.Level = lvl
	}
	return b
}

// Format - sets the logger format
func (b *LoggerConfig) Format(format string) *LoggerConfig {
	if b.err == nil {
		switch strings.ToLower(format) {
		case "line":
			b.cfg.Formatter = &logrus.TextFormatter{TimestampFormat: time.RFC3339}
		case "json":
			b.cfg.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339}
		default:
			b.err = ErrInvalidLogConfig.FormatError("log.format", "json, line")
		}
	}
	return b
}

// Output - sets how the logs will be tracked
func (b *LoggerConfig) Output(output string) *LoggerConfig {
	if b.err == nil {
		out, ok := stringLoggingOutputMap[strings.ToLower(output)]
		if !ok {
			b.err = ErrInvalidLogConfig.FormatError("log.output", "stdout, file, both")
		}
		b.output = out
	}
	return b
}

// Filename -
func (b *LoggerConfig) Filename(filename string) *LoggerConfig {
	if b.err == nil && filename != "" {
		b.cfg.Filename = filename
	}
	return b
}

// Path -
func (b *LoggerConfig) Path(path string) *LoggerConfig {
	if b.err == nil {
		b.path = path
	}
	return b
}

// MaxSize - in megabytes
func (b *LoggerConfig) MaxSize(maxSize int) *LoggerConfig {
	if b.err == nil {
		if maxSize < 1 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.rotateeverymegabytes", "1 or greater")
		}
		b.cfg.MaxSize = maxSize
	}
	return b
}

// MaxBackups -
func (b *LoggerConfig) MaxBackups(maxBackups int) *LoggerConfig {
	if b.err == nil {
		if maxBackups < 0 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.keepfiles", "0 or greater")
		}
		b.cfg.MaxBackups = maxBackups
	}
	return b
}
