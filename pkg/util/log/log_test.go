package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalLoggerConfig(t *testing.T) {
	cfg := NewLoggerConfig()
	assert.Equal(t, STDOUT, cfg.output)
	assert.Equal(t, ".", cfg.path)
	assert.Equal(t, logrus.InfoLevel, cfg.cfg.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, cfg.cfg.Formatter)
}

func TestLoggerConfig(t *testing.T) {
	tests := []struct {
		name     string
		build    func(lc *LoggerConfig) *LoggerConfig
		hasError bool
	}{
		{
			name:     "should reject an unknown level",
			build:    func(lc *LoggerConfig) *LoggerConfig { return lc.Level("debug1") },
			hasError: true,
		},
		{
			name:  "should accept a debug level",
			build: func(lc *LoggerConfig) *LoggerConfig { return lc.Level("debug") },
		},
		{
			name:     "should reject an unknown format",
			build:    func(lc *LoggerConfig) *LoggerConfig { return lc.Format("fake") },
			hasError: true,
		},
		{
			name:  "should accept the line format",
			build: func(lc *LoggerConfig) *LoggerConfig { return lc.Format("line") },
		},
		{
			name:     "should reject an unknown output",
			build:    func(lc *LoggerConfig) *LoggerConfig { return lc.Output("fake") },
			hasError: true,
		},
		{
			name:     "should reject a zero max size",
			build:    func(lc *LoggerConfig) *LoggerConfig { return lc.MaxSize(0) },
			hasError: true,
		},
		{
			name:     "should reject negative backups",
			build:    func(lc *LoggerConfig) *LoggerConfig { return lc.MaxBackups(-1) },
			hasError: true,
		},
		{
			name: "should write to a rotated file",
			build: func(lc *LoggerConfig) *LoggerConfig {
				return lc.Output("file").Path(t.TempDir()).Filename("test.log").MaxSize(1).MaxBackups(1)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lc := NewLoggerConfig()
			err := tc.build(&lc).Apply()
			if tc.hasError {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
		})
	}
	log.ReplaceHooks(make(logrus.LevelHooks))
	GlobalLoggerConfig = NewLoggerConfig()
	GlobalLoggerConfig.Apply()
}

func TestFieldLogger(t *testing.T) {
	log.SetLevel(logrus.DebugLevel)
	fl := NewFieldLogger().WithComponent("test").WithPackage("sdk.util.log")
	l, ok := fl.(*logger)
	assert.True(t, ok)
	assert.Equal(t, "test", l.entry.Data[fieldComponent])
	assert.Equal(t, "sdk.util.log", l.entry.Data[fieldPackage])
	fl.WithField("abc", "def").Debug("debugging")
}

func TestObscurer(t *testing.T) {
	o := NewObscurer("email", "count", "a.b")
	require.Len(t, o.masks, 3)

	body := []byte(`{"email":"someone@example.com","plan":"abc123","count":42,"axb":"kept"}`)
	expected := `{"email": "[redacted]","plan":"abc123","count": "[redacted]","axb":"kept"}`
	assert.Equal(t, expected, o.JSON(body))
	// the compiled masks are reused across calls
	assert.Equal(t, expected, o.JSON(body))
	assert.Equal(t, `{"plan":"abc123"}`, NewObscurer().JSON([]byte(`{"plan":"abc123"}`)))
}
