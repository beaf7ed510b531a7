package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/systemd"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"SYSTEMCTL_TUI_DATA=/tmp/stui"})
	require.NoError(t, err)
	require.Equal(t, systemd.ScopeAll, cfg.App.Scope)
	require.Equal(t, []string{"*.service"}, cfg.App.Patterns)
	require.Equal(t, []string{"disabled"}, cfg.App.UnitFileStates)
	require.Equal(t, 2*time.Second, cfg.App.Refresh)
	require.Zero(t, cfg.App.RenderDebounce)
	require.Equal(t, 500, cfg.App.LogLines)
	require.False(t, cfg.App.Fuzzy)
	require.Equal(t, "vi", cfg.App.Editor)
	require.Equal(t, "/tmp/stui", cfg.App.DataDir)
	require.Equal(t, filepath.Join("/tmp/stui", "systemctl-tui.log"), cfg.Logging.FilePath)
	require.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, Validate(cfg))
}

func TestLoadArgsFlagsOverrideEnv(t *testing.T) {
	env := []string{
		"SYSTEMCTL_TUI_SCOPE=user",
		"SYSTEMCTL_TUI_UNITS=a*.service, b*.service",
		"SYSTEMCTL_TUI_REFRESH=5s",
		"SYSTEMCTL_TUI_FUZZY=true",
		"EDITOR=nano",
		"VISUAL=",
	}
	cfg, err := LoadArgs([]string{"--scope", "system", "--limit-units", "ssh*", "--limit-units", "cron*", "--log-lines", "50"}, env)
	require.NoError(t, err)
	require.Equal(t, systemd.ScopeGlobal, cfg.App.Scope)
	require.Equal(t, []string{"ssh*", "cron*"}, cfg.App.Patterns)
	require.Equal(t, 5*time.Second, cfg.App.Refresh)
	require.True(t, cfg.App.Fuzzy)
	require.Equal(t, "nano", cfg.App.Editor)
	require.Equal(t, 50, cfg.App.LogLines)
	require.Equal(t, "global", cfg.Flags["scope"])
	require.Equal(t, "ssh*,cron*", cfg.Flags["limitUnits"])
}

func TestLoadArgsEnvList(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"SYSTEMCTL_TUI_UNITS=a*.service, b*.service", "SYSTEMCTL_TUI_UNIT_FILE_STATES=disabled,masked"})
	require.NoError(t, err)
	require.Equal(t, []string{"a*.service", "b*.service"}, cfg.App.Patterns)
	require.Equal(t, []string{"disabled", "masked"}, cfg.App.UnitFileStates)
}

func TestLoadArgsRejectsUnknownScope(t *testing.T) {
	_, err := LoadArgs([]string{"--scope", "session"}, nil)
	require.ErrorIs(t, err, systemd.ErrUnsupportedScope)
}

func TestLoadArgsRejectsUnknownFlag(t *testing.T) {
	_, err := LoadArgs([]string{"--socket", "x"}, nil)
	require.Error(t, err)
}

func TestInvalidEnvFallsBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"SYSTEMCTL_TUI_REFRESH=soon", "SYSTEMCTL_TUI_LOG_LINES=many"})
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.App.Refresh)
	require.Equal(t, 500, cfg.App.LogLines)
}

func TestValidate(t *testing.T) {
	base, err := LoadArgs(nil, nil)
	require.NoError(t, err)

	cases := map[string]func(*Config){
		"refresh":  func(c *Config) { c.App.Refresh = 0 },
		"debounce": func(c *Config) { c.App.RenderDebounce = -time.Millisecond },
		"lines":    func(c *Config) { c.App.LogLines = 0 },
		"patterns": func(c *Config) { c.App.Patterns = nil },
		"level":    func(c *Config) { c.Logging.Level = "chatty" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			require.Error(t, Validate(cfg))
		})
	}
}

func TestDataDir(t *testing.T) {
	require.Equal(t, "/data", DataDir(map[string]string{"SYSTEMCTL_TUI_DATA": "/data", "XDG_DATA_HOME": "/xdg"}))
	require.Equal(t, filepath.Join("/xdg", "systemctl-tui"), DataDir(map[string]string{"XDG_DATA_HOME": "/xdg"}))
	require.NotEmpty(t, DataDir(nil))
}

func TestRegisterSharesFlagSet(t *testing.T) {
	l := NewLoader(nil)
	fs := pflag.NewFlagSet("root", pflag.ContinueOnError)
	l.Register(fs)
	require.NoError(t, fs.Parse([]string{"--fuzzy", "--trace"}))
	cfg, err := l.Config([]string{"--fuzzy", "--trace"})
	require.NoError(t, err)
	require.True(t, cfg.App.Fuzzy)
	require.True(t, cfg.Logging.Trace)
	require.Equal(t, []string{"--fuzzy", "--trace"}, cfg.Args)
}

func TestConfigBeforeRegister(t *testing.T) {
	_, err := NewLoader(nil).Config(nil)
	require.Error(t, err)
}
