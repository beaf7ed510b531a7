package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/atomicstack/systemctl-tui/internal/app"
	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/systemd"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
	Level    string
}

const (
	envScope          = "SYSTEMCTL_TUI_SCOPE"
	envUnits          = "SYSTEMCTL_TUI_UNITS"
	envUnitFileStates = "SYSTEMCTL_TUI_UNIT_FILE_STATES"
	envRefresh        = "SYSTEMCTL_TUI_REFRESH"
	envRenderDebounce = "SYSTEMCTL_TUI_RENDER_DEBOUNCE"
	envLogLines       = "SYSTEMCTL_TUI_LOG_LINES"
	envFuzzy          = "SYSTEMCTL_TUI_FUZZY"
	envTrace          = "SYSTEMCTL_TUI_TRACE"
	envLogLevel       = "SYSTEMCTL_TUI_LOG_LEVEL"
	envLogFile        = "SYSTEMCTL_TUI_LOG_FILE"
	envDataDir        = "SYSTEMCTL_TUI_DATA"
	envXDGData        = "XDG_DATA_HOME"
	envVisual         = "VISUAL"
	envEditor         = "EDITOR"

	appName        = "systemctl-tui"
	logFileName    = "systemctl-tui.log"
	defaultEditor  = "vi"
	defaultRefresh = 2 * time.Second
)

// Loader registers flags whose defaults come from the environment and turns
// the parsed values into a Config.
type Loader struct {
	env map[string]string

	scope          *string
	units          *[]string
	unitFileStates *[]string
	refresh        *time.Duration
	renderDebounce *time.Duration
	logLines       *int
	fuzzy          *bool
	editor         *string
	trace          *bool
	logLevel       *string
	logFile        *string
}

// NewLoader captures environ for flag defaults.
func NewLoader(environ []string) *Loader {
	return &Loader{env: parseEnv(environ)}
}

// Register adds every flag to fs. It is shared by LoadArgs and the cobra
// root command.
func (l *Loader) Register(fs *pflag.FlagSet) {
	env := l.env
	l.scope = fs.String("scope", envOrDefault(env, envScope, "all"), "unit scope to show: all, global (system) or user")
	l.units = fs.StringSlice("limit-units", envOrList(env, envUnits, systemd.DefaultPatterns), "unit name glob patterns to list (repeatable)")
	l.unitFileStates = fs.StringSlice("unit-file-states", envOrList(env, envUnitFileStates, systemd.DefaultUnitFileStates), "enablement states of not-loaded unit files to include")
	l.refresh = fs.Duration("refresh", envOrDuration(env, envRefresh, defaultRefresh), "interval between unit list refreshes")
	l.renderDebounce = fs.Duration("render-debounce", envOrDuration(env, envRenderDebounce, 0), "coalesce renders requested within this window (0 renders immediately)")
	l.logLines = fs.Int("log-lines", envOrInt(env, envLogLines, 500), "journal lines to load when a unit is selected")
	l.fuzzy = fs.Bool("fuzzy", envOrBool(env, envFuzzy, false), "fuzzy-match the search text instead of substring matching")
	l.editor = fs.String("editor", editorFromEnv(env), "editor used to open unit files")
	l.trace = fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	l.logLevel = fs.String("log-level", envOrDefault(env, envLogLevel, "info"), "log level: debug, info, warn or error")
	l.logFile = fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
}

// Config converts the parsed flags. args are recorded verbatim.
func (l *Loader) Config(args []string) (Config, error) {
	if l.scope == nil {
		return Config{}, errors.New("config: flags not registered")
	}
	scope, err := systemd.ParseScope(*l.scope)
	if err != nil {
		return Config{}, err
	}
	dataDir := DataDir(l.env)
	logFile := *l.logFile
	if logFile == "" {
		logFile = filepath.Join(dataDir, logFileName)
	}

	cfg := Config{
		App: app.Config{
			Scope:          scope,
			Patterns:       append([]string(nil), (*l.units)...),
			UnitFileStates: append([]string(nil), (*l.unitFileStates)...),
			Refresh:        *l.refresh,
			RenderDebounce: *l.renderDebounce,
			LogLines:       *l.logLines,
			Fuzzy:          *l.fuzzy,
			Editor:         *l.editor,
			DataDir:        dataDir,
		},
		Logging: Logging{
			FilePath: logFile,
			Trace:    *l.trace,
			Level:    *l.logLevel,
		},
		Flags: map[string]string{
			"scope":          scope.String(),
			"limitUnits":     strings.Join(*l.units, ","),
			"unitFileStates": strings.Join(*l.unitFileStates, ","),
			"refresh":        l.refresh.String(),
			"renderDebounce": l.renderDebounce.String(),
			"logLines":       strconv.Itoa(*l.logLines),
			"fuzzy":          strconv.FormatBool(*l.fuzzy),
			"editor":         *l.editor,
			"logLevel":       *l.logLevel,
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	l := NewLoader(environ)
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	l.Register(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return l.Config(args)
}

// DataDir resolves the directory holding preferences and the log file.
func DataDir(env map[string]string) string {
	if dir := strings.TrimSpace(env[envDataDir]); dir != "" {
		return dir
	}
	if base := strings.TrimSpace(env[envXDGData]); base != "" {
		return filepath.Join(base, appName)
	}
	return filepath.Join(xdg.DataHome, appName)
}

// EnvDataDir resolves DataDir against the process environment.
func EnvDataDir() string {
	return DataDir(parseEnv(os.Environ()))
}

func editorFromEnv(env map[string]string) string {
	for _, key := range []string{envVisual, envEditor} {
		if v := strings.TrimSpace(env[key]); v != "" {
			return v
		}
	}
	return defaultEditor
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrList(env map[string]string, key string, fallback []string) []string {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate rejects values the application cannot run with.
func Validate(cfg Config) error {
	if cfg.App.Refresh <= 0 {
		return fmt.Errorf("refresh must be > 0 (got %s)", cfg.App.Refresh)
	}
	if cfg.App.RenderDebounce < 0 {
		return fmt.Errorf("render-debounce must be >= 0 (got %s)", cfg.App.RenderDebounce)
	}
	if cfg.App.LogLines <= 0 {
		return fmt.Errorf("log-lines must be > 0 (got %d)", cfg.App.LogLines)
	}
	if len(cfg.App.Patterns) == 0 {
		return errors.New("limit-units needs at least one pattern")
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}
