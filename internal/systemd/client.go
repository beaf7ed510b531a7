// Package systemd talks to the system and user service managers over D-Bus.
package systemd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/coreos/go-systemd/v22/dbus"
	"golang.org/x/sync/errgroup"
)

// DefaultPatterns limits listings to services.
var DefaultPatterns = []string{"*.service"}

// DefaultUnitFileStates shows unit files that are installed but not loaded
// when they are disabled.
var DefaultUnitFileStates = []string{"disabled"}

// NotLoaded is the load state reported for units that are only known from
// their unit file.
const NotLoaded = "not-loaded"

// Manager is the subset of *dbus.Conn used by the client.
type Manager interface {
	ListUnitsByPatternsContext(ctx context.Context, states, patterns []string) ([]dbus.UnitStatus, error)
	ListUnitFilesByPatternsContext(ctx context.Context, states, patterns []string) ([]dbus.UnitFile, error)
	StartUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	StopUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	RestartUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	EnableUnitFilesContext(ctx context.Context, files []string, runtime, force bool) (bool, []dbus.EnableUnitFileChange, error)
	DisableUnitFilesContext(ctx context.Context, files []string, runtime bool) ([]dbus.DisableUnitFileChange, error)
	ReloadContext(ctx context.Context) error
	GetUnitPropertyContext(ctx context.Context, unit, propertyName string) (*dbus.Property, error)
	Close()
}

// Dialer opens a connection to the manager of one scope.
type Dialer func(ctx context.Context, scope unit.Scope) (Manager, error)

func dialBus(ctx context.Context, scope unit.Scope) (Manager, error) {
	if scope == unit.User {
		return dbus.NewUserConnectionContext(ctx)
	}
	return dbus.NewSystemConnectionContext(ctx)
}

// Options configures a Client.
type Options struct {
	Scope    Scope
	Patterns []string
	// UnitFileStates lists the enablement states of not-loaded unit files
	// that are included in listings. Empty includes none.
	UnitFileStates []string
	Dial           Dialer
	// IsRoot reports whether the process runs as root. User-scope failures
	// are tolerated for root when listing every scope.
	IsRoot func() bool
}

// Client lists and controls units. It is safe for concurrent use.
type Client struct {
	opts Options

	mu    sync.Mutex
	conns map[unit.Scope]Manager
}

// New returns a client. Connections are opened on first use.
func New(opts Options) *Client {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns
	}
	if opts.Dial == nil {
		opts.Dial = dialBus
	}
	if opts.IsRoot == nil {
		opts.IsRoot = func() bool { return os.Geteuid() == 0 }
	}
	return &Client{opts: opts, conns: make(map[unit.Scope]Manager)}
}

func (c *Client) conn(ctx context.Context, scope unit.Scope) (Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.conns[scope]; ok {
		return m, nil
	}
	m, err := c.opts.Dial(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("connect to %s manager: %w", scope, err)
	}
	c.conns[scope] = m
	return m, nil
}

// Close releases every open connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for scope, m := range c.conns {
		m.Close()
		delete(c.conns, scope)
	}
}

// ListUnits returns every unit matching the configured patterns across the
// configured scopes, sorted case-insensitively by name.
func (c *Client) ListUnits(ctx context.Context) ([]unit.Unit, error) {
	scopes := c.opts.Scope.Units()
	results := make([][]unit.Unit, len(scopes))

	g, gctx := errgroup.WithContext(ctx)
	for i, scope := range scopes {
		g.Go(func() error {
			units, err := c.listScope(gctx, scope)
			if err != nil {
				if scope == unit.User && len(scopes) > 1 && c.opts.IsRoot() {
					logging.Logger().Warn("ignoring user units while running as root", "err", err)
					return nil
				}
				return err
			}
			results[i] = units
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []unit.Unit
	for _, units := range results {
		all = append(all, units...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].ID.Name) < strings.ToLower(all[j].ID.Name)
	})
	return all, nil
}

func (c *Client) listScope(ctx context.Context, scope unit.Scope) ([]unit.Unit, error) {
	m, err := c.conn(ctx, scope)
	if err != nil {
		return nil, err
	}
	statuses, err := m.ListUnitsByPatternsContext(ctx, nil, c.opts.Patterns)
	if err != nil {
		return nil, fmt.Errorf("list %s units: %w", scope, err)
	}

	units := make([]unit.Unit, 0, len(statuses))
	index := make(map[string]int, len(statuses))
	for _, st := range statuses {
		index[st.Name] = len(units)
		units = append(units, unit.Unit{
			ID:          unit.ID{Name: st.Name, Scope: scope},
			Description: st.Description,
			LoadState:   st.LoadState,
			Active:      unit.ParseActiveState(st.ActiveState),
			SubState:    st.SubState,
		})
	}

	files, err := m.ListUnitFilesByPatternsContext(ctx, nil, c.opts.Patterns)
	if err != nil {
		logging.Logger().Debug("list unit files", "scope", scope.String(), "err", err)
		return units, nil
	}
	for _, f := range files {
		name := filepath.Base(f.Path)
		if i, ok := index[name]; ok {
			units[i].Enablement = f.Type
			continue
		}
		if !slices.Contains(c.opts.UnitFileStates, f.Type) {
			continue
		}
		index[name] = len(units)
		units = append(units, unit.Unit{
			ID:         unit.ID{Name: name, Scope: scope},
			LoadState:  NotLoaded,
			Active:     unit.ParseActiveState("inactive"),
			SubState:   "dead",
			Enablement: f.Type,
			FilePath:   &unit.FilePath{Path: f.Path},
		})
	}
	return units, nil
}

type jobFunc func(ctx context.Context, name, mode string, ch chan<- string) (int, error)

func (c *Client) job(ctx context.Context, id unit.ID, verb string, pick func(Manager) jobFunc) error {
	m, err := c.conn(ctx, id.Scope)
	if err != nil {
		return err
	}
	done := make(chan string, 1)
	if _, err := pick(m)(ctx, id.Name, "replace", done); err != nil {
		return fmt.Errorf("%s %s: %w", verb, id.Name, err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-done:
		if result != "done" {
			return fmt.Errorf("%s %s: job %s", verb, id.Name, result)
		}
		return nil
	}
}

// Start starts id and waits for the job to finish.
func (c *Client) Start(ctx context.Context, id unit.ID) error {
	return c.job(ctx, id, "start", func(m Manager) jobFunc { return m.StartUnitContext })
}

// Stop stops id and waits for the job to finish.
func (c *Client) Stop(ctx context.Context, id unit.ID) error {
	return c.job(ctx, id, "stop", func(m Manager) jobFunc { return m.StopUnitContext })
}

// Restart restarts id and waits for the job to finish.
func (c *Client) Restart(ctx context.Context, id unit.ID) error {
	return c.job(ctx, id, "restart", func(m Manager) jobFunc { return m.RestartUnitContext })
}

// Enable enables the unit file of id and reloads the manager.
func (c *Client) Enable(ctx context.Context, id unit.ID) error {
	m, err := c.conn(ctx, id.Scope)
	if err != nil {
		return err
	}
	if _, _, err := m.EnableUnitFilesContext(ctx, []string{id.Name}, false, true); err != nil {
		return fmt.Errorf("enable %s: %w", id.Name, err)
	}
	return c.reload(ctx, m)
}

// Disable disables the unit file of id and reloads the manager.
func (c *Client) Disable(ctx context.Context, id unit.ID) error {
	m, err := c.conn(ctx, id.Scope)
	if err != nil {
		return err
	}
	if _, err := m.DisableUnitFilesContext(ctx, []string{id.Name}, false); err != nil {
		return fmt.Errorf("disable %s: %w", id.Name, err)
	}
	return c.reload(ctx, m)
}

func (c *Client) reload(ctx context.Context, m Manager) error {
	if err := m.ReloadContext(ctx); err != nil {
		return fmt.Errorf("reload manager: %w", err)
	}
	return nil
}

// ErrNoUnitFile is returned when a unit has no fragment on disk.
var ErrNoUnitFile = errors.New("no unit file")

// UnitFilePath resolves the FragmentPath property of id.
func (c *Client) UnitFilePath(ctx context.Context, id unit.ID) (string, error) {
	m, err := c.conn(ctx, id.Scope)
	if err != nil {
		return "", err
	}
	prop, err := m.GetUnitPropertyContext(ctx, id.Name, "FragmentPath")
	if err != nil {
		return "", fmt.Errorf("unit file path of %s: %w", id.Name, err)
	}
	path, _ := prop.Value.Value().(string)
	if path == "" {
		return "", fmt.Errorf("%s: %w", id.Name, ErrNoUnitFile)
	}
	return path, nil
}
