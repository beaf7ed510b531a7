package systemd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// ErrUnsupportedScope is returned for scope names other than all, global,
// system and user.
var ErrUnsupportedScope = errors.New("unsupported scope")

// Scope selects which service managers are queried.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeGlobal
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeUser:
		return "user"
	default:
		return "all"
	}
}

// ParseScope accepts "system" as an alias for "global".
func ParseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return ScopeAll, nil
	case "global", "system":
		return ScopeGlobal, nil
	case "user":
		return ScopeUser, nil
	default:
		return ScopeAll, fmt.Errorf("%w: %q", ErrUnsupportedScope, raw)
	}
}

// Units expands the scope into the unit namespaces it covers.
func (s Scope) Units() []unit.Scope {
	switch s {
	case ScopeGlobal:
		return []unit.Scope{unit.Global}
	case ScopeUser:
		return []unit.Scope{unit.User}
	default:
		return []unit.Scope{unit.Global, unit.User}
	}
}
