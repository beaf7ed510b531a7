// Package unit holds the value types describing service-manager units.
package unit

import (
	"fmt"
	"strings"
)

// Scope identifies the unit namespace a unit lives in.
type Scope int

const (
	Global Scope = iota
	User
)

func (s Scope) String() string {
	switch s {
	case Global:
		return "global"
	case User:
		return "user"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ID is the immutable identity of a unit. It is comparable and used as a map key.
type ID struct {
	Name  string
	Scope Scope
}

func (id ID) String() string {
	return id.Scope.String() + ":" + id.Name
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id.Name == ""
}

// ParseID is the inverse of ID.String.
func ParseID(s string) (ID, error) {
	scope, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return ID{}, fmt.Errorf("invalid unit id %q", s)
	}
	switch scope {
	case "global":
		return ID{Name: name, Scope: Global}, nil
	case "user":
		return ID{Name: name, Scope: User}, nil
	default:
		return ID{}, fmt.Errorf("invalid unit scope %q", scope)
	}
}

// ActiveKind tags the activation state of a unit.
type ActiveKind int

const (
	Unknown ActiveKind = iota
	Active
	Inactive
	Failed
	Other
)

// ActiveState is the tagged activation state. Other carries the raw string.
type ActiveState struct {
	Kind ActiveKind
	Raw  string
}

// ParseActiveState maps the service manager's ActiveState property.
func ParseActiveState(raw string) ActiveState {
	switch raw {
	case "active":
		return ActiveState{Kind: Active, Raw: raw}
	case "inactive":
		return ActiveState{Kind: Inactive, Raw: raw}
	case "failed":
		return ActiveState{Kind: Failed, Raw: raw}
	case "":
		return ActiveState{Kind: Unknown}
	default:
		return ActiveState{Kind: Other, Raw: raw}
	}
}

func (s ActiveState) String() string {
	switch s.Kind {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Failed:
		return "failed"
	case Other:
		return s.Raw
	default:
		return "unknown"
	}
}

// FilePath is a lazily resolved unit-file path. Err is set when resolution failed.
type FilePath struct {
	Path string
	Err  string
}

// Unit is one service-manager unit snapshot.
type Unit struct {
	ID          ID
	Description string
	LoadState   string
	Active      ActiveState
	SubState    string
	// Enablement is empty when unknown.
	Enablement string
	// FilePath is nil until resolved.
	FilePath *FilePath
}

// ShortName strips the ".service" suffix from the unit name.
func (u Unit) ShortName() string {
	return strings.TrimSuffix(u.ID.Name, ".service")
}

// Update copies the replaceable fields of fresh into u. Enablement and
// FilePath are kept when fresh does not carry them. The id never changes.
func (u *Unit) Update(fresh Unit) {
	u.Description = fresh.Description
	u.LoadState = fresh.LoadState
	u.Active = fresh.Active
	u.SubState = fresh.SubState
	if fresh.Enablement != "" {
		u.Enablement = fresh.Enablement
	}
	if fresh.FilePath != nil {
		fp := *fresh.FilePath
		u.FilePath = &fp
	}
}

// Clone returns a deep copy.
func (u Unit) Clone() Unit {
	if u.FilePath != nil {
		fp := *u.FilePath
		u.FilePath = &fp
	}
	return u
}
