package state

import (
	"testing"

	"github.com/atomicstack/systemctl-tui/internal/unit"
)

func TestFavoriteStoreToggle(t *testing.T) {
	s := NewFavoriteStore()
	id := unit.ID{Name: "sshd.service"}
	if !s.Toggle(id) {
		t.Fatalf("expected first toggle to add")
	}
	if !s.Has(id) || !s.Dirty() {
		t.Fatalf("expected favorite recorded and dirty")
	}
	if s.Toggle(id) {
		t.Fatalf("expected second toggle to remove")
	}
	if s.Has(id) {
		t.Fatalf("expected favorite removed")
	}
}

func TestFavoriteStoreSetIDsIsClean(t *testing.T) {
	s := NewFavoriteStore()
	s.SetIDs([]unit.ID{{Name: "b.service", Scope: unit.User}, {Name: "a.service"}})
	if s.Dirty() {
		t.Fatalf("expected loaded favorites to be clean")
	}
	ids := s.IDs()
	if len(ids) != 2 || ids[0].Name != "a.service" {
		t.Fatalf("expected sorted ids, got %v", ids)
	}
}
