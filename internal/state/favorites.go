package state

import (
	"sort"

	"github.com/atomicstack/systemctl-tui/internal/unit"
)

type FavoriteStore interface {
	IDs() []unit.ID
	SetIDs([]unit.ID)
	Has(unit.ID) bool
	// Toggle flips membership and reports whether id is now a favorite.
	Toggle(unit.ID) bool
	Dirty() bool
	MarkClean()
}

type favoriteStore struct {
	ids   map[unit.ID]struct{}
	dirty bool
}

func NewFavoriteStore() FavoriteStore {
	return &favoriteStore{ids: make(map[unit.ID]struct{})}
}

func (f *favoriteStore) IDs() []unit.ID {
	out := make([]unit.ID, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

func (f *favoriteStore) SetIDs(ids []unit.ID) {
	f.ids = make(map[unit.ID]struct{}, len(ids))
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	f.dirty = false
}

func (f *favoriteStore) Has(id unit.ID) bool {
	_, ok := f.ids[id]
	return ok
}

func (f *favoriteStore) Toggle(id unit.ID) bool {
	f.dirty = true
	if _, ok := f.ids[id]; ok {
		delete(f.ids, id)
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

func (f *favoriteStore) Dirty() bool {
	return f.dirty
}

func (f *favoriteStore) MarkClean() {
	f.dirty = false
}
