package state

import (
	"sort"
	"strings"

	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Matcher decides whether a unit's short name matches the search text.
type Matcher func(shortName, search string) bool

// SubstringMatch is the default case-insensitive substring matcher.
func SubstringMatch(shortName, search string) bool {
	return strings.Contains(strings.ToLower(shortName), strings.ToLower(search))
}

// FuzzyMatch matches when the search runes appear in order, ignoring case and
// diacritics.
func FuzzyMatch(shortName, search string) bool {
	return fuzzy.MatchNormalizedFold(search, shortName)
}

// Registry owns every known unit and the filtered, selectable view of them.
// It is not safe for concurrent use; the dispatcher is its only caller.
type Registry struct {
	units  map[unit.ID]*unit.Unit
	order  []unit.ID
	search string
	match  Matcher
	view   List[unit.ID]
}

// NewRegistry returns an empty registry. A nil matcher selects SubstringMatch.
func NewRegistry(match Matcher) *Registry {
	if match == nil {
		match = SubstringMatch
	}
	return &Registry{
		units: make(map[unit.ID]*unit.Unit),
		match: match,
		view:  NewList[unit.ID](nil),
	}
}

// ReplaceAll drops every unit and loads units, selecting the first match.
func (r *Registry) ReplaceAll(units []unit.Unit) {
	r.units = make(map[unit.ID]*unit.Unit, len(units))
	r.order = r.order[:0]
	for _, u := range units {
		r.insert(u)
	}
	r.sortOrder()
	r.recompute(unit.ID{}, false)
}

// Merge updates known units in place, keeping cached detail, and inserts new
// ones. Units missing from the snapshot are kept.
func (r *Registry) Merge(units []unit.Unit) {
	prev, had := r.SelectedID()
	inserted := false
	for _, u := range units {
		if existing, ok := r.units[u.ID]; ok {
			existing.Update(u)
			continue
		}
		r.insert(u)
		inserted = true
	}
	if inserted {
		r.sortOrder()
	}
	r.recompute(prev, had)
}

// SetSearch changes the filter text, keeping the selected unit when it still
// matches.
func (r *Registry) SetSearch(text string) {
	prev, had := r.SelectedID()
	r.search = text
	r.recompute(prev, had)
}

// Search returns the current filter text.
func (r *Registry) Search() string {
	return r.search
}

// SelectNext moves the selection forward with wraparound.
func (r *Registry) SelectNext() {
	r.view.Next()
}

// SelectPrevious moves the selection backward with wraparound.
func (r *Registry) SelectPrevious() {
	r.view.Previous()
}

// SelectIndex selects a filtered index; out-of-range clears the selection.
func (r *Registry) SelectIndex(idx int) {
	r.view.Select(idx)
}

// SetFilePath records the resolved unit-file path of id.
func (r *Registry) SetFilePath(id unit.ID, fp unit.FilePath) bool {
	u, ok := r.units[id]
	if !ok {
		return false
	}
	u.FilePath = &fp
	return true
}

// Get returns a copy of the unit with the given id.
func (r *Registry) Get(id unit.ID) (unit.Unit, bool) {
	u, ok := r.units[id]
	if !ok {
		return unit.Unit{}, false
	}
	return u.Clone(), true
}

// Len reports the number of known units.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every unit in canonical order.
func (r *Registry) All() []unit.Unit {
	out := make([]unit.Unit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.units[id].Clone())
	}
	return out
}

// Filtered returns the units in the current view.
func (r *Registry) Filtered() []unit.Unit {
	ids := r.view.Items()
	out := make([]unit.Unit, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.units[id].Clone())
	}
	return out
}

// FilteredLen is the size of the current view.
func (r *Registry) FilteredLen() int {
	return r.view.Len()
}

// SelectedIndex returns the cursor position within the view.
func (r *Registry) SelectedIndex() (int, bool) {
	return r.view.Index()
}

// SelectedID returns the id of the selected unit.
func (r *Registry) SelectedID() (unit.ID, bool) {
	return r.view.Selected()
}

// Selected returns a copy of the selected unit.
func (r *Registry) Selected() (unit.Unit, bool) {
	id, ok := r.view.Selected()
	if !ok {
		return unit.Unit{}, false
	}
	return r.Get(id)
}

func (r *Registry) insert(u unit.Unit) {
	if existing, ok := r.units[u.ID]; ok {
		existing.Update(u)
		return
	}
	dup := u.Clone()
	r.units[u.ID] = &dup
	r.order = append(r.order, u.ID)
}

// sortOrder keeps the canonical order: case-insensitive by name, then scope.
func (r *Registry) sortOrder() {
	sort.SliceStable(r.order, func(i, j int) bool {
		a, b := strings.ToLower(r.order[i].Name), strings.ToLower(r.order[j].Name)
		if a != b {
			return a < b
		}
		return r.order[i].Scope < r.order[j].Scope
	})
}

// recompute rebuilds the view and restores the selection to keep when it is
// still visible, falling back to the first row.
func (r *Registry) recompute(keep unit.ID, hadSelection bool) {
	search := r.search
	ids := make([]unit.ID, 0, len(r.order))
	for _, id := range r.order {
		if search == "" || r.match(r.units[id].ShortName(), search) {
			ids = append(ids, id)
		}
	}
	r.view.SetItems(ids)
	if hadSelection {
		for i, id := range ids {
			if id == keep {
				r.view.Select(i)
				return
			}
		}
	}
	r.view.Select(0)
}
