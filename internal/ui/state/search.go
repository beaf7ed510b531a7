// Package state holds UI-local editing state that never reaches the dispatcher
// until it is committed as an action.
package state

import "unicode"

// SearchBox is the text and rune cursor of the search input.
type SearchBox struct {
	text   []rune
	cursor int
}

// Text returns the current search text.
func (s *SearchBox) Text() string {
	return string(s.text)
}

// Cursor returns the rune offset of the caret.
func (s *SearchBox) Cursor() int {
	if s.cursor < 0 {
		return 0
	}
	if s.cursor > len(s.text) {
		return len(s.text)
	}
	return s.cursor
}

// Set replaces the text and clamps cursor into it.
func (s *SearchBox) Set(text string, cursor int) {
	s.text = []rune(text)
	s.cursor = cursor
	s.cursor = s.Cursor()
}

// Insert adds text at the cursor.
func (s *SearchBox) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	pos := s.Cursor()
	updated := make([]rune, 0, len(s.text)+len(insert))
	updated = append(updated, s.text[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, s.text[pos:]...)
	s.text = updated
	s.cursor = pos + len(insert)
	return true
}

// Clear empties the box.
func (s *SearchBox) Clear() bool {
	if len(s.text) == 0 {
		return false
	}
	s.text = nil
	s.cursor = 0
	return true
}

// DeleteBackward removes the rune before the cursor.
func (s *SearchBox) DeleteBackward() bool {
	pos := s.Cursor()
	if pos == 0 {
		return false
	}
	s.text = append(s.text[:pos-1:pos-1], s.text[pos:]...)
	s.cursor = pos - 1
	return true
}

// DeleteForward removes the rune under the cursor.
func (s *SearchBox) DeleteForward() bool {
	pos := s.Cursor()
	if pos >= len(s.text) {
		return false
	}
	s.text = append(s.text[:pos:pos], s.text[pos+1:]...)
	return true
}

// DeleteWordBackward removes the word preceding the cursor along with any
// spaces between it and the cursor.
func (s *SearchBox) DeleteWordBackward() bool {
	pos := s.Cursor()
	if pos == 0 {
		return false
	}
	i := s.wordStart(pos)
	s.text = append(s.text[:i:i], s.text[pos:]...)
	s.cursor = i
	return true
}

func (s *SearchBox) MoveStart() bool {
	return s.moveTo(0)
}

func (s *SearchBox) MoveEnd() bool {
	return s.moveTo(len(s.text))
}

func (s *SearchBox) MoveLeft() bool {
	return s.moveTo(s.Cursor() - 1)
}

func (s *SearchBox) MoveRight() bool {
	return s.moveTo(s.Cursor() + 1)
}

// MoveWordLeft jumps to the start of the previous word.
func (s *SearchBox) MoveWordLeft() bool {
	return s.moveTo(s.wordStart(s.Cursor()))
}

// MoveWordRight jumps past the next word and its trailing spaces.
func (s *SearchBox) MoveWordRight() bool {
	i := s.Cursor()
	for i < len(s.text) && !unicode.IsSpace(s.text[i]) {
		i++
	}
	for i < len(s.text) && unicode.IsSpace(s.text[i]) {
		i++
	}
	return s.moveTo(i)
}

func (s *SearchBox) wordStart(pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(s.text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(s.text[i-1]) {
		i--
	}
	return i
}

func (s *SearchBox) moveTo(pos int) bool {
	if pos < 0 || pos > len(s.text) || pos == s.Cursor() {
		return false
	}
	s.cursor = pos
	return true
}
