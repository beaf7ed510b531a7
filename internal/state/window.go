package state

// Window returns the first visible row for a list of total rows rendered in
// maxVisible rows so that cursor stays on screen. prevOffset is honoured while
// the cursor remains inside it, which keeps scrolling stable.
func Window(cursor, total, maxVisible, prevOffset int) int {
	if total <= 0 || maxVisible <= 0 {
		return 0
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	maxOffset := total - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := prevOffset
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	if cursor < offset {
		offset = cursor
	}
	upper := offset + maxVisible - 1
	if cursor > upper {
		offset = cursor - maxVisible + 1
		if offset < 0 {
			offset = 0
		}
		if offset > maxOffset {
			offset = maxOffset
		}
	}
	return offset
}
