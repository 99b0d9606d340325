// Package textinput owns the caret and selection of whichever editable
// field currently has focus (SPEC_FULL.md §4.6). Indexing at the API
// boundary is by grapheme cluster, per the invariant that cursor/anchor
// never split a user-perceived character; internal storage is a plain
// Go string (code points), with cluster boundaries recomputed on demand
// via rivo/uniseg.
package textinput

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rivo/uniseg"

	"github.com/oxidekit/oxidekit-core/internal/logging"
)

// Field is the editing state of one focused editable node: content plus
// a cursor/anchor pair measured in grapheme clusters (cursor == anchor
// means an empty selection, per the spec invariant).
type Field struct {
	Content   string
	Cursor    int
	Anchor    int
	ReadOnly  bool
	Multiline bool
}

// Manager owns at most one active Field — the one belonging to whichever
// CIR node C5 currently reports as focused. A nil active field means no
// editable node is focused, and every operation below is a no-op.
type Manager struct {
	active *Field
}

// New returns a Manager with no active field.
func New() *Manager {
	return &Manager{}
}

// Focus makes f the active field, replacing whatever was focused before
// (C5 is expected to have already fired blur on the previous node).
func (m *Manager) Focus(f *Field) {
	m.active = f
}

// Blur clears the active field.
func (m *Manager) Blur() {
	m.active = nil
}

// Active returns the currently focused field, or nil.
func (m *Manager) Active() *Field {
	return m.active
}

// clusters splits s into its grapheme-cluster boundaries, as byte
// offsets into s including both ends ([]int{0, ..., len(s)}), so that
// clusters()[i] is the byte offset of the i-th cluster boundary and
// len(clusters())-1 is the field's length in clusters.
func clusters(s string) []int {
	bounds := []int{0}
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		_, to := gr.Positions()
		bounds = append(bounds, to)
	}
	return bounds
}

func clampCluster(n, count int) int {
	if n < 0 {
		return 0
	}
	if n > count {
		return count
	}
	return n
}

// OnKeyDown handles one keyboard sample against the active field,
// reporting whether it consumed the event (so the caller — the generic
// dispatcher per §4.5 — skips further handling when true). Arrow/Home/
// End/Backspace/Delete, Enter (consumed by single-line fields only) and
// the clipboard shortcuts are the only keys recognised here; everything
// else is left for C5.
func (m *Manager) OnKeyDown(key string, shift, ctrl, meta bool) bool {
	f := m.active
	if f == nil {
		return false
	}

	if ctrl || meta {
		switch key {
		case "a", "A":
			f.Anchor = 0
			f.Cursor = len(clusters(f.Content)) - 1
			return true
		case "c", "C":
			m.copySelection(f)
			return true
		case "x", "X":
			if !f.ReadOnly {
				m.copySelection(f)
				m.deleteSelection(f)
			}
			return true
		case "v", "V":
			if !f.ReadOnly {
				m.paste(f)
			}
			return true
		}
		return false
	}

	switch key {
	case "ArrowLeft":
		m.moveCursor(f, -1, shift)
		return true
	case "ArrowRight":
		m.moveCursor(f, 1, shift)
		return true
	case "Home":
		m.setCursor(f, 0, shift)
		return true
	case "End":
		bounds := clusters(f.Content)
		m.setCursor(f, len(bounds)-1, shift)
		return true
	case "Backspace":
		if !f.ReadOnly {
			m.backspace(f)
		}
		return true
	case "Delete":
		if !f.ReadOnly {
			m.delete(f)
		}
		return true
	case "Enter":
		return !f.Multiline
	}
	return false
}

func (m *Manager) moveCursor(f *Field, delta int, shift bool) {
	bounds := clusters(f.Content)
	count := len(bounds) - 1
	if !shift && f.Cursor != f.Anchor {
		// A plain arrow key with an active selection collapses it to
		// whichever end the arrow points toward, matching common text
		// field behaviour, rather than moving from the cursor alone.
		if delta < 0 {
			edge := min(f.Cursor, f.Anchor)
			f.Cursor, f.Anchor = edge, edge
			return
		}
		edge := max(f.Cursor, f.Anchor)
		f.Cursor, f.Anchor = edge, edge
		return
	}
	m.setCursor(f, clampCluster(f.Cursor+delta, count), shift)
}

func (m *Manager) setCursor(f *Field, cluster int, shift bool) {
	bounds := clusters(f.Content)
	cluster = clampCluster(cluster, len(bounds)-1)
	f.Cursor = cluster
	if !shift {
		f.Anchor = cluster
	}
}

// OnTextInput inserts str at the caret (the IME/commit path per §4.6),
// replacing any active selection first.
func (m *Manager) OnTextInput(str string) {
	f := m.active
	if f == nil || f.ReadOnly || str == "" {
		return
	}
	if f.Cursor != f.Anchor {
		m.deleteSelection(f)
	}
	bounds := clusters(f.Content)
	at := bounds[f.Cursor]
	f.Content = f.Content[:at] + str + f.Content[at:]

	newBounds := clusters(f.Content)
	inserted := len(clusters(str)) - 1
	newCursor := clampCluster(f.Cursor+inserted, len(newBounds)-1)
	f.Cursor = newCursor
	f.Anchor = newCursor
}

func (m *Manager) backspace(f *Field) {
	if f.Cursor != f.Anchor {
		m.deleteSelection(f)
		return
	}
	if f.Cursor == 0 {
		return
	}
	bounds := clusters(f.Content)
	from, to := bounds[f.Cursor-1], bounds[f.Cursor]
	f.Content = f.Content[:from] + f.Content[to:]
	f.Cursor--
	f.Anchor = f.Cursor
}

func (m *Manager) delete(f *Field) {
	if f.Cursor != f.Anchor {
		m.deleteSelection(f)
		return
	}
	bounds := clusters(f.Content)
	count := len(bounds) - 1
	if f.Cursor >= count {
		return
	}
	from, to := bounds[f.Cursor], bounds[f.Cursor+1]
	f.Content = f.Content[:from] + f.Content[to:]
}

// deleteSelection removes the span between anchor and cursor (in either
// order) and collapses both to the deletion point.
func (m *Manager) deleteSelection(f *Field) {
	bounds := clusters(f.Content)
	lo, hi := f.Cursor, f.Anchor
	if lo > hi {
		lo, hi = hi, lo
	}
	from, to := bounds[lo], bounds[hi]
	f.Content = f.Content[:from] + f.Content[to:]
	f.Cursor = lo
	f.Anchor = lo
}

// selectedText returns the substring currently selected, empty when the
// selection is empty.
func selectedText(f *Field) string {
	bounds := clusters(f.Content)
	lo, hi := f.Cursor, f.Anchor
	if lo > hi {
		lo, hi = hi, lo
	}
	return f.Content[bounds[lo]:bounds[hi]]
}

func (m *Manager) copySelection(f *Field) {
	text := selectedText(f)
	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		logging.Category(logging.CategoryWarn).Warnf("textinput: clipboard copy failed: %v", err)
	}
}

func (m *Manager) paste(f *Field) {
	text, err := clipboard.ReadAll()
	if err != nil {
		logging.Category(logging.CategoryWarn).Warnf("textinput: clipboard paste failed: %v", err)
		return
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !f.Multiline {
		text = strings.ReplaceAll(text, "\n", " ")
	}
	m.OnTextInput(text)
}
