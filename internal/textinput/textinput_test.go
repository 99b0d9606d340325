package textinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnTextInputInsertsAtCursor(t *testing.T) {
	f := &Field{Content: "helloworld"}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 5, 5

	m.OnTextInput(" ")
	assert.Equal(t, "hello world", f.Content)
	assert.Equal(t, 6, f.Cursor)
	assert.Equal(t, 6, f.Anchor)
}

func TestOnTextInputReplacesSelection(t *testing.T) {
	f := &Field{Content: "hello world"}
	m := New()
	m.Focus(f)
	f.Anchor, f.Cursor = 0, 5 // selects "hello"

	m.OnTextInput("goodbye")
	assert.Equal(t, "goodbye world", f.Content)
	assert.Equal(t, f.Cursor, f.Anchor)
}

func TestBackspaceDeletesPrecedingCluster(t *testing.T) {
	f := &Field{Content: "abc"}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 3, 3

	m.OnKeyDown("Backspace", false, false, false)
	assert.Equal(t, "ab", f.Content)
	assert.Equal(t, 2, f.Cursor)
}

func TestBackspaceAtStartIsNoop(t *testing.T) {
	f := &Field{Content: "abc"}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 0, 0

	m.OnKeyDown("Backspace", false, false, false)
	assert.Equal(t, "abc", f.Content)
	assert.Equal(t, 0, f.Cursor)
}

func TestDeleteRemovesFollowingCluster(t *testing.T) {
	f := &Field{Content: "abc"}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 0, 0

	m.OnKeyDown("Delete", false, false, false)
	assert.Equal(t, "bc", f.Content)
	assert.Equal(t, 0, f.Cursor)
}

func TestBackspaceOnSelectionDeletesSelection(t *testing.T) {
	f := &Field{Content: "hello world"}
	m := New()
	m.Focus(f)
	f.Anchor, f.Cursor = 0, 5

	m.OnKeyDown("Backspace", false, false, false)
	assert.Equal(t, " world", f.Content)
	assert.Equal(t, 0, f.Cursor)
	assert.Equal(t, 0, f.Anchor)
}

func TestArrowRightExtendsSelectionWithShift(t *testing.T) {
	f := &Field{Content: "hello"}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 0, 0

	m.OnKeyDown("ArrowRight", true, false, false)
	m.OnKeyDown("ArrowRight", true, false, false)
	assert.Equal(t, 2, f.Cursor)
	assert.Equal(t, 0, f.Anchor)
}

func TestArrowLeftWithoutShiftCollapsesSelection(t *testing.T) {
	f := &Field{Content: "hello"}
	m := New()
	m.Focus(f)
	f.Anchor, f.Cursor = 1, 4

	m.OnKeyDown("ArrowLeft", false, false, false)
	assert.Equal(t, f.Cursor, f.Anchor)
	assert.Equal(t, 1, f.Cursor)
}

func TestHomeAndEndMoveToFieldBoundaries(t *testing.T) {
	f := &Field{Content: "hello"}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 3, 3

	m.OnKeyDown("Home", false, false, false)
	assert.Equal(t, 0, f.Cursor)

	m.OnKeyDown("End", false, false, false)
	assert.Equal(t, 5, f.Cursor)
}

func TestSelectAllSelectsEntireContent(t *testing.T) {
	f := &Field{Content: "hello"}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 2, 2

	handled := m.OnKeyDown("a", false, true, false)
	require.True(t, handled)
	assert.Equal(t, 0, f.Anchor)
	assert.Equal(t, 5, f.Cursor)
}

func TestEnterIsConsumedOnlyForSingleLineFields(t *testing.T) {
	single := &Field{Content: "", Multiline: false}
	multi := &Field{Content: "", Multiline: true}
	m := New()

	m.Focus(single)
	assert.True(t, m.OnKeyDown("Enter", false, false, false))

	m.Focus(multi)
	assert.False(t, m.OnKeyDown("Enter", false, false, false))
}

func TestReadOnlyFieldRejectsEdits(t *testing.T) {
	f := &Field{Content: "locked", ReadOnly: true}
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 3, 3

	m.OnTextInput("x")
	assert.Equal(t, "locked", f.Content)

	m.OnKeyDown("Backspace", false, false, false)
	assert.Equal(t, "locked", f.Content)
}

func TestNoActiveFieldIsNoop(t *testing.T) {
	m := New()
	assert.False(t, m.OnKeyDown("ArrowLeft", false, false, false))
	m.OnTextInput("x") // must not panic
	assert.Nil(t, m.Active())
}

func TestMultiByteGraphemesCountAsOneCluster(t *testing.T) {
	f := &Field{Content: "aéb"} // "a", "é" (combining or precomposed), "b"
	m := New()
	m.Focus(f)
	f.Cursor, f.Anchor = 0, 0

	m.OnKeyDown("ArrowRight", false, false, false)
	m.OnKeyDown("ArrowRight", false, false, false)
	assert.Equal(t, 2, f.Cursor)
}
