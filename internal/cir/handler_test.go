package cir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandlerStateMutation(t *testing.T) {
	a := ParseHandler("state.counter += 1")
	require.Equal(t, ActionStateMutation, a.Kind)
	assert.Equal(t, "counter", a.Field)
	assert.Equal(t, OpAdd, a.Op)
	assert.Equal(t, 1.0, a.Value.Num)
}

func TestParseHandlerStateSet(t *testing.T) {
	a := ParseHandler("state.user.name = 'Ada'")
	require.Equal(t, ActionStateMutation, a.Kind)
	assert.Equal(t, "user.name", a.Field)
	assert.Equal(t, OpSet, a.Op)
	assert.Equal(t, "Ada", a.Value.Str)
}

func TestParseHandlerNavigate(t *testing.T) {
	a := ParseHandler("navigate('/settings')")
	require.Equal(t, ActionNavigate, a.Kind)
	assert.Equal(t, "/settings", a.Path)
}

func TestParseHandlerFunctionCall(t *testing.T) {
	a := ParseHandler("submitForm(42, true)")
	require.Equal(t, ActionFunctionCall, a.Kind)
	assert.Equal(t, "submitForm", a.FuncName)
	require.Len(t, a.Args, 2)
	assert.Equal(t, 42.0, a.Args[0].Num)
	assert.True(t, a.Args[1].Bool)
}

func TestParseHandlerRawFallback(t *testing.T) {
	a := ParseHandler("this is not anything structured!!")
	assert.Equal(t, ActionRaw, a.Kind)
	assert.Equal(t, "this is not anything structured!!", a.Text)
}
