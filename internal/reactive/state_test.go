package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSetGet(t *testing.T) {
	s := NewState()
	s.Set("counter", IntValue(1))

	v, ok := s.Get("counter")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.I)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStateMutateArithmetic(t *testing.T) {
	s := NewState()
	s.Set("counter", IntValue(10))

	ok := s.Mutate("counter", MutateAdd, FloatValue(5))
	require.True(t, ok)
	v, _ := s.Get("counter")
	assert.Equal(t, 15.0, v.F)

	ok = s.Mutate("counter", MutateMul, FloatValue(2))
	require.True(t, ok)
	v, _ = s.Get("counter")
	assert.Equal(t, 30.0, v.F)
}

func TestStateMutateDivByZeroFails(t *testing.T) {
	s := NewState()
	s.Set("x", FloatValue(10))
	ok := s.Mutate("x", MutateDiv, FloatValue(0))
	assert.False(t, ok)
}

func TestStateMutateOnNonNumericFails(t *testing.T) {
	s := NewState()
	s.Set("name", StringValue("ada"))
	ok := s.Mutate("name", MutateAdd, FloatValue(1))
	assert.False(t, ok)
}

func TestStateMutateCreatesMissingFieldAsZero(t *testing.T) {
	s := NewState()
	ok := s.Mutate("fresh", MutateAdd, FloatValue(7))
	require.True(t, ok)
	v, _ := s.Get("fresh")
	assert.Equal(t, 7.0, v.F)
}

func TestStateVersionMonotonic(t *testing.T) {
	s := NewState()
	v0 := s.Version()
	s.Set("a", IntValue(1))
	v1 := s.Version()
	assert.Greater(t, v1, v0)
	assert.True(t, s.HasChangedSince(v0))
	assert.False(t, s.HasChangedSince(v1))
}

func TestStateIterInsertionOrder(t *testing.T) {
	s := NewState()
	s.Set("z", IntValue(1))
	s.Set("a", IntValue(2))
	s.Set("m", IntValue(3))

	var keys []string
	s.Iter(func(key string, _ Value) { keys = append(keys, key) })
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestStateInitFromJSONFlattensNested(t *testing.T) {
	s := NewState()
	err := s.InitFromJSON(`{"user": {"email": "a@b.com", "age": 30}, "active": true}`)
	require.NoError(t, err)

	email, ok := s.Get("user.email")
	require.True(t, ok)
	assert.Equal(t, "a@b.com", email.S)

	age, ok := s.Get("user.age")
	require.True(t, ok)
	assert.Equal(t, int64(30), age.I)

	active, ok := s.Get("active")
	require.True(t, ok)
	assert.True(t, active.B)
}
