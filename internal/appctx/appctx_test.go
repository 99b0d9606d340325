package appctx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateUpdateFIFOOrdering(t *testing.T) {
	ctx := New()
	ctx.PushStateUpdate("a", "1")
	ctx.PushStateUpdate("b", "2")
	ctx.PushStateUpdate("c", "3")

	updates := ctx.TakeStateUpdates()
	assert.Equal(t, []StateUpdate{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "c", Value: "3"}}, updates)

	assert.Nil(t, ctx.TakeStateUpdates())
}

func TestCommandFIFOOrdering(t *testing.T) {
	ctx := New()
	ctx.PushCommand(Command{Kind: CommandNavigate, Path: "/a"})
	ctx.PushCommand(Command{Kind: CommandNavigate, Path: "/b"})

	cmds := ctx.TakeCommands()
	assert.Equal(t, "/a", cmds[0].Path)
	assert.Equal(t, "/b", cmds[1].Path)
}

func TestSharedMap(t *testing.T) {
	ctx := New()
	_, ok := ctx.GetShared("missing")
	assert.False(t, ok)

	ctx.SetShared("theme", "dark")
	v, ok := ctx.GetShared("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestConcurrentPushesDoNotRace(t *testing.T) {
	ctx := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			ctx.PushStateUpdate("k", "v")
		}(i)
		go func(i int) {
			defer wg.Done()
			ctx.PushCommand(Command{Kind: CommandCustom})
		}(i)
	}
	wg.Wait()

	assert.Len(t, ctx.TakeStateUpdates(), 50)
	assert.Len(t, ctx.TakeCommands(), 50)
}
