// Package appctx implements the bidirectional channel between the UI
// thread and the embedding host (SPEC_FULL.md §4.8): two mutex-guarded
// FIFOs plus a shared string map for out-of-band key/value exchange.
package appctx

import "sync"

// CommandKind tags which alternative of Command is populated.
type CommandKind int

const (
	CommandFunctionCall CommandKind = iota
	CommandNavigate
	CommandCustom
)

// Command is a UI → host message, pushed by handler execution
// (SPEC_FULL.md §4.5) and drained by the host on its own schedule.
type Command struct {
	Kind CommandKind

	// FunctionCall
	FuncName string
	Args     []string

	// Navigate
	Path string

	// Custom
	CustomName    string
	CustomPayload string
}

// StateUpdate is a host → UI message: a single key/value pair to apply
// to the reactive state store at the start of the next frame.
type StateUpdate struct {
	Key   string
	Value string
}

// Context is shared between the UI thread and one or more host threads.
// Ordering is FIFO within each queue; there is no ordering guarantee
// between the two queues, and no cancellation — the host decides
// whether to act on a command that refers to stale state.
type Context struct {
	stateMu      sync.Mutex
	stateUpdates []StateUpdate

	cmdMu    sync.Mutex
	commands []Command

	sharedMu sync.RWMutex
	shared   map[string]string
}

// New returns an empty Context.
func New() *Context {
	return &Context{shared: make(map[string]string)}
}

// PushStateUpdate enqueues a host → UI update. Called from a host
// thread.
func (c *Context) PushStateUpdate(key, value string) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.stateUpdates = append(c.stateUpdates, StateUpdate{Key: key, Value: value})
}

// TakeStateUpdates drains and returns every queued update in FIFO order.
// Called once per frame from the UI thread.
func (c *Context) TakeStateUpdates() []StateUpdate {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if len(c.stateUpdates) == 0 {
		return nil
	}
	updates := c.stateUpdates
	c.stateUpdates = nil
	return updates
}

// PushCommand enqueues a UI → host command. Called during handler
// execution on the UI thread.
func (c *Context) PushCommand(cmd Command) {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	c.commands = append(c.commands, cmd)
}

// TakeCommands drains and returns every queued command in FIFO order.
// Called from a host thread at whatever cadence the host chooses.
func (c *Context) TakeCommands() []Command {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if len(c.commands) == 0 {
		return nil
	}
	cmds := c.commands
	c.commands = nil
	return cmds
}

// SetShared writes to the out-of-band string map.
func (c *Context) SetShared(key, value string) {
	c.sharedMu.Lock()
	defer c.sharedMu.Unlock()
	c.shared[key] = value
}

// GetShared reads from the out-of-band string map.
func (c *Context) GetShared(key string) (string, bool) {
	c.sharedMu.RLock()
	defer c.sharedMu.RUnlock()
	v, ok := c.shared[key]
	return v, ok
}
