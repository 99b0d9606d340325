// Package oxidekit is the embedder-facing facade over the runtime: a host
// program that already has a compiled CIR tree (or wants the built-in demo
// tree) links this package rather than reaching into internal/* directly.
// It re-exports the manifest and CIR node/value types so a host can build a
// UI tree and a config without importing internal packages by hand, and
// wraps internal/app.App's lifecycle behind Open/SetRoot/State/Context/Run.
package oxidekit

import (
	"context"

	"github.com/oxidekit/oxidekit-core/internal/app"
	"github.com/oxidekit/oxidekit-core/internal/appctx"
	"github.com/oxidekit/oxidekit-core/internal/cir"
	"github.com/oxidekit/oxidekit-core/internal/config"
	"github.com/oxidekit/oxidekit-core/internal/reactive"
)

// Manifest mirrors oxide.toml (app/core/window/dev sections).
type Manifest = config.Manifest

// DefaultManifest returns the manifest used when no oxide.toml is found.
func DefaultManifest() Manifest { return config.Default() }

// LoadManifest reads and validates an oxide.toml file at path.
func LoadManifest(path string) (Manifest, error) { return config.Load(path) }

// Node is one element of a CIR tree. A host builds a tree as nested Node
// struct literals (see internal/app/demo.go for the convention this
// follows) and passes its root to Open.
type Node = cir.Node

// Property is one (name, value) pair of a Node's Props or Style list.
type Property = cir.Property

// Handler is one (event name, expression) pair attached to a Node, parsed
// by the runtime into a state mutation, navigation, or function call.
type Handler = cir.Handler

// EventClick, EventInput and the other event names a Node's Handlers may
// name, re-exported from internal/cir.
const (
	EventClick       = cir.EventClick
	EventDoubleClick = cir.EventDoubleClick
	EventMouseDown   = cir.EventMouseDown
	EventMouseUp     = cir.EventMouseUp
	EventMouseEnter  = cir.EventMouseEnter
	EventMouseLeave  = cir.EventMouseLeave
	EventMouseMove   = cir.EventMouseMove
	EventFocus       = cir.EventFocus
	EventBlur        = cir.EventBlur
	EventKeyDown     = cir.EventKeyDown
	EventKeyUp       = cir.EventKeyUp
	EventInput       = cir.EventInput
)

// Value is a CIR property value: a string, number, bool, or a reactive
// state binding produced by Bind.
type Value = cir.Value

// String, Number, Bool and Bind construct CIR property values.
func String(s string) Value     { return cir.String(s) }
func Number(n float64) Value    { return cir.Number(n) }
func Bool(b bool) Value         { return cir.Bool(b) }
func Bind(varName string) Value { return cir.Binding(varName) }

// Kind constants for Node.Kind, re-exported from internal/cir.
const (
	KindText      = cir.KindText
	KindColumn    = cir.KindColumn
	KindRow       = cir.KindRow
	KindContainer = cir.KindContainer
	KindScroll    = cir.KindScroll
	KindScrollX   = cir.KindScrollX
	KindScrollY   = cir.KindScrollY
	KindButton    = cir.KindButton
	KindImage     = cir.KindImage
	KindLink      = cir.KindLink
)

// Application is a running OxideKit window. Obtain one with Open.
type Application struct {
	app *app.App
}

// Open creates the native window and GPU surface described by manifest and
// prepares root for display. font is the TrueType/OpenType data to load for
// text rendering; nil falls back to the text system's built-in system font.
// root is nil to show the runtime's built-in demo tree instead of a
// compiled UI (§4.10).
func Open(manifest Manifest, font []byte, root *Node) (*Application, error) {
	a, err := app.New(manifest, font, root)
	if err != nil {
		return nil, err
	}
	return &Application{app: a}, nil
}

// SetRoot swaps the displayed tree, taking effect on the next frame.
func (a *Application) SetRoot(root *Node) { a.app.SetRoot(root) }

// State returns the reactive state store backing text/prop bindings, so a
// host can push values the UI tree reads via Bind.
func (a *Application) State() *reactive.State { return a.app.State() }

// SetInt seeds or updates a reactive state key with an integer value, for
// hosts that only need scalar bindings and don't otherwise need
// internal/reactive's full Value union.
func (a *Application) SetInt(key string, v int64) {
	a.app.State().Set(key, reactive.IntValue(v))
}

// SetString seeds or updates a reactive state key with a string value.
func (a *Application) SetString(key, v string) {
	a.app.State().Set(key, reactive.StringValue(v))
}

// Context returns the application context a handler action or host code
// uses to queue state updates and navigation/custom commands.
func (a *Application) Context() *appctx.Context { return a.app.Context() }

// Run blocks, driving the frame loop until the window is closed or ctx is
// canceled.
func (a *Application) Run(ctx context.Context) error { return a.app.Run(ctx) }
