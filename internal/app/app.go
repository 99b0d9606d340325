// Package app wires the glfw window, the wgpu-backed render.GPU, and
// the layout/event/reactive packages into one running frame loop
// (SPEC_FULL.md §4.9): it owns the CIR tree, drives builds through
// render.Builder on every frame, forwards glfw input callbacks
// into event.Dispatcher and textinput.Manager, and applies whatever
// handler actions and host state updates accumulate in between.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/oxidekit/oxidekit-core/internal/appctx"
	"github.com/oxidekit/oxidekit-core/internal/cir"
	"github.com/oxidekit/oxidekit-core/internal/config"
	"github.com/oxidekit/oxidekit-core/internal/event"
	"github.com/oxidekit/oxidekit-core/internal/logging"
	"github.com/oxidekit/oxidekit-core/internal/reactive"
	"github.com/oxidekit/oxidekit-core/internal/render"
	"github.com/oxidekit/oxidekit-core/internal/textinput"
	"github.com/oxidekit/oxidekit-core/internal/textsys"
)

// devOverlayCapacity bounds the dev overlay's log ring buffer (§4.10:
// "the most recent lines", not an unbounded transcript).
const devOverlayCapacity = 12

// App owns every piece of runtime state a running window needs: the
// glfw window and its wgpu surface, the CIR tree currently being
// shown, the builder/dispatcher/state triple that turns that tree
// into pixels and handles input, and the host communication channel.
type App struct {
	manifest config.Manifest

	win *glfw.Window
	gpu *render.GPU

	builder    *render.Builder
	dispatcher *event.Dispatcher
	textInput  *textinput.Manager
	state      *reactive.State
	ctx        *appctx.Context

	root      *cir.Node
	lastCount int

	editableFields map[string]*textinput.Field
	focusedID      string

	devOverlay bool
	devLog     []render.LogLine
}

// New creates the window, GPU surface, and every runtime subsystem for
// manifest, showing root (or the built-in fallback demo tree when root
// is nil, per §4.10's CompilationError-fallback behaviour).
func New(manifest config.Manifest, font []byte, root *cir.Node) (*App, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("app: initialising glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolToGLFW(manifest.Window.Resizable))
	glfw.WindowHint(glfw.Decorated, boolToGLFW(manifest.Window.Decorations))

	win, err := glfw.CreateWindow(int(manifest.Window.Width), int(manifest.Window.Height), manifest.Window.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("app: creating window: %w", err)
	}
	if manifest.Window.MinWidth > 0 || manifest.Window.MinHeight > 0 {
		win.SetSizeLimits(int(manifest.Window.MinWidth), int(manifest.Window.MinHeight), glfw.DontCare, glfw.DontCare)
	}

	fbW, fbH := win.GetFramebufferSize()
	winW, _ := win.GetSize()
	scale := 1.0
	if winW > 0 {
		scale = float64(fbW) / float64(winW)
	}

	gpu, err := render.NewGPU(surfaceDescriptor(win), uint32(fbW), uint32(fbH), scale)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	text, err := textsys.New(font)
	if err != nil {
		gpu.Release()
		return nil, fmt.Errorf("app: %w", err)
	}

	if root == nil {
		root = buildDemoTree()
	}

	a := &App{
		manifest:       manifest,
		win:            win,
		gpu:            gpu,
		builder:        render.NewBuilder(text),
		dispatcher:     event.New(),
		textInput:      textinput.New(),
		state:          reactive.NewState(),
		ctx:            appctx.New(),
		root:           root,
		editableFields: make(map[string]*textinput.Field),
		devOverlay:     manifest.Dev.Inspector,
	}
	a.lastCount = cir.Count(root)

	logging.AddHook(a)
	a.installCallbacks()

	return a, nil
}

// Fire implements logging.Hook, feeding the dev overlay's log ring
// buffer. Called from whatever goroutine logged the line; App itself
// only ever reads devLog on the UI thread inside buildAndSubmit, so a
// benign one-frame race against the last append is acceptable rather
// than adding a mutex for a purely cosmetic overlay.
func (a *App) Fire(category, level, message string) {
	line := render.LogLine{Category: category, Message: fmt.Sprintf("[%s] %s", level, message)}
	a.devLog = append(a.devLog, line)
	if len(a.devLog) > devOverlayCapacity {
		a.devLog = a.devLog[len(a.devLog)-devOverlayCapacity:]
	}
}

// SetRoot replaces the tree being shown, e.g. after a hot-reloaded
// recompile (§4.10). Passing nil restores the fallback demo tree.
func (a *App) SetRoot(root *cir.Node) {
	if root == nil {
		root = buildDemoTree()
	}
	a.root = root
	a.lastCount = cir.Count(root)
}

// Context returns the bidirectional host/UI command queue.
func (a *App) Context() *appctx.Context { return a.ctx }

// State returns the reactive store backing bound text and handler
// mutations.
func (a *App) State() *reactive.State { return a.state }

func (a *App) installCallbacks() {
	a.win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		winW, winH := w.GetSize()
		scale := 1.0
		if winW > 0 {
			scale = float64(width) / float64(winW)
		}
		if err := a.gpu.Resize(uint32(width), uint32(height), scale); err != nil {
			logging.Category(logging.CategoryWarn).Errorf("app: resize failed: %v", err)
		}
	})

	a.win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		a.dispatchPointer(event.PointerMove, event.Pointer{X: x, Y: y})
	})

	a.win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		p := event.Pointer{X: x, Y: y, Button: int(button)}
		if action == glfw.Press {
			a.dispatchPointer(event.PointerDown, p)
		} else if action == glfw.Release {
			a.dispatchPointer(event.PointerUp, p)
		}
	})

	a.win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		if key == glfw.KeyF12 {
			a.devOverlay = !a.devOverlay
			return
		}
		name := keyName(key)
		shift := mods&glfw.ModShift != 0
		ctrl := mods&glfw.ModControl != 0
		meta := mods&glfw.ModSuper != 0
		if a.textInput.OnKeyDown(name, shift, ctrl, meta) {
			return
		}
		if key == glfw.KeyTab {
			a.applyActions(a.dispatcher.FocusNext())
			a.syncTextInputFocus()
			return
		}
		a.applyActions(a.dispatcher.KeyEvent(event.KeyDown, event.Key{Code: name, Shift: shift, Control: ctrl, Alt: mods&glfw.ModAlt != 0, Super: meta}).Actions)
	})

	a.win.SetCharCallback(func(w *glfw.Window, r rune) {
		a.textInput.OnTextInput(string(r))
	})
}

func (a *App) dispatchPointer(kind event.Kind, p event.Pointer) {
	result := a.dispatcher.PointerEvent(kind, p, a.builder.LastLayout(), time.Now())
	a.applyActions(result.Actions)
	if kind == event.PointerDown {
		a.syncTextInputFocus()
	}
}

func (a *App) applyActions(actions []cir.HandlerAction) {
	for _, action := range actions {
		event.Apply(action, a.state, a.ctx)
	}
}

// syncTextInputFocus keeps internal/textinput's active field aligned
// with the dispatcher's focus target (§4.6: "focus/blur kept in sync
// with hit-testing"). A node opts into text editing by carrying an
// "editable" prop; its Field is created lazily on first focus and kept
// for the node's lifetime so content survives a blur/refocus cycle.
func (a *App) syncTextInputFocus() {
	focusID := a.dispatcher.FocusID()
	if focusID == a.focusedID {
		return
	}
	a.focusedID = focusID
	if focusID == "" {
		a.textInput.Blur()
		return
	}

	index := cir.IndexByID(a.root)
	node, ok := index[focusID]
	if !ok {
		a.textInput.Blur()
		return
	}
	editable, _ := node.Prop("editable")
	if !editable.AsBool() {
		a.textInput.Blur()
		return
	}

	field, ok := a.editableFields[focusID]
	if !ok {
		field = &textinput.Field{}
		if v, ok := node.Prop("text"); ok && !v.IsBinding() {
			field.Content = v.AsString()
		}
		if v, ok := node.Prop("multiline"); ok {
			field.Multiline = v.AsBool()
		}
		a.editableFields[focusID] = field
	}
	a.textInput.Focus(field)
}

// Run drains host updates, rebuilds and submits a frame, and polls
// glfw events in a loop until the window is asked to close.
func (a *App) Run(ctx context.Context) error {
	defer a.gpu.Release()
	defer a.win.Destroy()
	defer glfw.Terminate()

	for !a.win.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		a.applyStateUpdates()

		if err := a.buildAndSubmit(ctx); err != nil {
			logging.Category(logging.CategoryWarn).Errorf("app: frame build failed: %v", err)
		}

		glfw.PollEvents()
	}
	return nil
}

func (a *App) applyStateUpdates() {
	for _, update := range a.ctx.TakeStateUpdates() {
		a.state.Set(update.Key, reactive.StringValue(update.Value))
	}
}

func (a *App) buildAndSubmit(ctx context.Context) error {
	width, height := a.win.GetSize()

	// §4.10: a rebuild that silently drops or duplicates nodes relative
	// to the tree's own declared shape is a bug worth surfacing, not a
	// condition worth failing the frame over — logged, not fatal.
	if count := cir.Count(a.root); count != a.lastCount {
		logging.Category(logging.CategoryWarn).Warnf("app: node count changed across rebuild without SetRoot (%d -> %d)", a.lastCount, count)
		a.lastCount = count
	}

	interaction := render.Interaction{HoverID: a.dispatcher.HoverID(), PressID: a.dispatcher.PressID()}
	frame, err := a.builder.Build(ctx, a.root, float64(width), float64(height), a.state, interaction)
	if err != nil {
		return err
	}

	a.dispatcher.SetTree(a.root, frame.Layout, frame.Root)

	if a.manifest.Dev.DebugLayout {
		frame.Commands = append(frame.Commands, render.BuildDebugLayoutOverlay(frame.Layout, frame.Root)...)
	}
	if a.devOverlay {
		frame.Commands = append(frame.Commands, render.BuildDevOverlay(a.builder.TextSystem(), float64(width), a.devLog, a.stateSnapshot())...)
	}

	return a.gpu.SubmitFrame(frame)
}

func (a *App) stateSnapshot() []render.StateEntry {
	var entries []render.StateEntry
	a.state.Iter(func(key string, value reactive.Value) {
		entries = append(entries, render.StateEntry{Key: key, Value: value.String()})
	})
	return entries
}

func boolToGLFW(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// keyName maps the handful of glfw key codes internal/textinput and
// internal/event care about to the string names their APIs expect;
// anything else falls back to "Key" followed by the numeric glfw key
// code so application-level handlers can still match on it.
func keyName(key glfw.Key) string {
	switch key {
	case glfw.KeyLeft:
		return "ArrowLeft"
	case glfw.KeyRight:
		return "ArrowRight"
	case glfw.KeyUp:
		return "ArrowUp"
	case glfw.KeyDown:
		return "ArrowDown"
	case glfw.KeyHome:
		return "Home"
	case glfw.KeyEnd:
		return "End"
	case glfw.KeyBackspace:
		return "Backspace"
	case glfw.KeyDelete:
		return "Delete"
	case glfw.KeyEnter:
		return "Enter"
	case glfw.KeyEscape:
		return "Escape"
	case glfw.KeyTab:
		return "Tab"
	case glfw.KeyA:
		return "a"
	case glfw.KeyC:
		return "c"
	case glfw.KeyX:
		return "x"
	case glfw.KeyV:
		return "v"
	default:
		return fmt.Sprintf("Key%d", int(key))
	}
}
