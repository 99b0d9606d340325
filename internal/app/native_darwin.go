//go:build darwin

package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/oxidekit/oxidekit-core/internal/render"
)

// surfaceDescriptor extracts the NSWindow glfw created for win, the only
// handle `render.NewGPU` needs to build a Metal-backed surface via wgpu's
// Cocoa path.
func surfaceDescriptor(win *glfw.Window) render.SurfaceDescriptor {
	return render.SurfaceDescriptor{CocoaNSWindow: uintptr(win.GetCocoaWindow())}
}
