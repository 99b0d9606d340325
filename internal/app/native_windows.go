//go:build windows

package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/oxidekit/oxidekit-core/internal/render"
)

// surfaceDescriptor extracts the native HWND glfw created for win, the
// only handle `render.NewGPU` needs to build a Win32 surface.
func surfaceDescriptor(win *glfw.Window) render.SurfaceDescriptor {
	return render.SurfaceDescriptor{Win32HWND: uintptr(win.GetWin32Window())}
}
