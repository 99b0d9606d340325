//go:build linux

package app

import (
	"os"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/oxidekit/oxidekit-core/internal/render"
)

// surfaceDescriptor picks the Wayland or X11 native handle pair glfw
// created for win, favoring Wayland whenever WAYLAND_DISPLAY is set
// (matching glfw's own platform-selection convention) since a Wayland
// compositor does not expose the X11 handles at all.
func surfaceDescriptor(win *glfw.Window) render.SurfaceDescriptor {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return render.SurfaceDescriptor{
			WaylandSurface: uintptr(win.GetWaylandWindow()),
			WaylandDisplay: uintptr(unsafe.Pointer(glfw.GetWaylandDisplay())),
		}
	}
	return render.SurfaceDescriptor{
		X11Window:  uintptr(win.GetX11Window()),
		X11Display: uintptr(unsafe.Pointer(glfw.GetX11Display())),
	}
}
