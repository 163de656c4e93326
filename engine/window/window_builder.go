package window

import "github.com/Carmen-Shannon/oxy-cube/common"

// WindowBuilderOption adjusts a window before it opens.
type WindowBuilderOption func(w *glfwWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.title = title
	}
}

// WithSize requests the initial window size in screen coordinates. A non-positive dimension
// keeps its default.
//
// Parameters:
//   - width: the requested width
//   - height: the requested height
//
// Returns:
//   - WindowBuilderOption: the option
func WithSize(width, height int) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.width = common.Coalesce(max(width, 0), w.width)
		w.height = common.Coalesce(max(height, 0), w.height)
	}
}

// WithSizeLimits bounds interactive resizing.
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.limits = sizeLimits{minWidth: minWidth, minHeight: minHeight, maxWidth: maxWidth, maxHeight: maxHeight}
	}
}
