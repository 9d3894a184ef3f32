// Package rating implements the five-star rating widget used by the review
// form and the review list.
//
// Each Widget owns its state. Two widgets on the same screen never share a
// value or a change callback.
package rating

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultMax is the number of stars when Options.Max is unset.
const DefaultMax = 5

const (
	filledStar = "★"
	hollowStar = "☆"
)

// Class names reported by Widget.Class.
const (
	EditableClass = "stars"
	ReadOnlyClass = "stars readonly"
)

// Options configures a widget.
type Options struct {
	Value    int
	Max      int
	ReadOnly bool
	// OnChange is called after a user click changes the value. Set never
	// calls it.
	OnChange func(value int)
}

// Widget is a star rating.
type Widget struct {
	value    int
	max      int
	readOnly bool
	onChange func(int)

	filled lipgloss.Style
	hollow lipgloss.Style
}

// New creates a widget. The initial value is clamped to [0, Max].
func New(opts Options) *Widget {
	maxStars := opts.Max
	if maxStars <= 0 {
		maxStars = DefaultMax
	}
	w := &Widget{
		max:      maxStars,
		readOnly: opts.ReadOnly,
		onChange: opts.OnChange,
		filled:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C518")),
		hollow:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
	w.value = w.clamp(opts.Value)
	return w
}

func (w *Widget) clamp(v int) int {
	return max(0, min(v, w.max))
}

// Value returns the current rating.
func (w *Widget) Value() int { return w.value }

// Max returns the number of stars.
func (w *Widget) Max() int { return w.max }

// ReadOnly reports whether clicks are ignored.
func (w *Widget) ReadOnly() bool { return w.readOnly }

// Class returns the style class for the widget.
func (w *Widget) Class() string {
	if w.readOnly {
		return ReadOnlyClass
	}
	return EditableClass
}

// Click sets the rating as a user would by choosing star n. It returns
// false, and changes nothing, when the widget is read-only. OnChange runs
// only when the value actually changes.
func (w *Widget) Click(n int) bool {
	if w.readOnly {
		return false
	}
	next := w.clamp(n)
	if next == w.value {
		return true
	}
	w.value = next
	if w.onChange != nil {
		w.onChange(next)
	}
	return true
}

// Increment raises the rating by one star.
func (w *Widget) Increment() bool { return w.Click(w.value + 1) }

// Decrement lowers the rating by one star.
func (w *Widget) Decrement() bool { return w.Click(w.value - 1) }

// Set changes the value without calling OnChange, e.g. when a form is
// reset. It works on read-only widgets too.
func (w *Widget) Set(n int) {
	w.value = w.clamp(n)
}

// String renders the stars without styling.
func (w *Widget) String() string {
	return strings.Repeat(filledStar, w.value) + strings.Repeat(hollowStar, w.max-w.value)
}

// SetStyles replaces the filled and hollow star styles.
func (w *Widget) SetStyles(filled, hollow lipgloss.Style) {
	w.filled = filled
	w.hollow = hollow
}

// View renders the stars with color.
func (w *Widget) View() string {
	return w.filled.Render(strings.Repeat(filledStar, w.value)) +
		w.hollow.Render(strings.Repeat(hollowStar, w.max-w.value))
}
