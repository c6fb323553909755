// Package console renders the current reading on a terminal.
//
// On a TTY the block is redrawn in place every cycle. Otherwise one plain
// line is printed per cycle so output stays readable when piped.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bft-labs/climalog/internal/ports"
)

const maxDots = 3

// DefaultActivityLabel is shown next to the activity spinner.
const DefaultActivityLabel = "DHT11 sampling"

// Options configures the display.
type Options struct {
	// Plain disables in-place redraw even on a terminal.
	Plain bool

	// ActivityLabel replaces DefaultActivityLabel when set.
	ActivityLabel string
}

// Display implements ports.Display.
type Display struct {
	output *termenv.Output
	redraw bool
	label  string
	drawn  int
	dots   int

	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
	unitStyle     lipgloss.Style
	activityStyle lipgloss.Style
}

// New creates a display writing to w.
func New(w io.Writer, opts Options) *Display {
	return newDisplay(w, !opts.Plain && isTerminal(w), opts.ActivityLabel)
}

func newDisplay(w io.Writer, redraw bool, label string) *Display {
	if label == "" {
		label = DefaultActivityLabel
	}
	renderer := lipgloss.NewRenderer(w)
	return &Display{
		output:        termenv.NewOutput(w),
		redraw:        redraw,
		label:         label,
		labelStyle:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		valueStyle:    renderer.NewStyle().Foreground(lipgloss.Color("14")),
		unitStyle:     renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		activityStyle: renderer.NewStyle().Bold(true).Italic(true).Foreground(lipgloss.Color("13")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render draws s. Write errors are ignored.
func (d *Display) Render(s ports.Snapshot) {
	d.dots = d.dots%maxDots + 1

	if !d.redraw {
		_, _ = fmt.Fprintf(d.output, "temperature=%d°C humidity=%d%% time=%q buffer=%d/%d\n",
			s.Reading.Temperature, s.Reading.Humidity, s.Reading.CapturedAt, s.Buffered, s.Capacity)
		return
	}

	lines := []string{
		d.field("Temperature", fmt.Sprint(s.Reading.Temperature), "°C"),
		d.field("Humidity", fmt.Sprint(s.Reading.Humidity), "%"),
		d.field("Time", s.Reading.CapturedAt, ""),
		d.field("Buffer", fmt.Sprintf("%d/%d", s.Buffered, s.Capacity), ""),
		d.activityStyle.Render(d.label) + " " + strings.Repeat(".", d.dots),
	}

	if d.drawn > 0 {
		d.output.CursorPrevLine(d.drawn)
	}
	for _, line := range lines {
		d.output.ClearLine()
		_, _ = fmt.Fprintln(d.output, line)
	}
	d.drawn = len(lines)
}

func (d *Display) field(name, value, unit string) string {
	out := d.labelStyle.Render(name) + ": " + d.valueStyle.Render(value)
	if unit != "" {
		out += " " + d.unitStyle.Render(unit)
	}
	return out
}
