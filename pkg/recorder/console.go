package recorder

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions
var (
	colorTick     = color.New(color.FgHiBlack)
	colorCapture  = color.New(color.FgGreen, color.Bold)
	colorRejected = color.New(color.FgYellow)
	colorDegraded = color.New(color.FgRed, color.Bold)
	colorEvent    = color.New(color.FgCyan)
	colorMode     = color.New(color.FgMagenta)
)

// Console prints a compact live view of the run: every Nth tick a one-line
// flock and UAV summary, and every event as it happens.
type Console struct {
	every    uint64
	isTTY    bool
	width    int
	captures int
}

// NewConsole creates a console recorder that prints a status line every
// `every` ticks (0 disables status lines, events still print).
func NewConsole(every uint64) *Console {
	c := &Console{every: every, width: 80}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		c.isTTY = true
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			c.width = w
		}
	}
	return c
}

func (c *Console) RecordTick(report TickReport) {
	if c.every == 0 || report.Tick%c.every != 0 {
		return
	}

	row := summarize(report)
	target := "-"
	if report.UAV.TargetID != nil {
		target = fmt.Sprintf("bird %d", *report.UAV.TargetID)
	}

	line := fmt.Sprintf("tick %6d | birds %3d (C%d S%d G%d P%d) | energy %.1f avg | %s -> %s | captures %d",
		report.Tick, row.Birds, row.Cruising, row.Soaring, row.Gliding, row.Perched,
		row.MeanEnergy, colorMode.Sprint(report.UAV.Mode), target, report.CapturesTotal)
	if len(line) > c.width && c.width > 4 {
		line = line[:c.width-4] + "..."
	}
	colorTick.Println(line)
}

func (c *Console) RecordEvent(event Event) {
	switch event.Type {
	case EventCapture:
		c.captures++
		colorCapture.Printf("  >> CAPTURE #%d at tick %d: %s\n", c.captures, event.Tick, event.Message)
	case EventPlacementRejected, EventCommandIgnored:
		colorRejected.Printf("  !! tick %d: %s\n", event.Tick, event.Message)
	case EventUAVDegraded:
		colorDegraded.Printf("  !! tick %d: %s\n", event.Tick, event.Message)
	default:
		colorEvent.Printf("  -- tick %d: %s\n", event.Tick, event.Message)
	}
}

func (c *Console) Close() error {
	if c.captures > 0 {
		colorCapture.Printf("%s\n  run complete: %d capture(s)\n", strings.Repeat("-", 40), c.captures)
	}
	return nil
}
