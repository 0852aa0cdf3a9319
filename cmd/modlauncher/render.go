package main

import (
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"modlauncher/internal/pipeline"
)

// eventRenderer writes pipeline events to a terminal and keeps an uncoloured
// transcript for --save-log.
type eventRenderer struct {
	mu         sync.Mutex
	out        io.Writer
	colors     map[pipeline.EventKind]*color.Color
	transcript strings.Builder
	summary    string
}

func newEventRenderer(out io.Writer, colorize bool) *eventRenderer {
	r := &eventRenderer{out: out}
	if colorize {
		r.colors = map[pipeline.EventKind]*color.Color{
			pipeline.EventInvocation: color.New(color.FgCyan, color.Bold),
			pipeline.EventNotice:     color.New(color.FgYellow),
			pipeline.EventError:      color.New(color.FgRed),
			pipeline.EventSummary:    color.New(color.FgGreen, color.Bold),
		}
		for _, c := range r.colors {
			c.EnableColor()
		}
	}
	return r
}

func (r *eventRenderer) handle(ev pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transcript.WriteString(ev.Text)
	if ev.Kind == pipeline.EventSummary {
		r.summary = strings.TrimSpace(ev.Text)
	}
	if c, ok := r.colors[ev.Kind]; ok {
		_, _ = c.Fprint(r.out, ev.Text)
		return
	}
	_, _ = io.WriteString(r.out, ev.Text)
}

// Transcript returns everything rendered so far without colour codes.
func (r *eventRenderer) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcript.String()
}

// Summary returns the text of the last summary event.
func (r *eventRenderer) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}
