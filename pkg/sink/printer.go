package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

var categoryColors = map[dcsbios.Category]color.Attribute{
	dcsbios.CategorySync:       color.FgHiMagenta,
	dcsbios.CategoryAddress:    color.FgCyan,
	dcsbios.CategoryCount:      color.FgBlue,
	dcsbios.CategoryData:       color.FgGreen,
	dcsbios.CategoryMsgType:    color.FgBlue,
	dcsbios.CategoryDataLength: color.FgBlue,
	dcsbios.CategoryChecksum:   color.FgHiYellow,
	dcsbios.CategoryState:      color.FgRed,
	dcsbios.CategoryGap:        color.FgHiBlack,
}

// Printer writes one line per event.
type Printer struct {
	// Fields includes field level events, otherwise only
	// writes, frames, gaps and diagnostics are printed.
	Fields bool

	w      io.Writer
	lock   sync.Mutex
	colors map[dcsbios.Category]*color.Color
}

// NewPrinter creates a Printer. Colors are used only if colored is true
// and color output is not globally disabled.
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{w: w, colors: make(map[dcsbios.Category]*color.Color)}
	for cat, attr := range categoryColors {
		c := color.New(attr)
		if !colored {
			c.DisableColor()
		}
		p.colors[cat] = c
	}
	return p
}

// Format renders an event as a line, without newline.
func (p *Printer) Format(ev dcsbios.Event) string {
	span, cat := ev.Bounds(), ev.Category()
	text := fmt.Sprintf("%-10s %s", cat, dcsbios.Describe(ev))
	if c, ok := p.colors[cat]; ok {
		text = c.Sprint(text)
	}
	return fmt.Sprintf("%12d %12d %s", span.Start, span.End, text)
}

// HandleEvent implements dcsbios.EventHandler.
func (p *Printer) HandleEvent(ctx context.Context, ev dcsbios.Event) error {
	if _, ok := ev.(*dcsbios.FieldEvent); ok && !p.Fields {
		return nil
	}
	line := p.Format(ev)
	p.lock.Lock()
	defer p.lock.Unlock()
	_, err := fmt.Fprintln(p.w, line)
	return err
}
