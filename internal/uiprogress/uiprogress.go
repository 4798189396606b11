// Package uiprogress renders a single-line, redrawing progress bar driven
// by an event sink: a live consumer of TickExecuted and RequestFinished
// events, written to a state.ConsoleWriter so it erases itself cleanly on
// a TTY and degrades to occasional plain lines when stdout isn't one.
package uiprogress

import (
	"fmt"
	"strings"
	"time"

	"github.com/smoliakoff/rload/internal/event"
	"github.com/smoliakoff/rload/internal/state"
)

const barWidth = 40

// Bar renders progress for one run. It consumes ev.Events() until the
// channel closes (guaranteed by RunFinished being the sink's last event),
// and is safe to run with a Noop sink — in which case Events() is nil and
// Run returns immediately.
type Bar struct {
	out         *state.ConsoleWriter
	totalTicks  int
	isTTY       bool
	minInterval time.Duration
}

// New builds a Bar that renders against totalTicks, writing to out.
func New(out *state.ConsoleWriter, totalTicks int) *Bar {
	return &Bar{out: out, totalTicks: totalTicks, isTTY: out.IsTTY, minInterval: 100 * time.Millisecond}
}

// Run drains ev until it closes, redrawing the bar as ticks and completed
// requests arrive. It returns once the sink has delivered RunFinished.
func (b *Bar) Run(ev *event.Sink) {
	ch := ev.Events()
	if ch == nil {
		return
	}

	var lastTick, errCount, total int
	lastDraw := time.Time{}

	for e := range ch {
		switch e.Kind {
		case event.KindTickExecuted:
			lastTick = e.TickIndex + 1
		case event.KindRequestFinished:
			total++
			if !e.OK {
				errCount++
			}
		case event.KindRunFinished:
			b.draw(lastTick, total, errCount)
			b.finish()
			return
		}

		if time.Since(lastDraw) >= b.minInterval {
			b.draw(lastTick, total, errCount)
			lastDraw = time.Now()
		}
	}
}

func (b *Bar) draw(tick, total, errCount int) {
	line := b.render(tick, total, errCount)
	if b.isTTY {
		fmt.Fprintf(b.out, "\r%s", line)
	} else {
		fmt.Fprintln(b.out, line)
	}
}

func (b *Bar) finish() {
	if b.isTTY {
		fmt.Fprintln(b.out)
	}
}

func (b *Bar) render(tick, total, errCount int) string {
	frac := 0.0
	if b.totalTicks > 0 {
		frac = float64(tick) / float64(b.totalTicks)
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * barWidth)
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
	return fmt.Sprintf("%s %d/%d ticks, %d requests (%d errors)", bar, tick, b.totalTicks, total, errCount)
}
