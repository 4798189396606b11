package uiprogress

import (
	"bytes"
	"sync"
	"testing"

	"github.com/smoliakoff/rload/internal/event"
	"github.com/smoliakoff/rload/internal/state"
	"github.com/stretchr/testify/assert"
)

func TestRun_DrainsUntilRunFinished(t *testing.T) {
	buf := &bytes.Buffer{}
	out := &state.ConsoleWriter{Writer: buf, Mutex: &sync.Mutex{}}
	sink := event.New()

	sink.Send(event.Event{Kind: event.KindTickExecuted, TickIndex: 0})
	sink.Send(event.Event{Kind: event.KindRequestFinished, OK: true})
	sink.Send(event.Event{Kind: event.KindRequestFinished, OK: false})
	sink.Send(event.Event{Kind: event.KindRunFinished})
	sink.Close()

	bar := New(out, 1)
	bar.Run(sink)

	assert.Contains(t, buf.String(), "1/1 ticks, 2 requests (1 errors)")
}

func TestRun_NoopSinkReturnsImmediately(t *testing.T) {
	buf := &bytes.Buffer{}
	out := &state.ConsoleWriter{Writer: buf, Mutex: &sync.Mutex{}}
	bar := New(out, 10)
	bar.Run(event.Noop())
}
