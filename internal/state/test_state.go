package state

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestState wraps a State built entirely from in-memory fakes, for cmd
// package tests that need a full State but no real OS resources.
type TestState struct {
	*State
	Cancel func()

	Stdout, Stderr *bytes.Buffer
}

// NewTestState returns a State over a MemMapFs and buffer-backed stdio.
func NewTestState(t *testing.T) *TestState {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fs := &afero.MemMapFs{}
	require.NoError(t, fs.MkdirAll("/test", 0o755))

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	ts := &TestState{
		Cancel: cancel,
		Stdout: new(bytes.Buffer),
		Stderr: new(bytes.Buffer),
	}

	outMutex := &sync.Mutex{}
	logger.Out = ts.Stderr

	ts.State = &State{
		Ctx:      ctx,
		FS:       fs,
		Args:     []string{"rload"},
		EnvVars:  map[string]string{},
		OutMutex: outMutex,
		Stdout:   &ConsoleWriter{Writer: ts.Stdout, Mutex: outMutex},
		Stderr:   &ConsoleWriter{Writer: ts.Stderr, Mutex: outMutex},
		Stdin:    new(bytes.Buffer),
		Logger:   logger,
	}

	return ts
}
