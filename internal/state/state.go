// Package state groups the process-external state a rload invocation needs
// — CLI args, env vars, stdio, filesystem, logger — behind one struct, so
// the cmd package never touches os.* directly and integration tests can
// swap in a fully simulated environment.
package state

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ConsoleWriter syncs writes with a mutex and, on a TTY, erases to end of
// line before each newline so progress-bar redraws don't leave stale text.
type ConsoleWriter struct {
	Writer io.Writer
	IsTTY  bool
	Mutex  *sync.Mutex

	// PersistentText, if set, is called after every write while still
	// holding Mutex — used to redraw a progress bar beneath new output.
	PersistentText func()
}

func (w *ConsoleWriter) Write(p []byte) (int, error) {
	origLen := len(p)
	if w.IsTTY {
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.Mutex.Lock()
	n, err := w.Writer.Write(p)
	if w.PersistentText != nil {
		w.PersistentText()
	}
	w.Mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

// State is the process-external world a command runs against. The real
// build constructs one from `os`/`afero.NewOsFs()` in New; tests build one
// by hand with an in-memory fs and buffers.
type State struct {
	Ctx context.Context

	FS      afero.Fs
	Args    []string
	EnvVars map[string]string

	OutMutex       *sync.Mutex
	Stdout, Stderr *ConsoleWriter
	Stdin          io.Reader

	Logger *logrus.Logger
}

// New builds a State wired to the real OS: the real filesystem, argv,
// environment, and stdio. This is the only place outside main() that
// should ever read os.Args, os.Environ(), or os.Std{out,err,in}.
func New(ctx context.Context) *State {
	isDumbTerm := os.Getenv("TERM") == "dumb"
	stdoutTTY := !isDumbTerm && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	stderrTTY := !isDumbTerm && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	outMutex := &sync.Mutex{}
	stdout := &ConsoleWriter{Writer: colorable.NewColorable(os.Stdout), IsTTY: stdoutTTY, Mutex: outMutex}
	stderr := &ConsoleWriter{Writer: colorable.NewColorable(os.Stderr), IsTTY: stderrTTY, Mutex: outMutex}

	envVars := buildEnvMap(os.Environ())

	_, noColorSet := envVars["NO_COLOR"]
	logger := &logrus.Logger{
		Out: stderr,
		Formatter: &logrus.TextFormatter{
			ForceColors:   stderrTTY,
			DisableColors: !stderrTTY || noColorSet || envVars["RLOAD_NO_COLOR"] != "",
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	return &State{
		Ctx:      ctx,
		FS:       afero.NewOsFs(),
		Args:     append(make([]string, 0, len(os.Args)), os.Args...),
		EnvVars:  envVars,
		OutMutex: outMutex,
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    os.Stdin,
		Logger:   logger,
	}
}

func parseEnvKeyValue(kv string) (string, string) {
	if idx := strings.IndexRune(kv, '='); idx != -1 {
		return kv[:idx], kv[idx+1:]
	}
	return kv, ""
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v := parseEnvKeyValue(kv)
		env[k] = v
	}
	return env
}
