// Package script executes procedural code blocks with the Yaegi Go
// interpreter. Blocks are trusted design-time code, not end-user input; the
// interpreter exists so blocks ship as configuration instead of being
// compiled into the binary.
package script

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/jsonsink"
)

const sinkImportPath = "github.com/lufcmattylad/Load-JSON-Object/pkg/jsonsink"

// DefaultTimeout bounds one block execution.
const DefaultTimeout = 10 * time.Second

// YaegiRunner implements sources.CodeBlockRunner. Each call gets a fresh
// interpreter and a fresh capture sink, released once the block is done
// with it; a block that outlives its deadline keeps sole ownership of its
// sink, so a failed block never leaks partial output into a later call.
//
// A block is either a bare statement list driving the sink variable w:
//
//	w.OpenObject()
//	w.Write("k", "v")
//	w.Close()
//
// or a full declaration of func LoadJSON(w *jsonsink.Sink) error.
type YaegiRunner struct {
	logger  logrus.FieldLogger
	timeout time.Duration
}

func NewYaegiRunner(logger logrus.FieldLogger, timeout time.Duration) *YaegiRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &YaegiRunner{logger: logger, timeout: timeout}
}

func (r *YaegiRunner) RunCapturingJSON(ctx context.Context, code string) (string, error) {
	sink := jsonsink.New()

	fn, err := r.compile(code)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				errCh <- fmt.Errorf("code block panicked: %v", rec)
			}
		}()
		errCh <- fn(sink)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sink.Reset()
			return "", fmt.Errorf("code block returned error: %w", err)
		}
	case <-ctx.Done():
		// The block has no preemption point, so on timeout its goroutine may
		// still be writing. The sink stays with that goroutine and is never
		// touched here again; the next call builds its own.
		return "", fmt.Errorf("code block timed out: %w", ctx.Err())
	}
	defer sink.Reset()

	if err := sink.Err(); err != nil {
		return "", fmt.Errorf("code block misused the sink: %w", err)
	}
	sink.CloseAll()

	captured := sink.String()
	if captured == "" {
		return "", fmt.Errorf("code block wrote nothing to the sink")
	}

	r.logger.WithField("payload_bytes", len(captured)).Debug("procedural block captured")
	return captured, nil
}

// compile evaluates the block in a fresh interpreter and returns its
// entrypoint.
func (r *YaegiRunner) compile(code string) (func(*jsonsink.Sink) error, error) {
	i := interp.New(interp.Options{})

	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}
	if err := i.Use(interp.Exports{
		sinkImportPath + "/jsonsink": {
			"New":  reflect.ValueOf(jsonsink.New),
			"Sink": reflect.ValueOf((*jsonsink.Sink)(nil)),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to export jsonsink symbols: %w", err)
	}

	if _, err := i.Eval(wrapCode(code)); err != nil {
		return nil, fmt.Errorf("code block evaluation failed: %w", err)
	}

	entry, err := i.Eval("main.LoadJSON")
	if err != nil {
		return nil, fmt.Errorf("LoadJSON function not found: %w", err)
	}
	fn, ok := entry.Interface().(func(*jsonsink.Sink) error)
	if !ok {
		return nil, fmt.Errorf("LoadJSON has incorrect signature (expected: func(w *jsonsink.Sink) error)")
	}
	return fn, nil
}

// wrapCode turns a bare statement block into a package main declaring
// LoadJSON. Blocks that already declare the package or the function are
// kept as-is (apart from the package wrapper).
func wrapCode(code string) string {
	if strings.Contains(code, "package main") {
		return code
	}
	if strings.Contains(code, "func LoadJSON") {
		return fmt.Sprintf("package main\n\nimport \"%s\"\n\n%s\n", sinkImportPath, code)
	}
	return fmt.Sprintf(`package main

import "%s"

func LoadJSON(w *jsonsink.Sink) error {
%s
	return nil
}
`, sinkImportPath, code)
}
