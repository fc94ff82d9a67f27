package injection

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Adapter obtains an already-serialized JSON payload from the source
// declared in the request. Exactly one adapter runs per request.
type Adapter interface {
	Produce(ctx context.Context, req *Request) (Payload, error)
}

// Engine ties the source adapters to the emitter. It holds no state across
// invocations: one page render, one Inject call, one fragment produced.
type Engine struct {
	emitter  *Emitter
	adapters map[Source]Adapter
	logger   logrus.FieldLogger
}

func NewEngine(logger logrus.FieldLogger, emitter *Emitter, adapters map[Source]Adapter) *Engine {
	return &Engine{
		emitter:  emitter,
		adapters: adapters,
		logger:   logger,
	}
}

// Inject validates the request, produces the payload with the selected
// adapter and emits the fragment to w. On any failure nothing has been
// written to w: a partial fragment inside a script tag would break the page.
func (e *Engine) Inject(ctx context.Context, w io.Writer, req *Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	adapter, ok := e.adapters[req.Source]
	if !ok {
		return &ConfigurationError{Message: fmt.Sprintf("no adapter registered for source %q", req.Source)}
	}

	payload, err := adapter.Produce(ctx, req)
	if err != nil {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"source":      req.Source,
			"target_path": req.TargetPath,
		}).Error("payload production failed")
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"source":        req.Source,
		"target_path":   req.TargetPath,
		"payload_bytes": len(payload),
	}).Debug("emitting injection fragment")

	return e.emitter.Emit(w, req.TargetPath, payload)
}
