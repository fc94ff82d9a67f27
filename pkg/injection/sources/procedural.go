package sources

import (
	"context"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection"
)

// ProceduralAdapter runs a trusted code block that builds its JSON payload
// incrementally through a capture sink, supporting structures impossible to
// express in a single SQL expression.
type ProceduralAdapter struct {
	runner CodeBlockRunner
}

func NewProceduralAdapter(runner CodeBlockRunner) *ProceduralAdapter {
	return &ProceduralAdapter{runner: runner}
}

func (a *ProceduralAdapter) Produce(ctx context.Context, req *injection.Request) (injection.Payload, error) {
	captured, err := a.runner.RunCapturingJSON(ctx, req.ProceduralBlock)
	if err != nil {
		return "", &injection.ExecutionError{Message: "procedural block failed", Err: err}
	}
	return injection.Payload(captured), nil
}
