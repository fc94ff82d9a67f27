package sources

import (
	"context"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection"
)

// StaticAdapter returns the design-time JSON text verbatim. No execution;
// an absent value is already rejected by request validation.
type StaticAdapter struct{}

func NewStaticAdapter() *StaticAdapter {
	return &StaticAdapter{}
}

func (a *StaticAdapter) Produce(ctx context.Context, req *injection.Request) (injection.Payload, error) {
	return injection.Payload(req.StaticText), nil
}
