package sources

import (
	"context"
	"encoding/json"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection"
)

// RawQueryAdapter executes a SQL statement and serializes the whole result
// set as a JSON array of row objects. NULL column values serialize as JSON
// null, never as an empty string: the two are not equivalent to a JSON
// consumer, and null is the faithful representation of an absent value.
type RawQueryAdapter struct {
	exec QueryExecutor
}

func NewRawQueryAdapter(exec QueryExecutor) *RawQueryAdapter {
	return &RawQueryAdapter{exec: exec}
}

func (a *RawQueryAdapter) Produce(ctx context.Context, req *injection.Request) (injection.Payload, error) {
	rows, err := a.exec.QueryRows(ctx, req.Query)
	if err != nil {
		return "", &injection.QueryExecutionError{Message: "raw query failed", Err: err}
	}

	// zero rows is a well-formed empty array, not an absent payload
	if len(rows) == 0 {
		return injection.Payload("[]"), nil
	}

	serialized, err := json.Marshal(rows)
	if err != nil {
		return "", &injection.QueryExecutionError{Message: "failed to serialize result set", Err: err}
	}
	return injection.Payload(serialized), nil
}
