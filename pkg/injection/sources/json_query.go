package sources

import (
	"context"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection"
	"github.com/valyala/fastjson"
)

// JSONQueryAdapter executes a SQL statement contractually required to
// return exactly one row with one column holding a pre-built JSON document.
// Any other cardinality is a contract violation, never silently defaulted:
// a query like `select json_object('x' value 1) from dual where 1=0` must
// fail loudly instead of merging nothing.
type JSONQueryAdapter struct {
	exec QueryExecutor
}

func NewJSONQueryAdapter(exec QueryExecutor) *JSONQueryAdapter {
	return &JSONQueryAdapter{exec: exec}
}

func (a *JSONQueryAdapter) Produce(ctx context.Context, req *injection.Request) (injection.Payload, error) {
	value, found, extraRows, extraColumns, err := a.exec.QuerySingleValue(ctx, req.JSONQuery)
	if err != nil {
		return "", &injection.QueryExecutionError{Message: "json query failed", Err: err}
	}
	if extraColumns {
		return "", &injection.ContractViolationError{Message: "json query returned more than one column; exactly one column is required"}
	}
	if !found {
		return "", &injection.ContractViolationError{Message: "json query returned no rows; exactly one row is required"}
	}
	if extraRows {
		return "", &injection.ContractViolationError{Message: "json query returned more than one row; exactly one row is required"}
	}
	if err := fastjson.ValidateBytes([]byte(value)); err != nil {
		return "", &injection.ContractViolationError{Message: "json query column value is not a JSON document"}
	}
	return injection.Payload(value), nil
}
