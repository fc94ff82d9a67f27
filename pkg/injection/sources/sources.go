// Package sources implements the four data-acquisition strategies behind
// the injection engine's uniform payload contract. Query and code execution
// are behind collaborator interfaces so every adapter is testable without a
// live database or interpreter.
package sources

import (
	"context"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection"
)

// QueryExecutor runs SQL statements against the page's data source.
type QueryExecutor interface {
	// QueryRows executes the statement and returns every row as a map keyed
	// by column name. Implementations must release the underlying cursor on
	// every exit path, including errors, and must map SQL NULL to nil.
	QueryRows(ctx context.Context, query string) ([]map[string]interface{}, error)

	// QuerySingleValue executes the statement and returns the first column
	// of the first row. found reports whether a row existed at all;
	// extraRows reports whether the statement produced more than one row,
	// extraColumns whether its rows carry more than one column.
	QuerySingleValue(ctx context.Context, query string) (value string, found, extraRows, extraColumns bool, err error)
}

// CodeBlockRunner executes a trusted procedural code block and captures the
// JSON document it wrote to its sink. Implementations must give every call
// its own sink and release it only once the block stops writing.
type CodeBlockRunner interface {
	RunCapturingJSON(ctx context.Context, code string) (string, error)
}

// NewAdapters wires all four adapters keyed by source kind, ready to hand
// to injection.NewEngine.
func NewAdapters(exec QueryExecutor, runner CodeBlockRunner) map[injection.Source]injection.Adapter {
	return map[injection.Source]injection.Adapter{
		injection.SourceRawQuery:       NewRawQueryAdapter(exec),
		injection.SourceJSONQuery:      NewJSONQueryAdapter(exec),
		injection.SourceProceduralJSON: NewProceduralAdapter(runner),
		injection.SourceStaticJSON:     NewStaticAdapter(),
	}
}
