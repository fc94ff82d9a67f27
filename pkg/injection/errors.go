package injection

import "fmt"

// ConfigurationError signals a bad or missing target path or source field.
// It is fatal for the invocation: no fragment is emitted.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// QueryExecutionError signals a failed SQL statement behind the RawQuery or
// JsonQuery source. The underlying driver error is preserved in Err.
type QueryExecutionError struct {
	Message string
	Err     error
}

func (e *QueryExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

// ExecutionError signals a failed procedural code block.
type ExecutionError struct {
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ContractViolationError signals that a JsonQuery statement did not return
// exactly one row with one column holding a JSON document.
type ContractViolationError struct {
	Message string
}

func (e *ContractViolationError) Error() string {
	return e.Message
}
