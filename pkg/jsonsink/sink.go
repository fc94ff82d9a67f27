// Package jsonsink provides an incremental JSON document builder used by
// procedural code blocks to emit a payload property by property. The sink
// guarantees comma placement and key escaping; CloseAll completes every
// open container so the captured document is always syntactically valid.
package jsonsink

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type containerKind byte

const (
	objectContainer containerKind = '{'
	arrayContainer  containerKind = '['
)

type frame struct {
	kind  containerKind
	count int
}

// Sink builds one JSON document incrementally. The zero value is ready to
// use. Sink is not safe for concurrent use; one produce call owns one sink.
type Sink struct {
	buf   []byte
	stack []frame
	err   error
}

func New() *Sink {
	return &Sink{}
}

// OpenObject starts a new object, either as the document root or as an
// element of the enclosing array.
func (s *Sink) OpenObject() {
	s.openContainer(objectContainer)
}

// OpenObjectAt starts a new object as a named property of the enclosing object.
func (s *Sink) OpenObjectAt(name string) {
	if !s.writeKey(name) {
		return
	}
	s.buf = append(s.buf, '{')
	s.stack = append(s.stack, frame{kind: objectContainer})
}

// OpenArray starts a new array, either as the document root or as an
// element of the enclosing array.
func (s *Sink) OpenArray() {
	s.openContainer(arrayContainer)
}

// OpenArrayAt starts a new array as a named property of the enclosing object.
func (s *Sink) OpenArrayAt(name string) {
	if !s.writeKey(name) {
		return
	}
	s.buf = append(s.buf, '[')
	s.stack = append(s.stack, frame{kind: arrayContainer})
}

// Write adds a named property to the enclosing object. Strings, numbers,
// booleans and nil map to their JSON forms; any other value goes through
// encoding/json.
func (s *Sink) Write(name string, value interface{}) {
	if !s.writeKey(name) {
		return
	}
	s.writeValue(value)
}

// WriteNull adds a named property with a JSON null value.
func (s *Sink) WriteNull(name string) {
	s.Write(name, nil)
}

// WriteRaw adds a named property whose value is embedded verbatim. The
// caller is responsible for raw being valid JSON.
func (s *Sink) WriteRaw(name string, raw string) {
	if !s.writeKey(name) {
		return
	}
	s.buf = append(s.buf, raw...)
}

// Add appends an element to the enclosing array.
func (s *Sink) Add(value interface{}) {
	if s.err != nil {
		return
	}
	top := s.top()
	if top == nil || top.kind != arrayContainer {
		s.fail("add requires an open array")
		return
	}
	if top.count > 0 {
		s.buf = append(s.buf, ',')
	}
	top.count++
	s.writeValue(value)
}

// Close terminates the innermost open container.
func (s *Sink) Close() {
	if s.err != nil {
		return
	}
	top := s.top()
	if top == nil {
		s.fail("close without an open container")
		return
	}
	if top.kind == objectContainer {
		s.buf = append(s.buf, '}')
	} else {
		s.buf = append(s.buf, ']')
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// CloseAll terminates every open container.
func (s *Sink) CloseAll() {
	for s.err == nil && len(s.stack) > 0 {
		s.Close()
	}
}

// Depth reports how many containers are currently open.
func (s *Sink) Depth() int {
	return len(s.stack)
}

// Err returns the first misuse error, if any.
func (s *Sink) Err() error {
	return s.err
}

// String returns the document built so far.
func (s *Sink) String() string {
	return string(s.buf)
}

// Reset discards all captured output and clears any error, returning the
// sink to its initial state.
func (s *Sink) Reset() {
	s.buf = s.buf[:0]
	s.stack = s.stack[:0]
	s.err = nil
}

func (s *Sink) openContainer(kind containerKind) {
	if s.err != nil {
		return
	}
	top := s.top()
	if top != nil {
		if top.kind != arrayContainer {
			s.fail("unnamed container requires an enclosing array; use the *At variant inside objects")
			return
		}
		if top.count > 0 {
			s.buf = append(s.buf, ',')
		}
		top.count++
	} else if len(s.buf) > 0 {
		s.fail("document already complete")
		return
	}
	s.buf = append(s.buf, byte(kind))
	s.stack = append(s.stack, frame{kind: kind})
}

// writeKey emits the separator and escaped key for a named member and
// reports whether the caller may emit the value.
func (s *Sink) writeKey(name string) bool {
	if s.err != nil {
		return false
	}
	top := s.top()
	if top == nil || top.kind != objectContainer {
		s.fail("named member %q requires an open object", name)
		return false
	}
	if top.count > 0 {
		s.buf = append(s.buf, ',')
	}
	top.count++
	s.buf = appendEscapedString(s.buf, name)
	s.buf = append(s.buf, ':')
	return true
}

func (s *Sink) writeValue(value interface{}) {
	switch v := value.(type) {
	case nil:
		s.buf = append(s.buf, "null"...)
	case string:
		s.buf = appendEscapedString(s.buf, v)
	case bool:
		s.buf = strconv.AppendBool(s.buf, v)
	case int:
		s.buf = strconv.AppendInt(s.buf, int64(v), 10)
	case int64:
		s.buf = strconv.AppendInt(s.buf, v, 10)
	case float64:
		s.buf = strconv.AppendFloat(s.buf, v, 'g', -1, 64)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			s.fail("unsupported value: %v", err)
			return
		}
		s.buf = append(s.buf, encoded...)
	}
}

func (s *Sink) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

func (s *Sink) fail(format string, args ...interface{}) {
	if s.err == nil {
		s.err = fmt.Errorf(format, args...)
	}
}

func appendEscapedString(buf []byte, v string) []byte {
	encoded, err := json.Marshal(v)
	if err != nil {
		// json.Marshal of a string cannot fail
		return append(buf, '"', '"')
	}
	return append(buf, encoded...)
}
