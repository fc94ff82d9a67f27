package injection

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	payload Payload
	err     error
	calls   int
}

func (f *fakeAdapter) Produce(ctx context.Context, req *Request) (Payload, error) {
	f.calls++
	return f.payload, f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestEngine_Inject(t *testing.T) {
	adapter := &fakeAdapter{payload: Payload(`{"a":1}`)}
	engine := NewEngine(testLogger(), NewEmitter(0), map[Source]Adapter{
		SourceStaticJSON: adapter,
	})

	rec := &recordingWriter{}
	req := &Request{Source: SourceStaticJSON, StaticText: `{"a":1}`, TargetPath: "myApp.data"}
	require.NoError(t, engine.Inject(context.Background(), rec, req))

	assert.Equal(t, 1, adapter.calls)
	assert.Contains(t, rec.String(), `var value={"a":1};`)
}

func TestEngine_Inject_InvalidRequestDoesNotRunAdapter(t *testing.T) {
	adapter := &fakeAdapter{payload: Payload(`{}`)}
	engine := NewEngine(testLogger(), NewEmitter(0), map[Source]Adapter{
		SourceStaticJSON: adapter,
	})

	rec := &recordingWriter{}
	req := &Request{Source: SourceStaticJSON, TargetPath: "myApp.data"}

	var cfgErr *ConfigurationError
	require.ErrorAs(t, engine.Inject(context.Background(), rec, req), &cfgErr)
	assert.Zero(t, adapter.calls)
	assert.Empty(t, rec.writes)
}

func TestEngine_Inject_MissingAdapter(t *testing.T) {
	engine := NewEngine(testLogger(), NewEmitter(0), map[Source]Adapter{})

	rec := &recordingWriter{}
	req := &Request{Source: SourceRawQuery, Query: "select 1", TargetPath: "myApp.data"}

	var cfgErr *ConfigurationError
	require.ErrorAs(t, engine.Inject(context.Background(), rec, req), &cfgErr)
	assert.Empty(t, rec.writes)
}

func TestEngine_Inject_AdapterFailureLeavesStreamUntouched(t *testing.T) {
	adapter := &fakeAdapter{err: &QueryExecutionError{Message: "query failed"}}
	engine := NewEngine(testLogger(), NewEmitter(0), map[Source]Adapter{
		SourceRawQuery: adapter,
	})

	rec := &recordingWriter{}
	req := &Request{Source: SourceRawQuery, Query: "select * from missing", TargetPath: "myApp.data"}

	var queryErr *QueryExecutionError
	require.ErrorAs(t, engine.Inject(context.Background(), rec, req), &queryErr)
	assert.Empty(t, rec.writes, "failed injection must not emit a partial fragment")
}
