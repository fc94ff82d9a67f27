package injection

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWriter captures every individual write so tests can check the
// chunked-output discipline.
type recordingWriter struct {
	writes []string
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	r.writes = append(r.writes, string(p))
	return len(p), nil
}

func (r *recordingWriter) String() string {
	return strings.Join(r.writes, "")
}

func TestEmitter_FragmentStructure(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewEmitter(0)

	err := emitter.Emit(&buf, "myApp.data", Payload(`{"a":1}`))
	require.NoError(t, err)

	fragment := buf.String()
	assert.True(t, strings.HasPrefix(fragment, "<script>\n"))
	assert.True(t, strings.HasSuffix(fragment, "</script>\n"))

	// guarded helper definition, so repeated fragments on one page stay idempotent
	assert.Contains(t, fragment, "if(!window.__ljoCreatePath)")
	assert.Contains(t, fragment, `window.__ljoCreatePath(window,"myApp.data")`)

	// property-wise merge, never a wholesale replacement of the leaf
	assert.Contains(t, fragment, `var value={"a":1};`)
	assert.Contains(t, fragment, "target[key]=value[key];")
	assert.NotContains(t, fragment, "target=value")
}

func TestEmitter_RejectsInvalidPathWithoutWriting(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "it should reject an empty path", path: ""},
		{name: "it should reject an empty segment", path: "a..b"},
		{name: "it should reject a quoted segment", path: `a."b"`},
		{name: "it should reject a script terminator in the path", path: "a.</script>"},
		{name: "it should reject a backslash in the path", path: `a.b\c`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingWriter{}
			err := NewEmitter(0).Emit(rec, tt.path, Payload(`{}`))

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Empty(t, rec.writes, "failed emit must not touch the stream")
		})
	}
}

func TestEmitter_NeverTerminatesScriptTagEarly(t *testing.T) {
	var buf bytes.Buffer
	err := NewEmitter(0).Emit(&buf, "myApp.data", Payload(`{"a":1}`))
	require.NoError(t, err)

	// exactly one closing tag: the emitter's own
	assert.Equal(t, 1, strings.Count(buf.String(), "</script>"))
}

func TestEmitter_ChunkedPayloadRoundTrip(t *testing.T) {
	const chunkSize = 16

	for _, payloadLen := range []int{0, 1, chunkSize - 1, chunkSize, chunkSize + 1, 3 * chunkSize, 3*chunkSize + 7} {
		payload := strings.Repeat("x", payloadLen)
		if payloadLen >= 2 {
			payload = `{` + strings.Repeat("x", payloadLen-2) + `}`
		}

		rec := &recordingWriter{}
		err := NewEmitter(chunkSize).Emit(rec, "myApp.data", Payload(payload))
		require.NoError(t, err)

		// reconstructed output carries the payload byte-for-byte, in order
		assert.Contains(t, rec.String(), "var value="+payload+";")

		// prologue + payload chunks + epilogue
		expectedPayloadWrites := (payloadLen + chunkSize - 1) / chunkSize
		assert.Len(t, rec.writes, 2+expectedPayloadWrites, "payload length %d", payloadLen)
		for _, w := range rec.writes[1 : len(rec.writes)-1] {
			assert.LessOrEqual(t, len(w), chunkSize)
		}
	}
}

func TestWriteChunked(t *testing.T) {
	rec := &recordingWriter{}
	require.NoError(t, writeChunked(rec, "abcdefghij", 4))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, rec.writes)

	rec = &recordingWriter{}
	require.NoError(t, writeChunked(rec, "", 4))
	assert.Empty(t, rec.writes)
}
