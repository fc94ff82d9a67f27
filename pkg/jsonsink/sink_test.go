package jsonsink

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_SingleProperty(t *testing.T) {
	s := New()
	s.OpenObject()
	s.Write("k", "v")
	s.Close()

	require.NoError(t, s.Err())
	assert.Equal(t, `{"k":"v"}`, s.String())
}

func TestSink_NestedStructures(t *testing.T) {
	s := New()
	s.OpenObject()
	s.Write("name", "report")
	s.OpenArrayAt("rows")
	s.OpenObject()
	s.Write("id", 1)
	s.Write("active", true)
	s.WriteNull("deleted_at")
	s.Close()
	s.Add(42)
	s.Add("plain")
	s.Close()
	s.OpenObjectAt("meta")
	s.Write("count", int64(2))
	s.CloseAll()

	require.NoError(t, s.Err())
	expected := `{"name":"report","rows":[{"id":1,"active":true,"deleted_at":null},42,"plain"],"meta":{"count":2}}`
	assert.Equal(t, expected, s.String())
	assert.True(t, json.Valid([]byte(s.String())))
}

func TestSink_KeyAndStringEscaping(t *testing.T) {
	s := New()
	s.OpenObject()
	s.Write(`quo"te`, "line\nbreak")
	s.Close()

	require.NoError(t, s.Err())
	assert.True(t, json.Valid([]byte(s.String())))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(s.String()), &decoded))
	assert.Equal(t, "line\nbreak", decoded[`quo"te`])
}

func TestSink_CloseAllCompletesDocument(t *testing.T) {
	s := New()
	s.OpenObject()
	s.OpenObjectAt("a")
	s.OpenArrayAt("b")
	s.Add(1)
	s.CloseAll()

	require.NoError(t, s.Err())
	assert.Equal(t, 0, s.Depth())
	assert.True(t, json.Valid([]byte(s.String())))
}

func TestSink_MisuseIsRecorded(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *Sink)
	}{
		{
			name: "it should fail when writing a property without an open object",
			build: func(s *Sink) {
				s.Write("k", "v")
			},
		},
		{
			name: "it should fail when adding an element without an open array",
			build: func(s *Sink) {
				s.OpenObject()
				s.Add(1)
			},
		},
		{
			name: "it should fail when closing without an open container",
			build: func(s *Sink) {
				s.Close()
			},
		},
		{
			name: "it should fail when opening a second root document",
			build: func(s *Sink) {
				s.OpenObject()
				s.Close()
				s.OpenObject()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.build(s)
			assert.Error(t, s.Err())
		})
	}
}

func TestSink_ResetClearsStateAndError(t *testing.T) {
	s := New()
	s.Close() // provoke an error
	require.Error(t, s.Err())

	s.Reset()
	require.NoError(t, s.Err())

	s.OpenObject()
	s.Write("k", "v")
	s.Close()
	assert.Equal(t, `{"k":"v"}`, s.String())
}
