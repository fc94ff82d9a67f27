package logger

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncFileWriter_CloseDrainsQueuedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := NewAsyncFileWriter(path, 32*1024)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := w.Write([]byte(fmt.Sprintf("line %d\n", i)))
		require.NoError(t, err)
	}
	w.Close()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		assert.Contains(t, string(content), fmt.Sprintf("line %d\n", i))
	}
}

func TestAsyncFileWriter_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := NewAsyncFileWriter(path, 32*1024)
	require.NoError(t, err)

	w.Close()
	w.Close()
}

func TestAsyncFileWriter_CountsDroppedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	require.NoError(t, err)
	defer file.Close()

	// no drain goroutine, so the single-slot queue fills immediately
	w := &AsyncFileWriter{
		out:     bufio.NewWriter(file),
		file:    file,
		queue:   make(chan []byte, 1),
		quit:    make(chan struct{}),
		drained: make(chan struct{}),
	}

	_, err = w.Write([]byte("kept\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("dropped\n"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), w.Dropped())
}

func TestConsoleHook_MirrorsFormattedEntries(t *testing.T) {
	var console bytes.Buffer

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(&bytes.Buffer{})
	logger.AddHook(NewConsoleHook(&console))

	logger.WithField("page_id", "home").Info("page served")

	out := console.String()
	assert.True(t, strings.Contains(out, "page served"))
	assert.True(t, strings.Contains(out, `"page_id":"home"`))
}
