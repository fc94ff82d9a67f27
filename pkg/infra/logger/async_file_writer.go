package logger

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueDepth = 1000
	flushInterval     = 2 * time.Second
)

// AsyncFileWriter decouples log producers from file IO so a page render
// never stalls on the log file. Lines are queued and written by a single
// drain goroutine; when the queue is full the line is dropped and counted
// instead of blocking the producer. Close drains everything already queued
// before the file is closed.
type AsyncFileWriter struct {
	out       *bufio.Writer
	file      *os.File
	queue     chan []byte
	quit      chan struct{}
	drained   chan struct{}
	dropped   atomic.Uint64
	closeOnce sync.Once
}

func NewAsyncFileWriter(path string, bufferSize int) (*AsyncFileWriter, error) {
	return newAsyncFileWriter(path, bufferSize, defaultQueueDepth)
}

func newAsyncFileWriter(path string, bufferSize, queueDepth int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	w := &AsyncFileWriter{
		out:     bufio.NewWriterSize(file, bufferSize),
		file:    file,
		queue:   make(chan []byte, queueDepth),
		quit:    make(chan struct{}),
		drained: make(chan struct{}),
	}
	go w.drain()
	return w, nil
}

// Write queues one log line. A full queue drops the line rather than
// backpressuring the caller; the drop is visible through Dropped.
func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)

	select {
	case w.queue <- line:
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped reports how many lines were discarded because the queue was full.
func (w *AsyncFileWriter) Dropped() uint64 {
	return w.dropped.Load()
}

func (w *AsyncFileWriter) drain() {
	defer close(w.drained)

	flush := time.NewTicker(flushInterval)
	defer flush.Stop()

	for {
		select {
		case line := <-w.queue:
			_, _ = w.out.Write(line)
		case <-flush.C:
			_ = w.out.Flush()
		case <-w.quit:
			for {
				select {
				case line := <-w.queue:
					_, _ = w.out.Write(line)
				default:
					_ = w.out.Flush()
					return
				}
			}
		}
	}
}

// Close stops the drain goroutine, waits for the queue to empty and only
// then closes the file.
func (w *AsyncFileWriter) Close() {
	w.closeOnce.Do(func() {
		close(w.quit)
		<-w.drained
		_ = w.file.Close()
	})
}
