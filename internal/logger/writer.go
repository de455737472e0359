package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// Handler goroutines produce log lines faster than a file sink can absorb
// them under load; asyncWriter decouples the two with a bounded queue and a
// single drain goroutine so record order is preserved across sinks.
const (
	writerQueueLen = 256
	writerBufSize  = 64 << 10
)

type asyncWriter struct {
	records chan []byte
	flushes chan chan error

	closeOnce sync.Once
	drained   chan struct{}

	mu    sync.Mutex
	sinks []*bufio.Writer
	err   error
}

// newAsyncWriter wraps the outputs (stdout plus the optional log file) in
// buffered sinks and starts the drain goroutine. Nil outputs are skipped.
func newAsyncWriter(outputs []io.Writer) *asyncWriter {
	w := &asyncWriter{
		records: make(chan []byte, writerQueueLen),
		flushes: make(chan chan error),
		drained: make(chan struct{}),
		sinks:   make([]*bufio.Writer, 0, len(outputs)),
	}
	for _, out := range outputs {
		if out == nil {
			continue
		}
		w.sinks = append(w.sinks, bufio.NewWriterSize(out, writerBufSize))
	}
	go w.drain()
	return w
}

// Write enqueues one formatted record. When the queue is saturated the call
// blocks rather than dropping the record.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.sinkErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	record := make([]byte, len(p))
	copy(record, p)
	w.records <- record
	return nil
}

// Flush blocks until everything enqueued so far reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.sinkErr(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushes <- ack
	return <-ack
}

// Close drains the queue, flushes the sinks and reports the first write
// error seen over the writer's lifetime. Safe to call more than once.
func (w *asyncWriter) Close() error {
	w.closeOnce.Do(func() { close(w.records) })
	<-w.drained
	return w.sinkErr()
}

func (w *asyncWriter) drain() {
	for {
		select {
		case record, ok := <-w.records:
			if !ok {
				w.flushSinks()
				close(w.drained)
				return
			}
			if err := w.commit(record); err != nil {
				w.recordErr(err)
			}
		case ack := <-w.flushes:
			ack <- w.flushSinks()
		}
	}
}

// commit writes one record through every sink. Records are flushed
// immediately; the bufio layer only smooths over partial writes.
func (w *asyncWriter) commit(record []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sink := range w.sinks {
		if _, err := sink.Write(record); err != nil {
			return err
		}
		if err := sink.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) sinkErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// recordErr keeps the first failure; later records still attempt delivery
// but callers learn the writer is degraded.
func (w *asyncWriter) recordErr(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
