package logger

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestAsyncWriterPreservesOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf})

	for _, line := range []string{"first\n", "second\n", "third\n"} {
		if err := aw.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAsyncWriterSkipsNilAndEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{nil, buf})

	if err := aw.Write(nil); err != nil {
		t.Fatalf("empty write: %v", err)
	}
	if err := aw.Write([]byte("payload\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := buf.String(); got != "payload\n" {
		t.Errorf("got %q, want %q", got, "payload\n")
	}
}

type failingSink struct{}

func (failingSink) Write([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestAsyncWriterReportsSinkError(t *testing.T) {
	aw := newAsyncWriter([]io.Writer{failingSink{}})

	if err := aw.Write([]byte("lost\n")); err != nil {
		t.Fatalf("first write should enqueue: %v", err)
	}
	if err := aw.Close(); err == nil {
		t.Fatal("expected sink error from close")
	}
}

func TestAsyncWriterCloseTwice(t *testing.T) {
	aw := newAsyncWriter([]io.Writer{&bytes.Buffer{}})
	if err := aw.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
