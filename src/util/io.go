package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer buffers output from threads in a strings.Builder.
// When the Flush or Close method is called the buffer is emptied and sent to
// the assigned output writer through channel c.
type Writer struct {
	sb strings.Builder
	c  chan string
}

// listener owns the output stream. It drains the write channel until the channel is closed.
type listener struct {
	c    chan string
	done chan struct{}
	err  error
}

// ---------------------
// ----- Globals -------
// ---------------------

var (
	mu sync.Mutex
	ln *listener // Active output listener, nil when ListenWrite has not been called.
)

// ---------------------
// ----- Functions -----
// ---------------------

// Write writes a format string to the Writer's buffer.
func (w *Writer) Write(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// WriteString writes s verbatim to the Writer's buffer.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Len returns the number of buffered bytes.
func (w *Writer) Len() int {
	return w.sb.Len()
}

// Flush empties the Writer's buffer and sends the buffer data to the
// designated output writer over the Writer's channel.
func (w *Writer) Flush() {
	if w.sb.Len() > 0 {
		w.c <- w.sb.String()
	}
	w.sb = strings.Builder{}
}

// Close flushes the Writer's buffer and detaches the Writer from the output channel.
func (w *Writer) Close() {
	w.Flush()
	w.c = nil
}

// NewWriter returns a new Writer to be used by worker threads to write strings concurrently to the output buffer.
// Must not be called before main thread has called ListenWrite.
func NewWriter() Writer {
	mu.Lock()
	defer mu.Unlock()
	if ln == nil {
		panic("util.NewWriter called before util.ListenWrite")
	}
	return Writer{
		sb: strings.Builder{},
		c:  ln.c,
	}
}

// ReadSource reads the program from file or stdin.
// If the Options structure holds a string for source the file will be opened and read.
// Else the function waits for a short period for input on stdin. If no input on stdin is
// provided the function returns an error.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		// Read from file.
		b, err := os.ReadFile(opt.Src)
		return string(b), err
	}

	// Read stdin.
	c := make(chan string, 1)
	cerr := make(chan error, 1)

	// Concurrently wait for input on stdin.
	go func() {
		b, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			cerr <- err
			return
		}
		c <- string(b)
	}()

	// Select between input from stdin or timer expiry.
	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case err := <-cerr:
		return "", err
	case s := <-c:
		return s, nil
	}
}

// ListenWrite listens for worker thread outputs. The received data is written to out, or to stdout
// if out is nil. The listener runs until Close is called.
func ListenWrite(t int, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	l := &listener{
		c:    make(chan string, t),
		done: make(chan struct{}),
	}
	mu.Lock()
	ln = l
	mu.Unlock()

	w := bufio.NewWriter(out)
	go func() {
		defer close(l.done)
		for s := range l.c {
			if l.err != nil {
				continue
			}
			if _, err := w.WriteString(s); err != nil {
				l.err = err
				continue
			}
			l.err = w.Flush()
		}
	}()
}

// Close stops the output listener once every flushed buffer has been written, and returns the first write error.
func Close() error {
	mu.Lock()
	l := ln
	ln = nil
	mu.Unlock()
	if l == nil {
		return nil
	}
	close(l.c)
	<-l.done
	return l.err
}
