package util

import (
	"errors"
	"sync"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Perror listens for errors reported from parallel worker threads and buffers them until the parallel job has
// completed.
type Perror struct {
	listen     chan error    // Channel for receiving error messages from worker threads.
	done       chan struct{} // Closed when the listener has drained the listen channel.
	errors     []error       // Buffer of error messages.
	sync.Mutex               // For synchronising writes and reads.
}

// ----------------------
// ----- Constants ------
// ----------------------

// defaultBufferSize defines the fallback buffer size of the error array.
const defaultBufferSize = 16

// ---------------------
// ----- functions -----
// ---------------------

// NewPerror returns a pointer to a Perror struct with n number of pre-allocated slots for errors in the buffer.
func NewPerror(n int) *Perror {
	if n < 1 {
		n = defaultBufferSize
	}
	pe := Perror{
		listen: make(chan error, n),
		done:   make(chan struct{}),
		errors: make([]error, 0, n),
	}
	go pe.run()
	return &pe
}

// run buffers errors received on the listen channel until the channel is closed by Stop.
func (pe *Perror) run() {
	defer close(pe.done)
	for err := range pe.listen {
		pe.Lock()
		pe.errors = append(pe.errors, err)
		pe.Unlock()
	}
}

// Append sends the error message err to the error listener. <nil> errors are ignored. Append must not be called
// after Stop.
func (pe *Perror) Append(err error) {
	if err != nil {
		pe.listen <- err
	}
}

// Stop closes the error listener and waits until every error sent before the call is buffered.
func (pe *Perror) Stop() {
	close(pe.listen)
	<-pe.done
}

// Len returns the number of buffered errors.
func (pe *Perror) Len() int {
	pe.Lock()
	defer pe.Unlock()
	return len(pe.errors)
}

// Errors returns a copy of the buffered errors in the order they were received.
func (pe *Perror) Errors() []error {
	pe.Lock()
	defer pe.Unlock()
	return append([]error(nil), pe.errors...)
}

// Err returns all the buffered errors joined into one, or <nil> if none were reported.
func (pe *Perror) Err() error {
	return errors.Join(pe.Errors()...)
}
