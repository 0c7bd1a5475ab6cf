// label.go provides a thread safe way of generating jump labels.

package temp

import (
	"fmt"
	"sync"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Label is a jump target. Labels are compared by identity: two Labels with equal names are still different labels.
type Label struct {
	name string
}

// -------------------
// ----- globals -----
// -------------------

var mx sync.Mutex // Mutex for synchronising worker threads.

// labelIndex stores the numerical suffix of the next generated label.
var labelIndex int

// labelPrefix is the string literal prefix of generated labels.
const labelPrefix = "L"

// ---------------------
// ----- functions -----
// ---------------------

// NewLabel returns a new label with a unique generated name.
func NewLabel() *Label {
	mx.Lock()
	defer mx.Unlock()
	l := &Label{name: fmt.Sprintf("%s%d", labelPrefix, labelIndex)}
	labelIndex++
	return l
}

// NamedLabel returns a new label named name. Calling NamedLabel twice with the same name yields two distinct labels.
func NamedLabel(name string) *Label {
	return &Label{name: name}
}

// Name returns the name of Label l.
func (l *Label) Name() string {
	if l == nil {
		return "<nil>"
	}
	return l.name
}

// String returns the name of Label l.
func (l *Label) String() string {
	return l.Name()
}
