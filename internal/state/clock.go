package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock stamps surface revisions for one drawing session. Readers outside the
// event loop (the mirror) may load the revision concurrently.
type Clock struct {
	session  string
	revision atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{session: uuid.NewString()}
}

// Session identifies this board instance.
func (c *Clock) Session() string { return c.session }

// Tick advances and returns the revision.
func (c *Clock) Tick() uint64 { return c.revision.Add(1) }

// Revision returns the latest revision without advancing it.
func (c *Clock) Revision() uint64 { return c.revision.Load() }
