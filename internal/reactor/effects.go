package reactor

import (
	"time"

	"github.com/pkg/errors"
)

// WaitSec is the default delay the control loop sleeps between cranks
// whenever a state handler has no more urgent follow-up in mind.
const WaitSec = 5

// ShutdownError is returned by Crank when the reactor has decided the node
// cannot proceed and the process should exit.
type ShutdownError struct {
	Reason string
}

func (e *ShutdownError) Error() string { return "reactor: shutdown: " + e.Reason }

func shutdown(reason string) error {
	return &ShutdownError{Reason: reason}
}

// Outcome is what a crank decided to do next: either reschedule itself
// after some delay, or shut the node down. This is the Go substitute for
// the Rust reactor's queued Effects: rather than returning a boxed future
// that enqueues an event, a crank directly returns how long to wait before
// it should run again.
type Outcome struct {
	// Delay until the next crank. Zero means "run again immediately".
	Delay time.Duration
	// Err is non-nil when the reactor decided to shut down; Run must stop
	// the loop and propagate it.
	Err error
}

func immediate() Outcome { return Outcome{} }

func after(d time.Duration) Outcome { return Outcome{Delay: d} }

func fatal(reason string) Outcome { return Outcome{Err: shutdown(reason)} }

func wrapFatal(cause error, reason string) Outcome {
	return Outcome{Err: errors.Wrap(cause, reason)}
}
