// Package mocknet provides single-socket TCP and UDP services used to
// create deterministic local conditions for knocker scenarios. Each
// service binds an ephemeral port at creation, runs one background loop
// between Start and Stop, and never restarts.
package mocknet

import "time"

// State is the one-shot lifecycle of a mock service.
type State int32

const (
	Created State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// pollInterval bounds how long a loop blocks in accept/receive so a
	// stop request is noticed promptly.
	pollInterval = 200 * time.Millisecond
	// joinTimeout bounds how long Stop waits for the loop to exit.
	joinTimeout = time.Second
)
