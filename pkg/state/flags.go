package state

import "sync"

// Flags are the session flags written by the dispatcher and read by the
// drive controller and reporters at their own cadence.
type Flags struct {
	lock      sync.Mutex
	handshook bool
	paused    bool
}

// Handshook reports whether the server confirmed the session.
func (f *Flags) Handshook() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.handshook
}

// SetHandshook sets the flag and returns the previous value.
func (f *Flags) SetHandshook(v bool) (prev bool) {
	f.lock.Lock()
	prev, f.handshook = f.handshook, v
	f.lock.Unlock()
	return
}

// Paused reports whether velocity commands are suspended.
func (f *Flags) Paused() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.paused
}

// SetPaused sets the flag and returns the previous value.
func (f *Flags) SetPaused(v bool) (prev bool) {
	f.lock.Lock()
	prev, f.paused = f.paused, v
	f.lock.Unlock()
	return
}

// Active is true when handshook and not paused.
func (f *Flags) Active() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.handshook && !f.paused
}

// Reset clears both flags.
func (f *Flags) Reset() {
	f.lock.Lock()
	f.handshook, f.paused = false, false
	f.lock.Unlock()
}
