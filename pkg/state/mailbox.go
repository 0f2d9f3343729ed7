// Package state holds values shared between the link tasks and the drive
// controller: single-slot mailboxes and the session flags.
package state

import "sync"

// Mailbox is a single-slot value where a write overwrites any unread
// previous value. Writers never block waiting for readers.
type Mailbox[T any] struct {
	lock  sync.Mutex
	value T
	full  bool
	gen   uint64
}

// Put overwrites the slot.
func (m *Mailbox[T]) Put(v T) {
	m.lock.Lock()
	m.value, m.full = v, true
	m.gen++
	m.lock.Unlock()
}

// Peek returns the latest value without removing it.
func (m *Mailbox[T]) Peek() (v T, ok bool) {
	m.lock.Lock()
	v, ok = m.value, m.full
	m.lock.Unlock()
	return
}

// Take returns the latest value and empties the slot.
func (m *Mailbox[T]) Take() (v T, ok bool) {
	m.lock.Lock()
	v, ok = m.value, m.full
	var zero T
	m.value, m.full = zero, false
	m.lock.Unlock()
	return
}

// Generation counts Puts. Readers can compare generations to tell a new
// write from a repeated Peek.
func (m *Mailbox[T]) Generation() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.gen
}
