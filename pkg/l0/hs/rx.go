package hs

// complete is the receive completion path: it stores bytes delivered by
// the hardware into the current buffer, moving to the armed next buffer
// when the current one fills. It returns how many bytes were stored; the
// rest are overruns.
func (t *Transport) complete(p []byte) int {
	t.hwLock.Lock()
	defer t.hwLock.Unlock()
	if t.capacity == 0 {
		return 0
	}
	stored := 0
	for len(p) > 0 {
		idx := t.hwIdx
		if t.fill[idx] == t.capacity {
			if !t.advanceLocked() {
				t.overruns += uint64(len(p))
				break
			}
			continue
		}
		n := copy(t.in[idx][t.fill[idx]:], p)
		t.fill[idx] += n
		stored += n
		p = p[n:]
	}
	if t.fill[t.hwIdx] == t.capacity {
		t.advanceLocked()
	}
	return stored
}

// advanceLocked moves the hardware to the next buffer if software armed it.
func (t *Transport) advanceLocked() bool {
	if !t.nextArmed {
		return false
	}
	t.hwIdx = (t.hwIdx + 1) % bufferCount
	t.nextArmed = false
	return true
}

// readable returns the bytes available from the start of the active
// buffer, including the next buffer once the hardware moved on.
func (t *Transport) readable() int {
	t.hwLock.Lock()
	defer t.hwLock.Unlock()
	total := t.fill[t.active]
	if t.hwIdx != t.active {
		total += t.fill[t.hwIdx]
	}
	return total
}

// byteAt reads at a logical offset from the start of the active buffer.
func (t *Transport) byteAt(off int) byte {
	if off < t.capacity {
		return t.in[t.active][off]
	}
	return t.in[(t.active+1)%bufferCount][off-t.capacity]
}

// rotateLocked hands fully consumed buffers back to the hardware.
func (t *Transport) rotateLocked() {
	for t.cursor >= t.capacity {
		t.hwLock.Lock()
		if t.hwIdx == t.active {
			t.hwLock.Unlock()
			return
		}
		t.cursor -= t.capacity
		t.fill[t.active] = 0
		t.nextArmed = true
		t.active = t.hwIdx
		// a stalled producer resumes on the buffer just released.
		if t.fill[t.hwIdx] == t.capacity {
			t.advanceLocked()
		}
		t.hwLock.Unlock()
	}
}

// Read copies up to len(p) unconsumed bytes and advances the cursor,
// rotating buffers as needed. It returns 0 when nothing is available.
func (t *Transport) Read(p []byte) int {
	t.rxLock.Lock()
	defer t.rxLock.Unlock()
	if t.capacity == 0 {
		return 0
	}
	n := t.readable() - t.cursor
	if n <= 0 {
		return 0
	}
	if n > len(p) {
		n = len(p)
	}
	copied := copy(p[:n], t.in[t.active][t.cursor:])
	if copied < n {
		copy(p[copied:n], t.in[(t.active+1)%bufferCount])
	}
	t.cursor += n
	t.rotateLocked()
	return n
}

// ReadDelimited scans at most len(p) unconsumed bytes for delim. When
// found, the bytes up to and including delim are copied into p, the
// cursor is committed and the frame length is returned. Otherwise the
// cursor is restored and ErrFrameNotFound is returned.
func (t *Transport) ReadDelimited(p []byte, delim byte) (int, error) {
	t.rxLock.Lock()
	defer t.rxLock.Unlock()
	if t.capacity == 0 {
		return 0, ErrFrameNotFound
	}
	avail := t.readable() - t.cursor
	if avail > len(p) {
		avail = len(p)
	}
	for i := 0; i < avail; i++ {
		b := t.byteAt(t.cursor + i)
		p[i] = b
		if b == delim {
			t.cursor += i + 1
			t.rotateLocked()
			return i + 1, nil
		}
	}
	return 0, ErrFrameNotFound
}

// Buffered returns the number of unconsumed bytes.
func (t *Transport) Buffered() int {
	t.rxLock.Lock()
	defer t.rxLock.Unlock()
	if t.capacity == 0 {
		return 0
	}
	return t.readable() - t.cursor
}

// Full reports whether both receive buffers are full and the hardware is
// stalled until software consumes input.
func (t *Transport) Full() bool {
	t.hwLock.Lock()
	defer t.hwLock.Unlock()
	return t.capacity > 0 && t.fill[t.hwIdx] == t.capacity && !t.nextArmed
}

// Overruns counts bytes dropped because both buffers were full.
func (t *Transport) Overruns() uint64 {
	t.hwLock.Lock()
	defer t.hwLock.Unlock()
	return t.overruns
}
