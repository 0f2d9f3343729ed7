package hs

// Write queues up to one buffer of output and returns the number of bytes
// accepted. It returns 0 without blocking while the previous chunk is in
// flight or the transport is disabled. Bytes beyond one buffer capacity
// are dropped; callers chunk larger payloads themselves.
func (t *Transport) Write(p []byte) int {
	t.txLock.Lock()
	defer t.txLock.Unlock()
	if t.txCh == nil || t.txBusy || len(p) == 0 {
		return 0
	}
	buf := t.out[t.outPtr]
	if len(p) > len(buf) {
		p = p[:len(buf)]
	}
	n := copy(buf, p)
	t.txBusy = true
	t.outPtr = (t.outPtr + 1) % bufferCount
	t.txCh <- buf[:n]
	return n
}
