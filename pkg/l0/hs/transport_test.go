package hs

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testPort blocks reads until closed and blocks each write until released.
type testPort struct {
	writeCh   chan []byte
	releaseCh chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func newTestPort() *testPort {
	return &testPort{
		writeCh:   make(chan []byte, 4),
		releaseCh: make(chan struct{}),
		closed:    make(chan struct{}),
	}
}

func (p *testPort) Read(b []byte) (int, error) {
	<-p.closed
	return 0, io.EOF
}

func (p *testPort) Write(b []byte) (int, error) {
	select {
	case <-p.releaseCh:
	case <-p.closed:
		return 0, io.ErrClosedPipe
	}
	p.writeCh <- append([]byte(nil), b...)
	return len(b), nil
}

func (p *testPort) Close() error {
	p.closeOnce.Do(func() { close(p.closed) })
	return nil
}

func (p *testPort) release() {
	p.releaseCh <- struct{}{}
}

func (p *testPort) written(t *testing.T) []byte {
	select {
	case b := <-p.writeCh:
		return b
	case <-time.After(500 * time.Millisecond):
		t.Fatal("write timeout")
	}
	return nil
}

func newTestTransport(t *testing.T, size int) (*Transport, *testPort) {
	port := newTestPort()
	tr := New(OpenFunc(func(baud int) (Port, error) {
		return port, nil
	}))
	tr.BufferSize = size
	require.NoError(t, tr.Enable(0))
	t.Cleanup(tr.Disable)
	return tr, port
}

func TestEnableDefaults(t *testing.T) {
	var gotBaud int
	tr := New(OpenFunc(func(baud int) (Port, error) {
		gotBaud = baud
		return newTestPort(), nil
	}))
	require.NoError(t, tr.Enable(0))
	defer tr.Disable()
	require.Equal(t, DefaultBaudRate, gotBaud)
	require.Equal(t, DefaultBaudRate, tr.Baud())
	require.Equal(t, DefaultBufferSize, tr.Capacity())
	require.Equal(t, Pending(0), tr.Pending())
	require.Equal(t, 0, tr.Read(make([]byte, 4)))

	require.NoError(t, tr.Enable(115200))
	require.Equal(t, 115200, gotBaud)
	require.True(t, tr.Enabled())
}

func TestReadBoundAndCursorInvariant(t *testing.T) {
	const size = 8
	tr, _ := newTestTransport(t, size)
	var next byte
	var expect byte
	sizes := []int{1, 3, 7, 8, 2, 5, 16, 4}
	for round := 0; round < 6; round++ {
		for tr.complete([]byte{next}) == 1 {
			next++
		}
		for _, max := range sizes {
			p := make([]byte, max)
			n := tr.Read(p)
			require.True(t, n <= max)
			for _, b := range p[:n] {
				require.Equal(t, expect, b)
				expect++
			}
			require.True(t, tr.cursor >= 0 && tr.cursor <= size, "cursor %d", tr.cursor)
		}
	}
	require.Equal(t, next, expect)
}

func TestReadDelimitedAcrossRotation(t *testing.T) {
	tr, _ := newTestTransport(t, 8)
	require.Equal(t, 6, tr.complete([]byte{0, 1, 2, 3, 4, 5}))
	require.Equal(t, 6, tr.Read(make([]byte, 6)))
	require.Equal(t, 2, tr.complete([]byte{0x41, 0x42}))
	require.Equal(t, 3, tr.complete([]byte{0x43, 0x7E, 0x44}))
	require.Equal(t, 0, tr.active)

	p := make([]byte, 16)
	n, err := tr.ReadDelimited(p, 0x7E)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{0x41, 0x42, 0x43, 0x7E}, p[:n])
	require.Equal(t, 1, tr.active)
	require.Equal(t, 2, tr.cursor)

	n = tr.Read(p)
	require.Equal(t, 1, n)
	require.Equal(t, byte(0x44), p[0])
}

func TestReadDelimitedNotFound(t *testing.T) {
	tr, _ := newTestTransport(t, 8)
	tr.complete([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.Equal(t, 2, tr.Read(make([]byte, 2)))

	p := make([]byte, 16)
	_, err := tr.ReadDelimited(p, 0x7E)
	require.Equal(t, ErrFrameNotFound, err)
	require.Equal(t, 2, tr.cursor)
	require.Equal(t, 0, tr.active)
	require.Equal(t, 8, tr.Buffered())

	// delimiter beyond maxLen is not found either.
	tr.complete([]byte{0x7E})
	_, err = tr.ReadDelimited(p[:4], 0x7E)
	require.Equal(t, ErrFrameNotFound, err)
	require.Equal(t, 2, tr.cursor)

	n, err := tr.ReadDelimited(p, 0x7E)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, []byte{3, 4, 5, 6, 7, 8, 9, 10, 0x7E}, p[:n])
	require.Equal(t, 1, tr.active)
	require.Equal(t, 3, tr.cursor)
	require.Equal(t, 0, tr.Buffered())
}

func TestOverrunAndFull(t *testing.T) {
	tr, _ := newTestTransport(t, 4)
	require.Equal(t, 8, tr.complete([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))
	require.Equal(t, uint64(3), tr.Overruns())
	require.True(t, tr.Full())
	require.True(t, tr.Pending().Input())

	p := make([]byte, 8)
	require.Equal(t, 8, tr.Read(p))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, p)
	require.False(t, tr.Full())
	require.Equal(t, 0, tr.active)
	require.Equal(t, 0, tr.cursor)

	require.Equal(t, 2, tr.complete([]byte{12, 13}))
	require.Equal(t, 2, tr.Read(p))
	require.Equal(t, []byte{12, 13}, p[:2])
}

func TestWriteBackpressure(t *testing.T) {
	tr, port := newTestTransport(t, 8)
	require.Equal(t, 3, tr.Write([]byte{1, 2, 3}))
	require.True(t, tr.Pending().Output())
	require.Equal(t, 0, tr.Write([]byte{4, 5}))

	port.release()
	require.Equal(t, []byte{1, 2, 3}, port.written(t))
	require.True(t, tr.WaitTxReady(time.Second))
	require.False(t, tr.Pending().Output())

	require.Equal(t, 2, tr.Write([]byte{4, 5}))
	require.False(t, tr.WaitTxReady(10*time.Millisecond))
	port.release()
	require.Equal(t, []byte{4, 5}, port.written(t))
}

func TestWriteOversizedTruncates(t *testing.T) {
	const size = 8
	tr, port := newTestTransport(t, size)
	p := make([]byte, size+6)
	for i := range p {
		p[i] = byte(i)
	}
	require.Equal(t, size, tr.Write(p))
	port.release()
	require.Equal(t, p[:size], port.written(t))
}

func TestDisableKeepsBuffers(t *testing.T) {
	tr, _ := newTestTransport(t, 8)
	tr.complete([]byte{1, 2, 3})
	tr.Disable()
	require.False(t, tr.Enabled())
	require.Equal(t, 0, tr.Write([]byte{1}))

	p := make([]byte, 8)
	require.Equal(t, 3, tr.Read(p))
	require.Equal(t, []byte{1, 2, 3}, p[:3])

	require.NoError(t, tr.Enable(0))
	require.Equal(t, 0, tr.Buffered())
}
