package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	X, Y float64
}

func TestMailboxOverwrite(t *testing.T) {
	var m Mailbox[target]
	_, ok := m.Peek()
	require.False(t, ok)

	m.Put(target{X: 1, Y: 1})
	m.Put(target{X: 2, Y: 2})
	v, ok := m.Take()
	require.True(t, ok)
	require.Equal(t, target{X: 2, Y: 2}, v)

	_, ok = m.Take()
	require.False(t, ok)
}

func TestMailboxPeekKeepsValue(t *testing.T) {
	var m Mailbox[target]
	m.Put(target{X: 3})
	for i := 0; i < 3; i++ {
		v, ok := m.Peek()
		require.True(t, ok)
		require.Equal(t, target{X: 3}, v)
	}
	require.Equal(t, uint64(1), m.Generation())
}

func TestMailboxConcurrentNoTornValues(t *testing.T) {
	var m Mailbox[target]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.Put(target{X: float64(i), Y: float64(-i)})
		}
	}()
	for i := 0; i < 1000; i++ {
		if v, ok := m.Peek(); ok {
			require.Equal(t, v.X, -v.Y)
		}
	}
	wg.Wait()
	v, ok := m.Peek()
	require.True(t, ok)
	require.Equal(t, target{X: 999, Y: -999}, v)
}

func TestFlags(t *testing.T) {
	var f Flags
	require.False(t, f.Active())
	require.False(t, f.SetHandshook(true))
	require.True(t, f.Active())
	require.False(t, f.SetPaused(true))
	require.True(t, f.SetPaused(true))
	require.False(t, f.Active())
	f.Reset()
	require.False(t, f.Handshook())
	require.False(t, f.Paused())
}
