package hs

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

// Defaults.
const (
	DefaultBaudRate   = 460000
	DefaultBufferSize = 64

	bufferCount = 2
)

// Pending reports outstanding I/O, one bit per direction.
type Pending int

// Pending bits.
const (
	PendingInput Pending = 1 << iota
	PendingOutput
)

// Input reports unconsumed input.
func (p Pending) Input() bool { return p&PendingInput != 0 }

// Output reports output still in flight.
func (p Pending) Output() bool { return p&PendingOutput != 0 }

// Transport is the double-buffered byte transport.
type Transport struct {
	Opener     Opener
	BufferSize int // capacity of each buffer, applied on Enable

	lock     sync.Mutex
	enabled  bool
	baud     int
	capacity int
	port     Port
	stopCh   chan struct{}
	pumps    sync.WaitGroup

	// receive bookkeeping shared with the receive pump.
	hwLock    sync.Mutex
	in        [bufferCount][]byte
	fill      [bufferCount]int
	hwIdx     int
	nextArmed bool
	overruns  uint64

	// software side of receive, owned by the polling task.
	rxLock sync.Mutex
	active int
	cursor int

	txLock  sync.Mutex
	out     [bufferCount][]byte
	outPtr  int
	txBusy  bool
	txCh    chan []byte
	txReady chan struct{}
}

// New creates a disabled Transport.
func New(opener Opener) *Transport {
	return &Transport{
		Opener:     opener,
		BufferSize: DefaultBufferSize,
		txReady:    make(chan struct{}, 1),
	}
}

// Enable opens the port and arms the first receive buffer. A zero baud
// selects DefaultBaudRate. An enabled transport is disabled first, so
// Enable always starts from empty buffers.
func (t *Transport) Enable(baud int) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.enabled {
		t.disableLocked()
	}
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	capacity := t.BufferSize
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	t.reset(capacity)

	port, err := t.Opener.Open(baud)
	if err != nil {
		return err
	}
	t.port, t.baud, t.enabled = port, baud, true
	t.stopCh = make(chan struct{})
	txCh := make(chan []byte, 1)
	t.txLock.Lock()
	t.txCh = txCh
	t.txLock.Unlock()

	t.pumps.Add(2)
	go t.receive(port, t.stopCh)
	go t.transmit(port, txCh, t.stopCh)
	glog.V(2).Infof("hs: enabled at %d baud, %d byte buffers", baud, capacity)
	return nil
}

// Disable stops the pumps and closes the port. Buffer contents are kept.
func (t *Transport) Disable() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.enabled {
		t.disableLocked()
	}
}

func (t *Transport) disableLocked() {
	close(t.stopCh)
	if err := t.port.Close(); err != nil {
		glog.Warningf("hs: close port: %v", err)
	}
	t.pumps.Wait()
	t.txLock.Lock()
	t.txCh, t.txBusy = nil, false
	t.txLock.Unlock()
	t.port, t.enabled = nil, false
	glog.V(2).Info("hs: disabled")
}

func (t *Transport) reset(capacity int) {
	t.rxLock.Lock()
	t.hwLock.Lock()
	t.capacity = capacity
	for i := range t.in {
		t.in[i] = make([]byte, capacity)
		t.fill[i] = 0
	}
	t.hwIdx, t.nextArmed, t.overruns = 0, true, 0
	t.hwLock.Unlock()
	t.active, t.cursor = 0, 0
	t.rxLock.Unlock()

	t.txLock.Lock()
	for i := range t.out {
		t.out[i] = make([]byte, capacity)
	}
	t.outPtr, t.txBusy = 0, false
	if t.txReady == nil {
		t.txReady = make(chan struct{}, 1)
	}
	t.txLock.Unlock()
}

// Enabled reports whether the port is open.
func (t *Transport) Enabled() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.enabled
}

// Baud returns the rate used by the last Enable.
func (t *Transport) Baud() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.baud
}

// Capacity is the size of each buffer.
func (t *Transport) Capacity() int {
	t.hwLock.Lock()
	defer t.hwLock.Unlock()
	return t.capacity
}

// Pending reports outstanding input and output.
func (t *Transport) Pending() (p Pending) {
	if t.Buffered() > 0 {
		p |= PendingInput
	}
	t.txLock.Lock()
	if t.txBusy {
		p |= PendingOutput
	}
	t.txLock.Unlock()
	return
}

// WaitTxReady waits until no output is in flight or timeout expires.
// It reports whether the transmitter is idle.
func (t *Transport) WaitTxReady(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		t.txLock.Lock()
		busy, ready := t.txBusy, t.txReady
		t.txLock.Unlock()
		if !busy {
			return true
		}
		select {
		case <-ready:
		case <-timer.C:
			t.txLock.Lock()
			defer t.txLock.Unlock()
			return !t.txBusy
		}
	}
}

func (t *Transport) receive(port Port, stopCh <-chan struct{}) {
	defer t.pumps.Done()
	buf := make([]byte, t.Capacity())
	for {
		select {
		case <-stopCh:
			return
		default:
		}
		n, err := port.Read(buf)
		if n > 0 {
			if stored := t.complete(buf[:n]); stored < n {
				glog.V(1).Infof("hs: receive overrun, dropped %d bytes", n-stored)
			}
		}
		if err != nil {
			select {
			case <-stopCh:
			default:
				glog.Errorf("hs: read: %v", err)
			}
			return
		}
	}
}

func (t *Transport) transmit(port Port, txCh <-chan []byte, stopCh <-chan struct{}) {
	defer t.pumps.Done()
	for {
		select {
		case <-stopCh:
			return
		case chunk := <-txCh:
			if _, err := port.Write(chunk); err != nil {
				glog.Errorf("hs: write: %v", err)
			}
			t.txLock.Lock()
			t.txBusy = false
			ready := t.txReady
			t.txLock.Unlock()
			select {
			case ready <- struct{}{}:
			default:
			}
		}
	}
}
