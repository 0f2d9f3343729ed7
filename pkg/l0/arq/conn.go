package arq

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/nxtlink/pkg/l0/frame"
)

// Defaults.
const (
	DefaultTimeout = 100 * time.Millisecond
	DefaultRetries = 5
)

// FrameReader yields unstuffed frames without blocking.
type FrameReader interface {
	ReadFrame() ([]byte, error)
}

// Writer accepts a prefix of p without blocking and returns its length,
// 0 meaning try again later.
type Writer interface {
	Write(p []byte) int
}

type txFrame struct {
	data     []byte
	inflight bool
}

// Conn is one end of a stop-and-wait connection. All methods are safe for
// concurrent use, handlers and notifiers are invoked without the lock held.
type Conn struct {
	Frames   FrameReader
	Out      Writer
	Handler  PayloadHandler
	Notifier StateNotifier
	Timeout  time.Duration
	Retries  int
	Now      func() time.Time

	lock  sync.Mutex
	state State
	isn   Seq
	seq   Seq // last sequence sent, the ISN before any data

	expect     Seq
	peerISN    Seq
	peerSynced bool

	inflight    []byte // header and payload waiting for ACK
	retransmits int
	deadline    time.Time

	txq   []txFrame
	txOff int
}

// NewConn creates a disconnected Conn.
func NewConn(frames FrameReader, out Writer) *Conn {
	return &Conn{
		Frames:  frames,
		Out:     out,
		Timeout: DefaultTimeout,
		Retries: DefaultRetries,
		seq:     NewSeq(),
	}
}

type events struct {
	states   []State
	payloads [][]byte
}

func (c *Conn) fire(ctx context.Context, ev *events) {
	if n := c.Notifier; n != nil {
		for _, s := range ev.states {
			n.StateChanged(ctx, s)
		}
	}
	if h := c.Handler; h != nil {
		for _, p := range ev.payloads {
			h.HandlePayload(ctx, p)
		}
	}
}

func (c *Conn) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// State gets the state.
func (c *Conn) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

// Busy reports whether a frame is waiting for acknowledgement.
func (c *Conn) Busy() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.inflight != nil
}

// Dial starts connecting. It is a no-op unless Disconnected.
func (c *Conn) Dial(ctx context.Context) {
	var ev events
	c.lock.Lock()
	if c.state == Disconnected {
		isn := NewSeq()
		if isn == c.isn {
			isn = isn.Next()
		}
		c.isn, c.seq = isn, isn
		c.transmitLocked([]byte{byte(MakeHeader(KindSyn, c.seq))})
		c.setStateLocked(Connecting, &ev)
		glog.V(2).Infof("arq: dial isn=%d", c.seq)
	}
	c.lock.Unlock()
	c.fire(ctx, &ev)
}

// Send transmits payload as the next DATA frame.
func (c *Conn) Send(payload []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.state != Connected {
		return ErrNotConnected
	}
	if c.inflight != nil {
		return ErrBusy
	}
	c.seq = c.seq.Next()
	f := make([]byte, len(payload)+1)
	f[0] = byte(MakeHeader(KindData, c.seq))
	copy(f[1:], payload)
	c.transmitLocked(f)
	return nil
}

// Close tears the connection down and discards pending output.
func (c *Conn) Close(ctx context.Context) {
	var ev events
	c.lock.Lock()
	c.resetLocked()
	c.setStateLocked(Disconnected, &ev)
	c.lock.Unlock()
	c.fire(ctx, &ev)
}

// Poll flushes output, processes every buffered frame and handles the
// retransmission deadline. It returns ErrConnectionLost or
// ErrConnectFailed when the retry budget runs out.
func (c *Conn) Poll(ctx context.Context) (err error) {
	var ev events
	c.lock.Lock()
	c.flushLocked()
	for {
		f, rerr := c.Frames.ReadFrame()
		if rerr == frame.ErrFrameNotFound {
			break
		}
		if rerr != nil {
			glog.Warningf("arq: %v", rerr)
			if rerr == frame.ErrFrameDiscarded {
				break
			}
			continue
		}
		c.receiveLocked(f, &ev)
	}
	err = c.checkDeadlineLocked(&ev)
	c.flushLocked()
	c.lock.Unlock()
	c.fire(ctx, &ev)
	return
}

func (c *Conn) setStateLocked(s State, ev *events) {
	if c.state != s {
		c.state = s
		ev.states = append(ev.states, s)
	}
}

func (c *Conn) resetLocked() {
	c.inflight, c.retransmits = nil, 0
	c.txq, c.txOff = nil, 0
	c.peerSynced = false
}

func (c *Conn) transmitLocked(f []byte) {
	c.inflight, c.retransmits = f, 0
	c.txq = append(c.txq, txFrame{data: frame.Encode(f), inflight: true})
}

func (c *Conn) replyLocked(f ...byte) {
	c.txq = append(c.txq, txFrame{data: frame.Encode(f)})
}

func (c *Conn) flushLocked() {
	for len(c.txq) > 0 {
		head := c.txq[0].data
		n := c.Out.Write(head[c.txOff:])
		if n == 0 {
			return
		}
		if c.txOff += n; c.txOff >= len(head) {
			if c.txq[0].inflight {
				c.deadline = c.now().Add(c.Timeout)
			}
			c.txq, c.txOff = c.txq[1:], 0
		}
	}
}

func (c *Conn) inflightQueuedLocked() bool {
	for _, f := range c.txq {
		if f.inflight {
			return true
		}
	}
	return false
}

// checkDeadlineLocked counts a retransmission only once the previous copy
// is fully written, the deadline is armed by flushLocked.
func (c *Conn) checkDeadlineLocked(ev *events) error {
	if c.inflight == nil || c.inflightQueuedLocked() || c.now().Before(c.deadline) {
		return nil
	}
	if c.retransmits < c.Retries {
		c.retransmits++
		c.txq = append(c.txq, txFrame{data: frame.Encode(c.inflight), inflight: true})
		glog.V(2).Infof("arq: retransmit %v (%d/%d)", Header(c.inflight[0]), c.retransmits, c.Retries)
		return nil
	}
	err := ErrConnectionLost
	if c.state == Connecting {
		err = ErrConnectFailed
	}
	glog.Warningf("arq: %v after %d retransmissions", err, c.retransmits)
	c.resetLocked()
	c.setStateLocked(Disconnected, ev)
	return err
}

func (c *Conn) receiveLocked(f []byte, ev *events) {
	if len(f) == 0 {
		return
	}
	h, payload := Header(f[0]), f[1:]
	if glog.V(4) {
		glog.Infof("arq: recv %v len=%d", h, len(payload))
	}
	switch h.Kind() {
	case KindSyn:
		c.acceptSynLocked(h.Seq(), ev)
	case KindSynAck:
		if c.state != Connecting || len(payload) != 1 || Seq(payload[0]) != c.seq {
			return
		}
		c.inflight = nil
		c.expect, c.peerISN, c.peerSynced = h.Seq().Next(), h.Seq(), true
		c.setStateLocked(Connected, ev)
	case KindAck:
		if c.state == Connected && c.inflight != nil && Header(c.inflight[0]).Seq() == h.Seq() {
			c.inflight, c.retransmits = nil, 0
		}
	case KindData:
		if c.state != Connected {
			glog.V(2).Infof("arq: drop %v while %v", h, c.state)
			return
		}
		c.replyLocked(byte(MakeHeader(KindAck, h.Seq())))
		if h.Seq() != c.expect {
			glog.V(2).Infof("arq: discard %v, expect %d", h, c.expect)
			return
		}
		c.expect = c.expect.Next()
		ev.payloads = append(ev.payloads, append([]byte(nil), payload...))
	}
}

// acceptSynLocked answers a SYN in any state. A repeated SYN only gets
// its answer again, a new one resets the inbound sequence.
func (c *Conn) acceptSynLocked(isn Seq, ev *events) {
	if !c.peerSynced || c.peerISN != isn || c.state != Connected {
		c.peerISN, c.peerSynced = isn, true
		c.expect = isn.Next()
		switch c.state {
		case Disconnected:
			c.seq = NewSeq()
			c.setStateLocked(Connected, ev)
		case Connected:
			// the peer restarted, whatever it has not acked is gone.
			if c.inflight != nil {
				c.inflight, c.retransmits = nil, 0
				c.txq = dropInflight(c.txq, c.txOff)
			}
		}
		glog.V(2).Infof("arq: accept syn isn=%d", isn)
	}
	c.replyLocked(byte(MakeHeader(KindSynAck, c.seq)), byte(isn))
}

// dropInflight removes queued copies of the inflight frame. One already
// partially written is finished but no longer tracked.
func dropInflight(q []txFrame, off int) []txFrame {
	out := q[:0]
	for i, f := range q {
		if f.inflight {
			if i > 0 || off == 0 {
				continue
			}
			f.inflight = false
		}
		out = append(out, f)
	}
	return out
}
