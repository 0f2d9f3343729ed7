// Package link carries msgs over an arq.Conn.
//
// Outgoing messages wait in a bounded outbox and go out one at a time
// whenever the connection has nothing unacknowledged. Incoming messages
// are decoded into an inbox consumed by Recv. Both are owned by the task
// polling the link, other tasks only enqueue or dequeue.
package link

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/nxtlink/pkg/framework"
	"github.com/robotalks/nxtlink/pkg/l0/arq"
	"github.com/robotalks/nxtlink/pkg/l0/frame"
	"github.com/robotalks/nxtlink/pkg/l0/hs"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
)

// Defaults.
const (
	DefaultOutboxSize = 8
	DefaultInboxSize  = 16
)

var (
	// ErrOutboxFull indicates too many messages wait to be sent.
	ErrOutboxFull = errors.New("outbox full")
)

// Observer watches the traffic of a Link.
type Observer interface {
	StateChanged(arq.State)
	MessageSent(msgs.Message)
	MessageReceived(msgs.Message)
}

type outMsg struct {
	msg     msgs.Message
	payload []byte
}

// Link is a message link over an arq.Conn.
type Link struct {
	Conn       *arq.Conn
	Observer   Observer
	OutboxSize int
	InboxSize  int

	lock      sync.Mutex
	state     arq.State
	changedCh chan struct{}
	outbox    []outMsg
	inbox     []msgs.Message
	inboxCh   chan struct{}
}

// New creates a Link and takes over the handler and notifier of conn.
func New(conn *arq.Conn) *Link {
	l := &Link{
		Conn:       conn,
		OutboxSize: DefaultOutboxSize,
		InboxSize:  DefaultInboxSize,
		changedCh:  make(chan struct{}),
		inboxCh:    make(chan struct{}, 1),
	}
	conn.Handler = l
	conn.Notifier = l
	return l
}

// FromTransport stacks frame, arq and Link over an enabled transport.
func FromTransport(t *hs.Transport) *Link {
	return New(arq.NewConn(frame.NewReader(t), t))
}

// State is the last state reported by the connection.
func (l *Link) State() arq.State {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.state
}

// Changed returns the current state and a channel closed on the next
// state change.
func (l *Link) Changed() (arq.State, <-chan struct{}) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.state, l.changedCh
}

// Connect dials and waits until the connection is established or failed.
func (l *Link) Connect(ctx context.Context) error {
	l.Conn.Dial(ctx)
	for {
		state, changed := l.Changed()
		switch state {
		case arq.Connected:
			return nil
		case arq.Disconnected:
			return arq.ErrConnectFailed
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close drops the connection.
func (l *Link) Close(ctx context.Context) {
	l.Conn.Close(ctx)
}

// Send encodes msg and queues it for transmission.
func (l *Link) Send(msg msgs.Message) error {
	payload, err := msgs.Encode(msg)
	if err != nil {
		return err
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.state != arq.Connected {
		return arq.ErrNotConnected
	}
	if len(l.outbox) >= l.OutboxSize {
		return ErrOutboxFull
	}
	l.outbox = append(l.outbox, outMsg{msg: msg, payload: payload})
	return nil
}

// Pending is the number of messages in the outbox.
func (l *Link) Pending() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.outbox)
}

// Recv blocks until a message is received or ctx is done.
func (l *Link) Recv(ctx context.Context) (msgs.Message, error) {
	for {
		if msg, ok := l.TryRecv(); ok {
			return msg, nil
		}
		select {
		case <-l.inboxCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// TryRecv takes a message from the inbox without blocking.
func (l *Link) TryRecv() (msgs.Message, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.inbox) == 0 {
		return nil, false
	}
	msg := l.inbox[0]
	l.inbox = l.inbox[1:]
	return msg, true
}

// Poll hands the next queued message to the connection and polls it.
func (l *Link) Poll(ctx context.Context) error {
	l.sendNext()
	return l.Conn.Poll(ctx)
}

// Control implements Controller.
func (l *Link) Control(cc fx.ControlContext) error {
	return l.Poll(cc.Context())
}

// AddToLoop implements LoopAdder.
func (l *Link) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvLink, l)
}

func (l *Link) sendNext() {
	if l.Conn.Busy() {
		return
	}
	l.lock.Lock()
	if len(l.outbox) == 0 {
		l.lock.Unlock()
		return
	}
	next := l.outbox[0]
	l.lock.Unlock()

	if err := l.Conn.Send(next.payload); err != nil {
		return
	}
	l.lock.Lock()
	if len(l.outbox) > 0 {
		l.outbox = l.outbox[1:]
	}
	l.lock.Unlock()
	if glog.V(2) {
		glog.Infof("link: send %v", next.msg.Type())
	}
	if o := l.Observer; o != nil {
		o.MessageSent(next.msg)
	}
}

// HandlePayload implements arq.PayloadHandler.
func (l *Link) HandlePayload(ctx context.Context, p []byte) {
	msg, err := msgs.Decode(p)
	if err != nil {
		glog.Warningf("link: drop message: %v", err)
		return
	}
	if glog.V(2) {
		glog.Infof("link: recv %v", msg.Type())
	}
	l.lock.Lock()
	if len(l.inbox) >= l.InboxSize {
		glog.Warningf("link: inbox full, drop %v", l.inbox[0].Type())
		l.inbox = l.inbox[1:]
	}
	l.inbox = append(l.inbox, msg)
	l.lock.Unlock()
	select {
	case l.inboxCh <- struct{}{}:
	default:
	}
	if o := l.Observer; o != nil {
		o.MessageReceived(msg)
	}
}

// StateChanged implements arq.StateNotifier.
func (l *Link) StateChanged(ctx context.Context, state arq.State) {
	l.lock.Lock()
	l.state = state
	if state == arq.Disconnected && len(l.outbox) > 0 {
		glog.Warningf("link: %v, discard %d queued messages", state, len(l.outbox))
		l.outbox = nil
	}
	close(l.changedCh)
	l.changedCh = make(chan struct{})
	l.lock.Unlock()
	glog.Infof("link: %v", state)
	if o := l.Observer; o != nil {
		o.StateChanged(state)
	}
}
