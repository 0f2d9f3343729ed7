package mqtt

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/nxtlink/pkg/l0/arq"
	"github.com/robotalks/nxtlink/pkg/l0/msgs"
	"github.com/robotalks/nxtlink/pkg/telemetry"
)

// Pubber publishes payloads.
type Pubber interface {
	Pub(topic string, payload []byte) paho.Token
}

// Publisher implements link.Observer by publishing Envelopes. Publishing
// never waits for the broker.
type Publisher struct {
	Queue Pubber
	Now   func() time.Time
}

// NewPublisher creates a Publisher.
func NewPublisher(q Pubber) *Publisher {
	return &Publisher{Queue: q, Now: time.Now}
}

// StateChanged implements link.Observer.
func (p *Publisher) StateChanged(state arq.State) {
	p.publish(telemetry.NewStateEnvelope(state.String(), p.Now().UnixNano()))
}

// MessageSent implements link.Observer.
func (p *Publisher) MessageSent(msg msgs.Message) {
	p.publishMsg(telemetry.DirectionOut, msg)
}

// MessageReceived implements link.Observer.
func (p *Publisher) MessageReceived(msg msgs.Message) {
	p.publishMsg(telemetry.DirectionIn, msg)
}

func (p *Publisher) publishMsg(dir telemetry.Direction, msg msgs.Message) {
	e, err := telemetry.NewMessageEnvelope(dir, msg, p.Now().UnixNano())
	if err != nil {
		glog.Warningf("telemetry: %v", err)
		return
	}
	p.publish(e)
}

func (p *Publisher) publish(e *telemetry.Envelope) {
	payload, err := e.Marshal()
	if err != nil {
		glog.Warningf("telemetry: %v", err)
		return
	}
	p.Queue.Pub(e.Topic(), payload)
}

// Subscribe calls handler with every Envelope published under q.
func Subscribe(q *Queue, handler func(topic string, e *telemetry.Envelope)) paho.Token {
	return q.Sub("#", func(topic string, payload []byte) {
		e, err := telemetry.Unmarshal(payload)
		if err != nil {
			glog.Warningf("telemetry: %s: %v", topic, err)
			return
		}
		handler(topic, e)
	})
}
