package msg

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Topic classifies a message
type Topic int

const (
	// Ybus carries a completed area build
	Ybus Topic = iota
	// Status carries service status changes
	Status
)

func (t Topic) String() string {
	switch t {
	case Ybus:
		return "ybus"
	case Status:
		return "status"
	}
	return "unknown"
}

// Publisher is an interface for objects that allow subscription to their events
type Publisher interface {
	Subscribe(uuid.UUID, Topic) (<-chan Msg, error)
	Unsubscribe(uuid.UUID)
}

// Msg is one published event
type Msg struct {
	sender  uuid.UUID
	topic   Topic
	payload interface{}
}

// New is the Msg factory function
func New(sender uuid.UUID, topic Topic, payload interface{}) Msg {
	return Msg{sender, topic, payload}
}

// PID returns the sender's PID
func (v Msg) PID() uuid.UUID {
	return v.sender
}

// Topic returns the message topic
func (v Msg) Topic() Topic {
	return v.topic
}

// Payload returns the message data
func (v Msg) Payload() interface{} {
	return v.payload
}

const inboxSize = 50

// DropObserver is told about every message a full inbox refused
type DropObserver interface {
	MessageDropped(topic Topic)
}

// PubSub fans published messages out to per-topic subscribers
type PubSub struct {
	mux         *sync.Mutex
	pid         uuid.UUID
	subscribers map[Topic]map[uuid.UUID]chan Msg
	dropped     DropObserver
}

// NewPublisher returns a PubSub that stamps pid on every message
func NewPublisher(pid uuid.UUID) *PubSub {
	return &PubSub{
		mux:         &sync.Mutex{},
		pid:         pid,
		subscribers: make(map[Topic]map[uuid.UUID]chan Msg),
	}
}

// PID returns the publisher's PID
func (p *PubSub) PID() uuid.UUID {
	return p.pid
}

// SetDropObserver registers o to count dropped messages
func (p *PubSub) SetDropObserver(o DropObserver) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.dropped = o
}

// Subscribe returns a buffered channel of messages on topic
func (p *PubSub) Subscribe(pid uuid.UUID, topic Topic) (<-chan Msg, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if _, ok := p.subscribers[topic][pid]; ok {
		return nil, errors.New("pid already subscribed to " + topic.String())
	}
	if p.subscribers[topic] == nil {
		p.subscribers[topic] = make(map[uuid.UUID]chan Msg)
	}
	ch := make(chan Msg, inboxSize)
	p.subscribers[topic][pid] = ch
	return ch, nil
}

// Unsubscribe closes every channel held by pid
func (p *PubSub) Unsubscribe(pid uuid.UUID) {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, subs := range p.subscribers {
		if ch, ok := subs[pid]; ok {
			close(ch)
			delete(subs, pid)
		}
	}
}

// Publish delivers payload to every subscriber of topic. A full inbox
// drops the message for that subscriber.
func (p *PubSub) Publish(topic Topic, payload interface{}) {
	m := New(p.pid, topic, payload)
	p.mux.Lock()
	defer p.mux.Unlock()
	for pid, ch := range p.subscribers[topic] {
		select {
		case ch <- m:
		default:
			log.Printf("[PubSub] dropped %v message for %v: inbox full", topic, pid)
			if p.dropped != nil {
				p.dropped.MessageDropped(topic)
			}
		}
	}
}
