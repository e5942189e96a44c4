package push

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	EventTypeCreated = "created"
	EventTypeUpdated = "updated"
	EventTypeDeleted = "deleted"
)

type Event struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// SendFunc returns true if data was successfully sent
type SendFunc func([]byte) bool

// QueueSize is the number of events a subscriber may fall behind before it is dropped
const QueueSize = 16

type subscriber struct {
	sync.Mutex
	queue  chan []byte
	closed bool
}

// offer queues data, it reports false if the queue is full or closed
func (s *subscriber) offer(data []byte) bool {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.queue <- data:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.Lock()
	defer s.Unlock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
}

var subscribers = cmap.New[*subscriber]()

// Subscribe registers send for all future events. send is called from a goroutine of its own,
// one event at a time. The returned func removes it again
func Subscribe(send SendFunc) (unsubscribe func()) {
	id := uuid.NewString()
	sub := &subscriber{queue: make(chan []byte, QueueSize)}
	subscribers.Set(id, sub)
	go func() {
		for data := range sub.queue {
			if !send(data) {
				remove(id, sub)
				return
			}
		}
	}()
	return func() {
		remove(id, sub)
	}
}

func remove(id string, sub *subscriber) {
	subscribers.RemoveCb(id, func(key string, v *subscriber, exists bool) bool {
		return exists && v == sub
	})
	sub.close()
}

// Subscribers returns the number of connected listeners
func Subscribers() int {
	return subscribers.Count()
}

// Broadcast queues the event for every subscriber without waiting for delivery.
// Subscribers with a full queue are dropped. Returns the number of queued deliveries
func Broadcast(event Event) int {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("push.Broadcast, marshal error: %v", err)
		return 0
	}
	queued := 0
	for item := range subscribers.IterBuffered() {
		if item.Val.offer(data) {
			queued++
			continue
		}
		log.Printf("push.Broadcast, subscriber %s is too slow, dropping it", item.Key)
		remove(item.Key, item.Val)
	}
	return queued
}

func PostCreated(id string) { Broadcast(Event{EventTypeCreated, id}) }
func PostUpdated(id string) { Broadcast(Event{EventTypeUpdated, id}) }
func PostDeleted(id string) { Broadcast(Event{EventTypeDeleted, id}) }
