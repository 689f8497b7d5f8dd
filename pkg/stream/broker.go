package stream

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// subscriberBuffer is the number of messages kept for a subscriber that isn't reading.
const subscriberBuffer = 16

// Message is a notification sent to every open stream of a user.
type Message struct {
	ID      string
	Kind    string
	Payload any
}

type subscriber struct {
	userID  uint
	channel chan Message
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger:      logger,
		subscribers: make(map[uint]map[*subscriber]struct{}),
	}
}

// Broker fans messages out to the streams a user has open. A user may have several streams open,
// one per browser tab.
type Broker struct {
	logger      *slog.Logger
	lock        sync.RWMutex
	subscribers map[uint]map[*subscriber]struct{}
}

// Subscribe opens a stream for userID. The returned function closes the stream and must be called
// exactly once.
func (b *Broker) Subscribe(userID uint) (<-chan Message, func()) {
	s := &subscriber{
		userID:  userID,
		channel: make(chan Message, subscriberBuffer),
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	if b.subscribers[userID] == nil {
		b.subscribers[userID] = make(map[*subscriber]struct{})
	}
	b.subscribers[userID][s] = struct{}{}

	var once sync.Once
	return s.channel, func() {
		once.Do(func() { b.unsubscribe(s) })
	}
}

func (b *Broker) unsubscribe(s *subscriber) {
	b.lock.Lock()
	defer b.lock.Unlock()

	subscribers := b.subscribers[s.userID]
	delete(subscribers, s)
	if len(subscribers) == 0 {
		delete(b.subscribers, s.userID)
	}
	close(s.channel)
}

// Subscribers returns the ids of the users with at least one open stream.
func (b *Broker) Subscribers() []uint {
	b.lock.RLock()
	defer b.lock.RUnlock()

	ids := maps.Keys(b.subscribers)
	slices.Sort(ids)
	return ids
}

// Publish sends a message to every stream of userID. It never blocks: a stream whose buffer is full
// misses the message.
func (b *Broker) Publish(userID uint, kind string, payload any) {
	message := Message{
		ID:      uuid.NewString(),
		Kind:    kind,
		Payload: payload,
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	for s := range b.subscribers[userID] {
		select {
		case s.channel <- message:
		default:
			b.logger.Warn("Dropped message for slow subscriber", "userId", userID, "kind", kind)
		}
	}
}
