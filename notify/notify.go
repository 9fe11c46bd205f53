package notify

import (
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type Notifier interface {
	Notify(n Notification)
}

func Info(msg string) Notification {
	return Notification{Level: LevelInfo, Message: msg, Time: time.Now()}
}

func Success(msg string) Notification {
	return Notification{Level: LevelSuccess, Message: msg, Time: time.Now()}
}

func Error(err error) Notification {
	return Notification{Level: LevelError, Message: err.Error(), Time: time.Now()}
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	entry := logger.WithField("notification", n.Level)
	if n.Level == LevelError {
		entry.Error(n.Message)
		return
	}
	entry.Info(n.Message)
}

// Multi delivers a notification to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, nt := range m {
		nt.Notify(n)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) {}

const DefaultHubBuffer = 16

// Hub fans notifications out to subscribers. Notify never blocks: a
// subscriber whose buffer is full misses the message.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Notification
	nextID int
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultHubBuffer
	}
	return &Hub{
		subs:   make(map[int]chan Notification),
		buffer: buffer,
	}
}

// Subscribe returns a channel of notifications and a function that
// unsubscribes and closes it.
func (h *Hub) Subscribe() (<-chan Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Notification, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

func (h *Hub) Notify(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- n:
		default:
			logger.WithFields(logger.Fields{"subscriber": id, "message": n.Message}).Debug("dropping notification for slow subscriber")
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close closes every subscriber channel. Later subscribers get a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
