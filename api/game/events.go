package gameapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/beka-birhanu/trapmaze/protocol"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	subscriberBuffer = 64
	writeTimeout     = 5 * time.Second
)

// EventHub fans move events out to websocket subscribers. A subscriber that
// falls behind loses events instead of slowing the game down.
type EventHub struct {
	upgrader    *websocket.Upgrader
	subscribers map[chan protocol.MoveEvent]struct{}
	logger      *log.Entry
	sync.RWMutex
}

// NewEventHub returns a hub with no subscribers.
func NewEventHub(logger *log.Entry) *EventHub {
	return &EventHub{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subscribers: make(map[chan protocol.MoveEvent]struct{}),
		logger:      logger,
	}
}

// Publish implements i.EventPublisher.
func (h *EventHub) Publish(e protocol.MoveEvent) {
	h.RLock()
	defer h.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- e:
		default:
			h.logger.Warnf("dropping event for slow subscriber: %s %s", e.Agent, e.Command)
		}
	}
}

// Subscribe registers a new subscriber. The returned func unregisters it and
// closes the channel.
func (h *EventHub) Subscribe() (<-chan protocol.MoveEvent, func()) {
	ch := make(chan protocol.MoveEvent, subscriberBuffer)
	h.Lock()
	h.subscribers[ch] = struct{}{}
	h.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.Lock()
			delete(h.subscribers, ch)
			h.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers.
func (h *EventHub) Subscribers() int {
	h.RLock()
	defer h.RUnlock()
	return len(h.subscribers)
}

// serve upgrades the request and streams events as JSON text messages until
// the client goes away.
func (h *EventHub) serve(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	conn.SetPingHandler(func(message string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
		var ne net.Error
		if errors.Is(err, websocket.ErrCloseSent) || (errors.As(err, &ne) && ne.Timeout()) {
			return nil
		}
		return err
	})

	events, unsubscribe := h.Subscribe()
	defer unsubscribe()

	// the read side only exists to notice the peer closing
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(conn, e); err != nil {
				h.logger.Debugf("event subscriber gone: %v", err)
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, e protocol.MoveEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	w, err := conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(e); err != nil {
		return err
	}
	return w.Close()
}
