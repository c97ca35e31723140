package api

import (
	"bufio"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"xmail/models"
	"xmail/utils"
)

// Notification types pushed to subscribers
const (
	NotifyMessageSent    = "message_sent"
	NotifySendFailed     = "send_failed"
	NotifyMessageStarred = "message_starred"
	NotifyMessageRead    = "message_read"
)

// Notification represents a real-time notification
type Notification struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Time    time.Time              `json:"time"`
}

// NotificationHandler fans notifications out to SSE and WebSocket subscribers
type NotificationHandler struct {
	subscribers map[string]chan Notification
	mu          sync.RWMutex
	keepAlive   time.Duration
}

// NewNotificationHandler creates a new notification hub
func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{
		subscribers: make(map[string]chan Notification),
		keepAlive:   30 * time.Second,
	}
}

// Subscribe registers a new subscriber channel
func (h *NotificationHandler) Subscribe() (string, <-chan Notification) {
	id := uuid.New().String()
	ch := make(chan Notification, 10)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes and closes a subscriber channel
func (h *NotificationHandler) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
}

// SubscriberCount returns the number of connected subscribers
func (h *NotificationHandler) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// HandleSSE streams notifications as Server-Sent Events
func (h *NotificationHandler) HandleSSE(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	subscriberID, messages := h.Subscribe()
	utils.Log.Info("SSE subscriber connected: %s", subscriberID)

	// The writer runs after the handler returns, so cleanup belongs inside it
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			h.Unsubscribe(subscriberID)
			utils.Log.Info("SSE subscriber disconnected: %s", subscriberID)
		}()

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		for {
			select {
			case notification, ok := <-messages:
				if !ok {
					return
				}
				data, err := json.Marshal(notification)
				if err != nil {
					utils.Log.Error("Failed to encode notification: %v", err)
					continue
				}
				if _, err := w.WriteString("data: " + string(data) + "\n\n"); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}

// HandleWebSocket pushes notifications over a WebSocket connection
func (h *NotificationHandler) HandleWebSocket(c *websocket.Conn) {
	subscriberID, messages := h.Subscribe()
	utils.Log.Info("WebSocket subscriber connected: %s", subscriberID)

	defer func() {
		h.Unsubscribe(subscriberID)
		c.Close()
		utils.Log.Info("WebSocket subscriber disconnected: %s", subscriberID)
	}()

	// Reads only serve to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case notification, ok := <-messages:
			if !ok {
				return
			}
			if err := c.WriteJSON(notification); err != nil {
				utils.Log.Error("Failed to send WebSocket notification: %v", err)
				return
			}
		}
	}
}

// BroadcastNotification sends a notification to all subscribers. Slow
// subscribers with a full buffer miss it.
func (h *NotificationHandler) BroadcastNotification(notification Notification) {
	notification.ID = uuid.New().String()
	notification.Time = time.Now()

	h.mu.RLock()
	defer h.mu.RUnlock()

	utils.Log.Debug("Broadcasting notification: type=%s to %d subscribers", notification.Type, len(h.subscribers))

	for subscriberID, ch := range h.subscribers {
		select {
		case ch <- notification:
		default:
			utils.Log.Warn("Notification channel full for subscriber %s", subscriberID)
		}
	}
}

// NotifySent announces a message that reached the store
func (h *NotificationHandler) NotifySent(msg models.Message) {
	h.BroadcastNotification(Notification{
		Type:    NotifyMessageSent,
		Message: "Message sent",
		Data: map[string]interface{}{
			"message_id": msg.ID,
			"subject":    msg.Subject,
		},
	})
}

// NotifySendFailed announces a draft the transport rejected
func (h *NotificationHandler) NotifySendFailed(subject string, err error) {
	h.BroadcastNotification(Notification{
		Type:    NotifySendFailed,
		Message: "Failed to send message",
		Data: map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		},
	})
}

// NotifyFlagChanged announces a read or starred flag change
func (h *NotificationHandler) NotifyFlagChanged(typ, messageID string, value bool) {
	h.BroadcastNotification(Notification{
		Type:    typ,
		Message: "Message updated",
		Data: map[string]interface{}{
			"message_id": messageID,
			"value":      value,
		},
	})
}
