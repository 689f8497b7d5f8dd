package stream

import (
	"io"
	"time"

	"github.com/campus-compass/calendar-manager/internal/handler"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 30 * time.Second

func NewHandler(broker *Broker) Handler {
	return Handler{
		broker:    broker,
		keepAlive: keepAliveInterval,
	}
}

type Handler struct {
	broker    *Broker
	keepAlive time.Duration
}

// Subscribe streams the messages published for the user
func (h Handler) Subscribe(c *gin.Context) {
	// swagger:route GET /subscribe subscribe
	//
	// Stream messages
	//
	// Stream changes to the user's events and tasks as well as due reminders as server-sent events.
	// The event name is the kind of message and the data its JSON payload
	//
	// produces:
	// - text/event-stream
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Stream
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	messages, unsubscribe := h.broker.Subscribe(user.ID)
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ticker.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		case message, ok := <-messages:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Id:    message.ID,
				Event: message.Kind,
				Data:  message.Payload,
			})
			return true
		}
	})
}
