package socket

import (
	"encoding/json"
	"net/http"
	"time"

	"coedit/pkg/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin allows connections from the frontend dev server.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection. Two observable states: idle after
// connect, joined once it sends a join-document event. Room membership lives
// in the hub; the client only carries its identity and send buffer.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string
	Send   chan []byte
}

// ServeWs upgrades an authenticated request to a websocket connection and
// registers it with the hub. Rooms are joined later via join-document events.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	client := &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
	client.Hub.Register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, rawMessage, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("error: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(rawMessage, &msg); err != nil {
			logger.Sugar.Errorf("Error unmarshalling message: %v", err)
			continue
		}
		if msg.DocumentID == "" {
			continue
		}

		switch msg.Type {
		case JoinDocumentType:
			c.Hub.join <- joinRequest{client: c, docID: msg.DocumentID}

		case TextChangeType:
			// Marshal once; the same bytes go to every recipient.
			payload, err := json.Marshal(ServerMessage{Type: ReceiveTextChangeType, Delta: msg.Delta})
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}
			c.Hub.broadcast <- broadcast{sender: c, docID: msg.DocumentID, payload: payload}

		default:
			logger.Sugar.Debugf("Ignoring unknown message type %q from user %s", msg.Type, c.UserID)
		}
	}
}

func (c *Client) writePump() {
	// A ping every 30 seconds keeps the connection alive and detects drops.
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				// The hub closed the channel; tell the peer we're done.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.Conn.WriteMessage(websocket.TextMessage, message)
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Connection is dead.
			}
		}
	}
}
