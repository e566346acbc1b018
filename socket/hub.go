package socket

import (
	"encoding/json"

	"coedit/pkg/logger"
)

const (
	JoinDocumentType      = "join-document"
	TextChangeType        = "text-change"
	ReceiveTextChangeType = "receive-text-change"
)

// ClientMessage is the envelope for client-to-server frames. Delta is an
// opaque edit payload; the relay never interprets it.
type ClientMessage struct {
	Type       string          `json:"type"`
	DocumentID string          `json:"documentId"`
	Delta      json.RawMessage `json:"delta,omitempty"`
}

// ServerMessage is what co-members of a room receive when someone edits.
type ServerMessage struct {
	Type  string          `json:"type"`
	Delta json.RawMessage `json:"delta"`
}

type joinRequest struct {
	client *Client
	docID  string
}

type broadcast struct {
	sender  *Client
	docID   string
	payload []byte
}

// Hub owns the room table. Rooms are keyed by document id, created on first
// join and dropped when the last member leaves. All membership mutation and
// fan-out happens on the Run goroutine, so no locking is needed.
type Hub struct {
	rooms      map[string]map[*Client]bool
	membership map[*Client]map[string]bool

	Register   chan *Client
	Unregister chan *Client
	join       chan joinRequest
	broadcast  chan broadcast
	evict      chan string
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		membership: make(map[*Client]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		join:       make(chan joinRequest),
		broadcast:  make(chan broadcast),
		evict:      make(chan string),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.membership[client] = make(map[string]bool)
			logger.Sugar.Infof("Socket connected: user %s", client.UserID)

		case client := <-h.Unregister:
			h.removeClient(client)

		case req := <-h.join:
			// The client may have disconnected before the join was processed.
			if h.membership[req.client] == nil {
				continue
			}
			if h.rooms[req.docID] == nil {
				h.rooms[req.docID] = make(map[*Client]bool)
			}
			// Joins are additive: a connection can belong to several rooms
			// at once and never implicitly leaves a prior one.
			h.rooms[req.docID][req.client] = true
			h.membership[req.client][req.docID] = true
			logger.Sugar.Infof("User %s joined room %s", req.client.UserID, req.docID)

		case msg := <-h.broadcast:
			// Best-effort fan-out to everyone in the room except the sender.
			for client := range h.rooms[msg.docID] {
				if client == msg.sender {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					// The client is lagging; drop it rather than block the hub.
					logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.UserID)
					h.removeClient(client)
				}
			}

		case docID := <-h.evict:
			// Closing the connection makes each readPump exit and unregister
			// itself, which tears the room down.
			for client := range h.rooms[docID] {
				client.Conn.Close()
			}
		}
	}
}

// removeClient drops the client from every room it joined and closes its
// send channel. Must only be called from the Run goroutine.
func (h *Hub) removeClient(client *Client) {
	rooms, ok := h.membership[client]
	if !ok {
		return
	}
	for docID := range rooms {
		delete(h.rooms[docID], client)
		if len(h.rooms[docID]) == 0 {
			delete(h.rooms, docID)
			logger.Sugar.Infof("Closed empty room: %s", docID)
		}
	}
	delete(h.membership, client)
	close(client.Send)
}

// EvictDocument disconnects every connection joined to docID's room. Called
// when the document is deleted via the API.
func (h *Hub) EvictDocument(docID string) {
	h.evict <- docID
}
