package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Hub tracks the open feeds and fans events out to them. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	// clients maps a feed username to the connections watching it. An admin
	// watching u2 is filed under u2.
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
	done       chan struct{}

	logger *slog.Logger
}

type broadcastMsg struct {
	username string
	client   *Client // when set, deliver to this client only
	data     []byte
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, closing
// every open feed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			feed := h.clients[client.feed]
			if feed == nil {
				feed = make(map[*Client]struct{})
				h.clients[client.feed] = feed
			}
			feed[client] = struct{}{}
			h.logger.Debug("ws feed opened", "feed", client.feed, "viewer", client.viewer, "watchers", len(feed))

		case client := <-h.unregister:
			if h.remove(client) {
				h.logger.Debug("ws feed closed", "feed", client.feed, "viewer", client.viewer)
			}

		case msg := <-h.broadcast:
			if msg.client != nil {
				if _, ok := h.clients[msg.username][msg.client]; ok {
					h.deliver(msg.client, msg.data)
				}
				continue
			}
			for client := range h.clients[msg.username] {
				h.deliver(client, msg.data)
			}

		case <-ctx.Done():
			for _, feed := range h.clients {
				for client := range feed {
					h.remove(client)
				}
			}
			return
		}
	}
}

// deliver must only be called from Run.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("ws client too slow, dropping", "feed", client.feed, "viewer", client.viewer)
		h.remove(client)
	}
}

// remove must only be called from Run.
func (h *Hub) remove(client *Client) bool {
	feed, ok := h.clients[client.feed]
	if !ok {
		return false
	}
	if _, ok := feed[client]; !ok {
		return false
	}
	delete(feed, client)
	if len(feed) == 0 {
		delete(h.clients, client.feed)
	}
	close(client.send)
	return true
}

// Register adds a client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser queues an event for every connection watching username's feed.
func (h *Hub) SendToUser(username string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws hub: marshal event", "type", event.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- &broadcastMsg{username: username, data: data}:
	case <-h.done:
	}
}

func (h *Hub) sendTo(client *Client, data []byte) {
	select {
	case h.broadcast <- &broadcastMsg{username: client.feed, client: client, data: data}:
	case <-h.done:
	}
}
