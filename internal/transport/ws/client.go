package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 64
)

// Client is one websocket connection watching a single user's feed.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	feed   string
	viewer string
	logger *slog.Logger

	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, feed, viewer string) *Client {
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		hub:    hub,
		conn:   conn,
		feed:   feed,
		viewer: viewer,
		logger: hub.logger,
		send:   make(chan []byte, sendBufSize),
	}
}

// ReadPump reads client events until the connection closes, then removes
// the client from the hub.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		if err := wsjson.Read(ctx, c.conn, &event); err != nil {
			if websocket.CloseStatus(err) == -1 {
				c.logger.Debug("ws read failed", "feed", c.feed, "viewer", c.viewer, "error", err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump drains the send queue onto the connection and keeps it alive
// with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug("ws write failed", "feed", c.feed, "viewer", c.viewer, "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypePing:
		c.reply(&Event{Type: EventTypePong})
	default:
		evt, err := NewEvent(EventTypeError, ErrorPayload{Code: "UNKNOWN_EVENT", Message: "unknown event type: " + event.Type})
		if err != nil {
			return
		}
		c.reply(evt)
	}
}

// reply goes through the hub so it never races a close of c.send.
func (c *Client) reply(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.hub.sendTo(c, data)
}
