package network

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection wraps the WebSocket connection with an outgoing queue
type Connection struct {
	ws     *websocket.Conn
	send   chan []byte
	mutex  sync.Mutex
	closed bool
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, sendBuffer),
	}
}

// RemoteAddr returns the peer address
func (c *Connection) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// ReadPump reads messages from the WebSocket connection until it fails, then
// closes the outgoing queue
func (c *Connection) ReadPump(h MessageHandler) {
	defer func() {
		c.Close()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			break
		}

		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages and keeps the connection alive with pings
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Queue closed
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.ws.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues a message for the client. A client that cannot keep up
// is disconnected.
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		c.closeLocked()
		c.ws.Close()
		return ErrConnectionClosed
	}
}

// Close stops the write pump after it drains the queue
func (c *Connection) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closeLocked()
}

func (c *Connection) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// MessageHandler interface for handling messages
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
