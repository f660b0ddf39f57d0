package handlers

import (
	"log"
	"sync"
)

// ClientManager groups connected clients by the session they play
type ClientManager struct {
	clients map[string]map[*ClientHandler]struct{} // session ID to clients
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]map[*ClientHandler]struct{}),
	}
}

// AddClient adds a client to a session when open reports the session is
// still live. open runs under the manager lock, so it cannot interleave with
// a RemoveClient that closes the session.
func (cm *ClientManager) AddClient(sessionID string, handler *ClientHandler, open func() bool) bool {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if open != nil && !open() {
		return false
	}
	group, exists := cm.clients[sessionID]
	if !exists {
		group = make(map[*ClientHandler]struct{})
		cm.clients[sessionID] = group
	}
	group[handler] = struct{}{}
	return true
}

// RemoveClient removes a client from a session and returns how many clients
// the session has left. onEmpty runs under the manager lock when the last
// client leaves.
func (cm *ClientManager) RemoveClient(sessionID string, handler *ClientHandler, onEmpty func()) int {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	group := cm.clients[sessionID]
	delete(group, handler)
	if len(group) == 0 {
		delete(cm.clients, sessionID)
		if onEmpty != nil {
			onEmpty()
		}
		return 0
	}
	return len(group)
}

// ClientCount returns the number of clients in a session
func (cm *ClientManager) ClientCount(sessionID string) int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients[sessionID])
}

// BroadcastToSession sends a message to every client of a session
func (cm *ClientManager) BroadcastToSession(sessionID string, msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for client := range cm.clients[sessionID] {
		if err := client.conn.SendMessage(msg); err != nil {
			log.Printf("Error broadcasting to client %s: %v", client.conn.RemoteAddr(), err)
		}
	}
}
