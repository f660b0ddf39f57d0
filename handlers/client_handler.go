package handlers

import (
	"errors"
	"log"

	"github.com/gorilla/websocket"

	"breach-tactics/server/engine"
	"breach-tactics/server/messages"
	"breach-tactics/server/models"
	"breach-tactics/server/network"
	"breach-tactics/server/persistence"
	"breach-tactics/server/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	sessions      *services.SessionService
	clientManager *ClientManager
	defaultLevel  string
	logger        *log.Logger
	session       *services.Session
}

// HandleClientConnection serves one client until its connection closes
func HandleClientConnection(wsConn *websocket.Conn, sessions *services.SessionService, clientManager *ClientManager, defaultLevel string, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	conn := network.NewConnection(wsConn)
	handler := &ClientHandler{
		conn:          conn,
		sessions:      sessions,
		clientManager: clientManager,
		defaultLevel:  defaultLevel,
		logger:        logger,
	}
	logger.Printf("New connection from %s", conn.RemoteAddr())

	go conn.WritePump()
	conn.ReadPump(handler)

	handler.leave()
	logger.Printf("Connection from %s closed", conn.RemoteAddr())
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	env, err := messages.Decode(message)
	if err != nil {
		h.sendError(messages.CodeBadMessage, err.Error())
		return
	}

	switch env.Type {
	case messages.MessageTypeNewGame:
		h.handleNewGame(env)
	case messages.MessageTypeJoin:
		h.handleJoin(env)
	case messages.MessageTypeListSaves:
		h.handleListSaves()
	default:
		if h.session == nil {
			h.sendError(messages.CodeNoSession, "start or join a game first")
			return
		}
		h.handleGameMessage(env)
	}
}

func (h *ClientHandler) handleGameMessage(env *messages.Envelope) {
	switch env.Type {
	case messages.MessageTypeClick:
		var msg messages.ClickMessage
		if err := env.DecodePayload(&msg); err != nil {
			h.sendError(messages.CodeBadMessage, err.Error())
			return
		}
		h.session.Click(models.Position{Row: msg.Row, Col: msg.Col})
		h.broadcastState()

	case messages.MessageTypeMove:
		var msg messages.MoveMessage
		if err := env.DecodePayload(&msg); err != nil {
			h.sendError(messages.CodeBadMessage, err.Error())
			return
		}
		h.session.Move(models.Position{Row: msg.Row, Col: msg.Col}, models.Position{Row: msg.ToRow, Col: msg.ToCol})
		h.broadcastState()

	case messages.MessageTypeEndTurn:
		report, err := h.session.EndTurn()
		if err != nil {
			h.sendError(messages.CodeGameOver, err.Error())
			return
		}
		h.broadcastState()
		if outcome := h.session.Frame().Outcome; outcome != engine.OutcomeOngoing.String() {
			h.clientManager.BroadcastToSession(h.session.ID, messages.BaseMessage{
				Type:    messages.MessageTypeOutcome,
				Payload: messages.OutcomeMessage{Outcome: outcome, Turn: report.Turn},
			})
		}

	case messages.MessageTypeSave:
		var msg messages.SaveMessage
		if err := env.DecodePayload(&msg); err != nil {
			h.sendError(messages.CodeBadMessage, err.Error())
			return
		}
		if err := h.session.Save(msg.Name); err != nil {
			if errors.Is(err, services.ErrNotReadyToSave) {
				h.sendError(messages.CodeSaveRefused, err.Error())
				return
			}
			h.logger.Printf("Error saving %q: %v", msg.Name, err)
			h.sendError(messages.CodeInternal, "save failed")
			return
		}
		h.handleListSaves()

	case messages.MessageTypeLoad:
		var msg messages.SaveMessage
		if err := env.DecodePayload(&msg); err != nil {
			h.sendError(messages.CodeBadMessage, err.Error())
			return
		}
		if err := h.session.Load(msg.Name); err != nil {
			if !errors.Is(err, persistence.ErrSaveNotFound) {
				h.logger.Printf("Error loading %q: %v", msg.Name, err)
			}
			h.sendError(messages.CodeLoadFailed, err.Error())
			return
		}
		h.broadcastState()

	case messages.MessageTypeReload:
		if err := h.session.Reload(); err != nil {
			h.logger.Printf("Error reloading session %s: %v", h.session.ID, err)
			h.sendError(messages.CodeInternal, "reload failed")
			return
		}
		h.broadcastState()
	}
}

// handleNewGame starts a session and binds the client to it
func (h *ClientHandler) handleNewGame(env *messages.Envelope) {
	msg := messages.NewGameMessage{Level: h.defaultLevel}
	if err := env.DecodePayload(&msg); err != nil {
		h.sendError(messages.CodeBadMessage, err.Error())
		return
	}
	if msg.Level == "" {
		msg.Level = h.defaultLevel
	}

	session, err := h.sessions.Create(msg.Level)
	if err != nil {
		if errors.Is(err, services.ErrLevelNotFound) {
			h.sendError(messages.CodeBadLevel, err.Error())
			return
		}
		h.logger.Printf("Error creating session on %q: %v", msg.Level, err)
		h.sendError(messages.CodeBadLevel, "level could not be loaded")
		return
	}
	h.bind(session)
}

// handleJoin binds the client to an existing session
func (h *ClientHandler) handleJoin(env *messages.Envelope) {
	var msg messages.JoinMessage
	if err := env.DecodePayload(&msg); err != nil {
		h.sendError(messages.CodeBadMessage, err.Error())
		return
	}
	session, err := h.sessions.Get(msg.SessionID)
	if err != nil {
		h.sendError(messages.CodeNoSession, err.Error())
		return
	}
	h.bind(session)
}

func (h *ClientHandler) handleListSaves() {
	names, err := h.sessions.ListSaves()
	if err != nil {
		h.logger.Printf("Error listing saves: %v", err)
		h.sendError(messages.CodeInternal, "could not list saves")
		return
	}
	if names == nil {
		names = []string{}
	}
	h.send(messages.BaseMessage{
		Type:    messages.MessageTypeSaves,
		Payload: messages.SavesMessage{Names: names},
	})
}

func (h *ClientHandler) bind(session *services.Session) {
	if h.session == session {
		h.send(h.stateMessage())
		return
	}
	h.leave()
	open := func() bool {
		_, err := h.sessions.Get(session.ID)
		return err == nil
	}
	if !h.clientManager.AddClient(session.ID, h, open) {
		h.sendError(messages.CodeNoSession, "session closed")
		return
	}
	h.session = session

	h.send(messages.BaseMessage{
		Type:    messages.MessageTypeSession,
		Payload: messages.SessionMessage{SessionID: session.ID, Level: session.Level()},
	})
	h.send(h.stateMessage())
}

// leave detaches the client from its session, closing the session when it
// was the last client
func (h *ClientHandler) leave() {
	if h.session == nil {
		return
	}
	id := h.session.ID
	h.clientManager.RemoveClient(id, h, func() { h.sessions.Remove(id) })
	h.session = nil
}

func (h *ClientHandler) stateMessage() messages.BaseMessage {
	return messages.BaseMessage{
		Type: messages.MessageTypeState,
		Payload: messages.StateMessage{
			SessionID: h.session.ID,
			Frame:     h.session.Frame(),
		},
	}
}

// broadcastState sends the new frame to everyone in the session
func (h *ClientHandler) broadcastState() {
	h.clientManager.BroadcastToSession(h.session.ID, h.stateMessage())
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.BaseMessage{
		Type:    messages.MessageTypeError,
		Payload: messages.ErrorMessage{Code: code, Message: message},
	})
}

func (h *ClientHandler) send(msg interface{}) {
	if err := h.conn.SendMessage(msg); err != nil {
		h.logger.Printf("Error sending to %s: %v", h.conn.RemoteAddr(), err)
	}
}
