package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"breach-tactics/server/engine"
	"breach-tactics/server/models"
	"breach-tactics/server/persistence"
	"breach-tactics/server/scenario"
	"breach-tactics/server/view"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotReadyToSave  = errors.New("a mech has moved this turn")
	ErrGameOver        = errors.New("the game is over")
)

// SessionService manages the games currently being played
type SessionService struct {
	sessions map[string]*Session
	catalog  *LevelCatalog
	db       persistence.Storage
	rules    models.Rules
	logger   *log.Logger
	mutex    sync.RWMutex
}

// NewSessionService creates a new session service
func NewSessionService(catalog *LevelCatalog, db persistence.Storage, rules models.Rules, logger *log.Logger) *SessionService {
	if logger == nil {
		logger = log.Default()
	}
	return &SessionService{
		sessions: make(map[string]*Session),
		catalog:  catalog,
		db:       db,
		rules:    rules,
		logger:   logger,
	}
}

// Create starts a new game on the named level
func (ss *SessionService) Create(level string) (*Session, error) {
	text, err := ss.catalog.Get(level)
	if err != nil {
		return nil, err
	}
	e, err := scenario.Load(text, ss.rules)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", level, err)
	}

	s := &Session{
		ID:     uuid.NewString(),
		level:  level,
		source: text,
		ctrl:   view.NewController(e),
		svc:    ss,
	}

	ss.mutex.Lock()
	ss.sessions[s.ID] = s
	ss.mutex.Unlock()

	ss.logger.Printf("session %s started on %s", s.ID, level)
	return s, nil
}

// Get retrieves a session by ID
func (ss *SessionService) Get(id string) (*Session, error) {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()

	s, exists := ss.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Remove forgets a session
func (ss *SessionService) Remove(id string) {
	ss.mutex.Lock()
	_, exists := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mutex.Unlock()

	if exists {
		ss.logger.Printf("session %s closed", id)
	}
}

// Count returns the number of live sessions
func (ss *SessionService) Count() int {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()
	return len(ss.sessions)
}

// ListSaves returns the names of every stored save
func (ss *SessionService) ListSaves() ([]string, error) {
	return ss.db.ListGames()
}

// Session is one game. All methods are safe for concurrent use; calls are
// applied to the game one at a time.
type Session struct {
	ID string

	level  string
	source string
	ctrl   *view.Controller
	svc    *SessionService
	mutex  sync.Mutex
}

// Level returns the level or save name the game was last started from
func (s *Session) Level() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.level
}

// Click forwards a board click to the controller
func (s *Session) Click(pos models.Position) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ctrl.Click(pos)
}

// Move focuses the unit at from and clicks to. It reports whether the unit
// moved.
func (s *Session) Move(from, to models.Position) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ctrl.Engine().EntityAt(from) == nil {
		return false
	}
	s.ctrl.Click(from)
	if !s.ctrl.Moving() {
		return false
	}
	return s.ctrl.Click(to)
}

// EndTurn resolves the turn. Once the game is won or lost it fails with
// ErrGameOver until the session is reloaded or loaded.
func (s *Session) EndTurn() (engine.TurnReport, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ctrl.Engine().Outcome() != engine.OutcomeOngoing {
		return engine.TurnReport{}, ErrGameOver
	}
	report := s.ctrl.EndTurn()
	if outcome := s.ctrl.Engine().Outcome(); outcome != engine.OutcomeOngoing {
		s.svc.logger.Printf("session %s %s on turn %d", s.ID, outcome, report.Turn)
	}
	return report, nil
}

// Save stores the current state under name. It fails when a mech has moved
// since the last end of turn.
func (s *Session) Save(name string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e := s.ctrl.Engine()
	if !e.ReadyToSave() {
		return ErrNotReadyToSave
	}
	save := &models.SavedGame{
		Name:    name,
		Level:   s.level,
		State:   e.String(),
		Turn:    e.Turn(),
		SavedAt: time.Now().UTC(),
	}
	if err := s.svc.db.SaveGame(save); err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	s.svc.logger.Printf("session %s saved as %q", s.ID, name)
	return nil
}

// Load replaces the game with a stored save. The save becomes the source
// that Reload returns to.
func (s *Session) Load(name string) error {
	save, err := s.svc.db.LoadGame(name)
	if err != nil {
		return err
	}
	e, err := scenario.Load(save.State, s.svc.rules)
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.ctrl.Replace(e)
	s.source = save.State
	s.level = save.Level
	s.svc.logger.Printf("session %s loaded %q", s.ID, name)
	return nil
}

// Reload restarts the game from the text it was created or last loaded from
func (s *Session) Reload() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, err := scenario.Load(s.source, s.svc.rules)
	if err != nil {
		return err
	}
	s.ctrl.Replace(e)
	return nil
}

// Frame returns the render model of the current state
func (s *Session) Frame() view.Frame {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ctrl.Frame()
}

// State returns the game in scenario text form
func (s *Session) State() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ctrl.Engine().String()
}
