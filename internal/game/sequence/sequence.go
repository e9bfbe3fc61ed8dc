// Package sequence serializes multi-step game actions. Only one sequence is
// active at a time; starts requested while another sequence is running are
// queued and begin in FIFO order as prior sequences end.
package sequence

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type names the kind of action a sequence represents.
type Type string

const (
	TypePlayCard     Type = "PLAY_CARD"
	TypeCombat       Type = "COMBAT"
	TypeUseHeroPower Type = "USE_HERO_POWER"
	TypeTurnStart    Type = "TURN_START"
	TypeTurnEnd      Type = "TURN_END"
	TypeDeath        Type = "DEATH"
)

// State tracks a sequence through its lifecycle.
type State string

const (
	StatePending  State = "PENDING"
	StateRunning  State = "RUNNING"
	StatePaused   State = "PAUSED"
	StateDone     State = "DONE"
	StateCanceled State = "CANCELED"
)

// Sequence is a unit of serialized work. Start runs the body; Pause, Resume
// and Cancel adjust lifecycle state for implementations that care.
type Sequence interface {
	ID() string
	Type() Type
	Start()
	Pause()
	Resume()
	Cancel()
}

// Func wraps a plain function as a Sequence. Pause and Resume only flip the
// state; the body itself runs to completion inside Start.
type Func struct {
	id    string
	typ   Type
	state State
	body  func()
}

// NewFunc builds a function-backed sequence.
func NewFunc(typ Type, body func()) *Func {
	return &Func{
		id:    uuid.New().String(),
		typ:   typ,
		state: StatePending,
		body:  body,
	}
}

func (f *Func) ID() string   { return f.id }
func (f *Func) Type() Type   { return f.typ }
func (f *Func) State() State { return f.state }

// Start runs the body once.
func (f *Func) Start() {
	if f.state != StatePending {
		return
	}
	f.state = StateRunning
	if f.body != nil {
		f.body()
	}
}

func (f *Func) Pause() {
	if f.state == StateRunning {
		f.state = StatePaused
	}
}

func (f *Func) Resume() {
	if f.state == StatePaused {
		f.state = StateRunning
	}
}

func (f *Func) Cancel() {
	if f.state != StateDone {
		f.state = StateCanceled
	}
}

func (f *Func) finish() {
	if f.state == StateRunning || f.state == StatePaused {
		f.state = StateDone
	}
}

// Manager holds the single active sequence and the FIFO of waiting ones.
type Manager struct {
	current Sequence
	queue   []Sequence
	logger  *zap.Logger
}

// NewManager creates a sequence manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Start makes the sequence active and runs it if the slot is free, otherwise
// queues it. Returns true if the sequence started immediately.
func (m *Manager) Start(s Sequence) bool {
	if s == nil {
		return false
	}
	if m.current != nil {
		m.queue = append(m.queue, s)
		m.logger.Debug("sequence queued",
			zap.String("id", s.ID()),
			zap.String("type", string(s.Type())),
			zap.Int("queue_len", len(m.queue)),
		)
		return false
	}
	m.begin(s)
	return true
}

// EndCurrent finishes the active sequence and starts the next queued one, if
// any.
func (m *Manager) EndCurrent() {
	if m.current == nil {
		return
	}
	if f, ok := m.current.(*Func); ok {
		f.finish()
	}
	m.logger.Debug("sequence ended",
		zap.String("id", m.current.ID()),
		zap.String("type", string(m.current.Type())),
	)
	m.current = nil
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.begin(next)
	}
}

// Current returns the active sequence, or nil.
func (m *Manager) Current() Sequence {
	return m.current
}

// Queued returns a copy of the waiting sequences in start order.
func (m *Manager) Queued() []Sequence {
	out := make([]Sequence, len(m.queue))
	copy(out, m.queue)
	return out
}

// PauseCurrent pauses the active sequence.
func (m *Manager) PauseCurrent() {
	if m.current != nil {
		m.current.Pause()
	}
}

// ResumeCurrent resumes the active sequence.
func (m *Manager) ResumeCurrent() {
	if m.current != nil {
		m.current.Resume()
	}
}

// CancelCurrent cancels the active sequence and starts the next queued one.
func (m *Manager) CancelCurrent() {
	if m.current == nil {
		return
	}
	m.current.Cancel()
	m.current = nil
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.begin(next)
	}
}

// ClearQueue cancels and drops every waiting sequence. The active sequence is
// untouched.
func (m *Manager) ClearQueue() {
	for _, s := range m.queue {
		s.Cancel()
	}
	m.queue = nil
}

func (m *Manager) begin(s Sequence) {
	m.current = s
	m.logger.Debug("sequence started",
		zap.String("id", s.ID()),
		zap.String("type", string(s.Type())),
	)
	s.Start()
}
