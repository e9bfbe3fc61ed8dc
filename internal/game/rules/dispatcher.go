package rules

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultMaxDepth bounds re-entrant drain calls (a handler dispatching
	// a new event from inside resolution).
	DefaultMaxDepth = 100
	// DefaultMaxEventsPerCycle bounds queue breadth within one top-level
	// dispatch: a handler that fans out events without recursing can
	// otherwise grow the queues without ever touching the depth guard.
	DefaultMaxEventsPerCycle = 10000
)

// Dispatcher is the trigger registry and event resolution engine. Events
// enter the primary queue; follow-up events produced by triggers enter the
// nested queue, which drains first so a triggered effect fully resolves
// before the game returns to the next queued action.
//
// Execution is single-threaded and synchronous: by the time Dispatch returns,
// every directly and transitively spawned event has been resolved (up to the
// recursion bound).
type Dispatcher struct {
	mu       sync.Mutex
	triggers map[EventType][]*Trigger

	primary []Event
	nested  []Event

	depth          int
	maxDepth       int
	maxPerCycle    int
	processedCycle int
	paused         bool

	bus    *EventBus
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher with default bounds.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		triggers:    make(map[EventType][]*Trigger),
		maxDepth:    DefaultMaxDepth,
		maxPerCycle: DefaultMaxEventsPerCycle,
		bus:         NewEventBus(),
		logger:      logger,
	}
}

// Bus returns the observer surface; subscribers see each event once, after
// its triggers have resolved.
func (d *Dispatcher) Bus() *EventBus {
	return d.bus
}

// SetMaxDepth overrides the re-entrancy bound.
func (d *Dispatcher) SetMaxDepth(depth int) {
	d.maxDepth = depth
}

// SetMaxEventsPerCycle overrides the per-cycle event budget.
func (d *Dispatcher) SetMaxEventsPerCycle(n int) {
	d.maxPerCycle = n
}

// Register adds a trigger to its event type's list.
func (d *Dispatcher) Register(t *Trigger) {
	if t == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.triggers[t.EventType()] = append(d.triggers[t.EventType()], t)
}

// Unregister removes a trigger by id from whichever list holds it.
func (d *Dispatcher) Unregister(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for eventType, list := range d.triggers {
		for i, t := range list {
			if t.ID() == id {
				d.triggers[eventType] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Triggers returns a copy of the trigger list for an event type.
func (d *Dispatcher) Triggers(eventType EventType) []*Trigger {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.triggers[eventType]
	out := make([]*Trigger, len(list))
	copy(out, list)
	return out
}

// Dispatch accepts an event, backfills id and timestamp, queues it and drains
// both queues. Events dispatched while paused are dropped.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.Lock()
	if d.paused {
		d.mu.Unlock()
		d.logger.Debug("event dropped, dispatcher paused", zap.String("type", string(event.Type)))
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	d.primary = append(d.primary, event)
	d.mu.Unlock()

	d.drain()
}

// DispatchAll dispatches a batch of events in order.
func (d *Dispatcher) DispatchAll(events []Event) {
	for _, event := range events {
		d.Dispatch(event)
	}
}

// Pause stops intake; events already queued stay queued.
func (d *Dispatcher) Pause() {
	d.mu.Lock()
	d.paused = true
	d.mu.Unlock()
}

// Resume re-opens intake and immediately drains anything left queued.
func (d *Dispatcher) Resume() {
	d.mu.Lock()
	d.paused = false
	d.mu.Unlock()
	d.drain()
}

// PendingEvents returns how many events are queued across both queues.
func (d *Dispatcher) PendingEvents() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.primary) + len(d.nested)
}

// ClearEvents drops all queued events.
func (d *Dispatcher) ClearEvents() {
	d.mu.Lock()
	d.primary = nil
	d.nested = nil
	d.mu.Unlock()
}

// drain resolves queued events until both queues are empty. Each re-entrant
// call (a handler calling Dispatch) increments the depth counter; exceeding
// the bound logs an error and abandons the current cycle instead of
// propagating a failure.
func (d *Dispatcher) drain() {
	d.mu.Lock()
	if d.depth >= d.maxDepth {
		// Abandon the cycle: leaving the offending event queued would
		// hand it straight back to the caller's drain loop.
		d.primary = nil
		d.nested = nil
		d.mu.Unlock()
		d.logger.Error("event resolution depth exceeded, abandoning cycle",
			zap.Int("max_depth", d.maxDepth),
		)
		return
	}
	d.depth++
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.depth--
		if d.depth == 0 {
			d.processedCycle = 0
		}
		d.mu.Unlock()
	}()

	for {
		event, ok := d.pop()
		if !ok {
			return
		}
		d.resolve(event)
	}
}

// pop takes the next event, preferring the nested queue, and enforces the
// per-cycle budget.
func (d *Dispatcher) pop() (Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.nested) == 0 && len(d.primary) == 0 {
		return Event{}, false
	}

	d.processedCycle++
	if d.processedCycle > d.maxPerCycle {
		d.logger.Error("event budget exceeded, dropping queued events",
			zap.Int("max_events", d.maxPerCycle),
			zap.Int("primary", len(d.primary)),
			zap.Int("nested", len(d.nested)),
		)
		d.primary = nil
		d.nested = nil
		return Event{}, false
	}

	var event Event
	if len(d.nested) > 0 {
		event = d.nested[0]
		d.nested = d.nested[1:]
	} else {
		event = d.primary[0]
		d.primary = d.primary[1:]
	}
	event.Depth = d.depth
	return event, true
}

// resolve runs all matching triggers in sorted order, queues their follow-up
// events nested-first, then publishes the event to observers.
func (d *Dispatcher) resolve(event Event) {
	for _, t := range d.sortedTriggers(event) {
		// Eligibility is re-checked at fire time: an earlier trigger in
		// this batch may have disabled or exhausted this one.
		if !t.eligible(event) {
			continue
		}
		followups := d.fireContained(t, event)
		if len(followups) > 0 {
			d.pushNested(event, followups)
		}
	}
	d.bus.Publish(event)
}

// fireContained invokes one trigger, converting a panic into a logged error
// with no follow-up events. One failing trigger must not abort the rest of
// the batch or the queue.
func (d *Dispatcher) fireContained(t *Trigger, event Event) (followups []Event) {
	defer func() {
		if r := recover(); r != nil {
			followups = nil
			d.logger.Error("trigger handler failed",
				zap.String("trigger_id", t.ID()),
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r),
			)
		}
	}()
	return t.fire(event)
}

// pushNested prepends follow-up events to the nested queue in the order the
// handler returned them, stamping the causal parent.
func (d *Dispatcher) pushNested(parent Event, events []Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	queued := make([]Event, len(events), len(events)+len(d.nested))
	copy(queued, events)
	for i := range queued {
		if queued[i].ID == "" {
			queued[i].ID = uuid.NewString()
		}
		if queued[i].Timestamp.IsZero() {
			queued[i].Timestamp = time.Now()
		}
		if queued[i].ParentID == "" {
			queued[i].ParentID = parent.ID
		}
	}
	d.nested = append(queued, d.nested...)
}

// sortedTriggers snapshots and orders the candidates for an event:
// priority ascending, then owner zone rank (board and secrets before hand
// before deck), then owner entity id (creation order).
func (d *Dispatcher) sortedTriggers(event Event) []*Trigger {
	d.mu.Lock()
	list := d.triggers[event.Type]
	candidates := make([]*Trigger, len(list))
	copy(candidates, list)
	d.mu.Unlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority() != b.Priority() {
			return a.Priority() < b.Priority()
		}
		if ra, rb := zoneRank(a.Owner()), zoneRank(b.Owner()); ra != rb {
			return ra < rb
		}
		return ownerID(a.Owner()) < ownerID(b.Owner())
	})
	return candidates
}
