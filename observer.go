package modkit

import (
	"context"
	"slices"
	"time"
)

// EventType names a lifecycle event. The event payload is the same lowercase name.
type EventType string

// App events
const (
	EventResolving  EventType = "resolving"
	EventResolved   EventType = "resolved"
	EventSettingUp  EventType = "setting_up"
	EventSetup      EventType = "setup"
	EventStarting   EventType = "starting"
	EventStarted    EventType = "started"
	EventStopping   EventType = "stopping"
	EventStopped    EventType = "stopped"
	EventDestroying EventType = "destroying"
	EventDestroyed  EventType = "destroyed"
)

// Module events. Setup and destroy events share their names with the App ones.
const (
	EventEnabling  EventType = "enabling"
	EventEnabled   EventType = "enabled"
	EventDisabling EventType = "disabling"
	EventDisabled  EventType = "disabled"
)

// SourceKind tells whether an event was emitted by an App or a Module.
type SourceKind string

const (
	SourceApp    SourceKind = "app"
	SourceModule SourceKind = "module"
)

// Event is delivered to observers on every lifecycle transition.
type Event struct {
	// ID uniquely identifies this event.
	ID string
	// Type is the event name.
	Type EventType
	// Kind is the kind of entity that emitted the event.
	Kind SourceKind
	// Source is the id of the emitting App or Module.
	Source string
	// Phase is the payload: the lowercase event name.
	Phase string
	// Time is when the event was emitted.
	Time time.Time
}

// Observer is notified of the events emitted by the App or Module it is
// registered with. Events are delivered synchronously, in registration order.
// Returned errors are logged and never interrupt the lifecycle.
type Observer interface {
	OnEvent(ctx context.Context, event Event) error

	// ObserverID returns a unique identifier for this observer.
	// Registering a second observer with the same id replaces the first.
	ObserverID() string
}

// ObserverInfo describes a registered observer.
type ObserverInfo struct {
	ID           string      `json:"id"`
	EventTypes   []EventType `json:"eventTypes"`
	RegisteredAt time.Time   `json:"registeredAt"`
}

// FunctionalObserver provides a simple way to create observers using functions.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event Event) error
}

// NewFunctionalObserver creates a new observer that uses the provided function
// to handle events.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event Event) error) Observer {
	return &FunctionalObserver{
		id:      id,
		handler: handler,
	}
}

func (f *FunctionalObserver) OnEvent(ctx context.Context, event Event) error {
	return f.handler(ctx, event)
}

func (f *FunctionalObserver) ObserverID() string {
	return f.id
}

// observerRegistration holds information about a registered observer
type observerRegistration struct {
	observer     Observer
	eventTypes   map[EventType]bool
	registeredAt time.Time
}

// subject is the observer list owned by an App or a Module.
type subject struct {
	kind      SourceKind
	source    string
	logger    Logger
	observers []*observerRegistration
}

// RegisterObserver adds an observer. If eventTypes is empty the observer
// receives every event, otherwise only the listed ones.
func (s *subject) RegisterObserver(observer Observer, eventTypes ...EventType) error {
	if observer == nil {
		return ErrNilObserver
	}

	eventTypeMap := make(map[EventType]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		eventTypeMap[eventType] = true
	}
	registration := &observerRegistration{
		observer:     observer,
		eventTypes:   eventTypeMap,
		registeredAt: time.Now(),
	}

	for i, existing := range s.observers {
		if existing.observer.ObserverID() == observer.ObserverID() {
			s.observers[i] = registration
			return nil
		}
	}
	s.observers = append(s.observers, registration)
	s.logger.Debug("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	return nil
}

// UnregisterObserver removes an observer. It is a no-op for unknown observers.
func (s *subject) UnregisterObserver(observer Observer) error {
	if observer == nil {
		return ErrNilObserver
	}
	s.observers = slices.DeleteFunc(s.observers, func(r *observerRegistration) bool {
		return r.observer.ObserverID() == observer.ObserverID()
	})
	return nil
}

// GetObservers returns the registered observers in notification order.
func (s *subject) GetObservers() []ObserverInfo {
	info := make([]ObserverInfo, 0, len(s.observers))
	for _, registration := range s.observers {
		eventTypes := make([]EventType, 0, len(registration.eventTypes))
		for eventType := range registration.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}
		slices.Sort(eventTypes)

		info = append(info, ObserverInfo{
			ID:           registration.observer.ObserverID(),
			EventTypes:   eventTypes,
			RegisteredAt: registration.registeredAt,
		})
	}
	return info
}

func (s *subject) emit(ctx context.Context, eventType EventType) {
	event := Event{
		ID:     newUUID(),
		Type:   eventType,
		Kind:   s.kind,
		Source: s.source,
		Phase:  string(eventType),
		Time:   time.Now(),
	}

	// Observers may unregister themselves while being notified.
	for _, registration := range slices.Clone(s.observers) {
		if len(registration.eventTypes) > 0 && !registration.eventTypes[eventType] {
			continue
		}
		s.deliver(ctx, registration.observer, event)
	}
}

func (s *subject) deliver(ctx context.Context, observer Observer, event Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Observer panicked", "observerID", observer.ObserverID(), "event", event.Type, "panic", r)
		}
	}()

	if err := observer.OnEvent(ctx, event); err != nil {
		s.logger.Error("Observer error", "observerID", observer.ObserverID(), "event", event.Type, "error", err)
	}
}
