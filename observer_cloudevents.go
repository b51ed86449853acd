package modkit

import (
	"context"
	"fmt"
	"strings"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEventTypePrefix prefixes the type of every CloudEvent built from a lifecycle Event.
const CloudEventTypePrefix = "com.modkit"

// CloudEventType returns the CloudEvents type for an event, e.g.
// "com.modkit.module.enabled".
func (e Event) CloudEventType() string {
	return fmt.Sprintf("%s.%s.%s", CloudEventTypePrefix, e.Kind, e.Type)
}

// CloudEvent converts the event to a CloudEvents v1 event. The data carries
// the phase payload.
func (e Event) CloudEvent() (cloudevents.Event, error) {
	event := cloudevents.NewEvent()
	event.SetID(e.ID)
	event.SetSource(fmt.Sprintf("%s/%s", e.Kind, e.Source))
	event.SetType(e.CloudEventType())
	event.SetTime(e.Time)
	event.SetSpecVersion(cloudevents.VersionV1)
	if err := event.SetData(cloudevents.ApplicationJSON, cloudEventData{Phase: e.Phase}); err != nil {
		return event, fmt.Errorf("failed to encode %s event data: %w", e.Type, err)
	}
	return event, nil
}

type cloudEventData struct {
	Phase string `json:"phase"`
}

// EventFromCloudEvent converts a CloudEvent built by Event.CloudEvent back
// into a lifecycle event.
func EventFromCloudEvent(ce cloudevents.Event) (Event, error) {
	if err := ValidateCloudEvent(ce); err != nil {
		return Event{}, err
	}
	rest, ok := strings.CutPrefix(ce.Type(), CloudEventTypePrefix+".")
	if !ok {
		return Event{}, fmt.Errorf("%w: type %q", ErrForeignCloudEvent, ce.Type())
	}
	kind, eventType, ok := strings.Cut(rest, ".")
	if !ok || (SourceKind(kind) != SourceApp && SourceKind(kind) != SourceModule) {
		return Event{}, fmt.Errorf("%w: type %q", ErrForeignCloudEvent, ce.Type())
	}
	sourceKind, source, ok := strings.Cut(ce.Source(), "/")
	if !ok || sourceKind != kind {
		return Event{}, fmt.Errorf("%w: source %q", ErrForeignCloudEvent, ce.Source())
	}

	var data cloudEventData
	if err := ce.DataAs(&data); err != nil {
		return Event{}, fmt.Errorf("failed to decode %s data: %w", ce.Type(), err)
	}
	return Event{
		ID:     ce.ID(),
		Type:   EventType(eventType),
		Kind:   SourceKind(kind),
		Source: source,
		Phase:  data.Phase,
		Time:   ce.Time(),
	}, nil
}

// newUUID generates a unique identifier using UUIDv7.
// UUIDv7 includes timestamp information which provides time-ordered uniqueness.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails for any reason
		id = uuid.New()
	}
	return id.String()
}

// ValidateCloudEvent checks that a CloudEvent has every required attribute.
func ValidateCloudEvent(event cloudevents.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("CloudEvent validation failed: %w", err)
	}
	return nil
}

// CloudEventObserver forwards lifecycle events as CloudEvents.
type CloudEventObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewCloudEventObserver creates an observer that converts every lifecycle
// event to a CloudEvent and passes it to handler.
func NewCloudEventObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) *CloudEventObserver {
	return &CloudEventObserver{id: id, handler: handler}
}

func (o *CloudEventObserver) OnEvent(ctx context.Context, event Event) error {
	ce, err := event.CloudEvent()
	if err != nil {
		return err
	}
	if err := ValidateCloudEvent(ce); err != nil {
		return err
	}
	return o.handler(ctx, ce)
}

func (o *CloudEventObserver) ObserverID() string {
	return o.id
}
