package modkit

import (
	"context"
	"fmt"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// NewCloudEventClientObserver creates an observer that sends every lifecycle
// event through a CloudEvents client, e.g. one built with
// cloudevents.NewClientHTTP. A send that is not acknowledged is reported as
// an observer error.
func NewCloudEventClientObserver(id string, client cloudevents.Client) *CloudEventObserver {
	return NewCloudEventObserver(id, func(ctx context.Context, event cloudevents.Event) error {
		result := client.Send(ctx, event)
		if !cloudevents.IsACK(result) {
			return fmt.Errorf("%w: %s: %w", ErrCloudEventNotAccepted, event.Type(), result)
		}
		return nil
	})
}
