package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-lms/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Sink matches the go-users activity sink contract.
type Sink interface {
	Log(ctx context.Context, record usertypes.ActivityRecord) error
}

// Hook adapts LMS activity events into go-users activity records.
type Hook struct {
	Sink Sink
}

// Notify converts the event and forwards it to the configured sink. Events
// without a verb or a sink are dropped silently.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}

	record := usertypes.ActivityRecord{
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		OccurredAt: event.OccurredAt,
	}

	record.ActorID = parseUUID(event.ActorID)
	record.UserID = parseUUID(event.UserID)
	record.TenantID = parseUUID(event.TenantID)

	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if code := strings.TrimSpace(event.DefinitionCode); code != "" {
		data["definition_code"] = code
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = event.Recipients
	}
	if len(data) > 0 {
		record.Data = data
	}

	return h.Sink.Log(ctx, record)
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
