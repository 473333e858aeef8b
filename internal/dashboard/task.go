package dashboard

import (
	"context"
	"time"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// fetchTask is one dispatched weather fetch.
type fetchTask struct {
	ID        string
	Seq       uint64
	Target    location.Target
	RequestID string
	StartedAt time.Time
}

func newFetchTask(ctx context.Context, target location.Target) *fetchTask {
	requestID := ""
	if reqID := ctx.Value(RequestIDKey); reqID != nil {
		if id, ok := reqID.(string); ok {
			requestID = id
		}
	}

	return &fetchTask{
		ID:        uuid.New().String(),
		Target:    target,
		RequestID: requestID,
		StartedAt: time.Now(),
	}
}

func (t *fetchTask) fields() []zap.Field {
	fields := []zap.Field{
		zap.String("task_id", t.ID),
		zap.Uint64("seq", t.Seq),
		zap.Float64("lat", t.Target.Latitude),
		zap.Float64("lon", t.Target.Longitude),
	}
	if t.Target.Name != "" {
		fields = append(fields, zap.String("name", t.Target.Name))
	}
	if t.RequestID != "" {
		fields = append(fields, zap.String("request_id", t.RequestID))
	}
	return fields
}

func (t *fetchTask) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("task_id", t.ID),
		attribute.Int64("seq", int64(t.Seq)),
		attribute.Float64("lat", t.Target.Latitude),
		attribute.Float64("lon", t.Target.Longitude),
		attribute.String("request.id", t.RequestID),
	}
}
