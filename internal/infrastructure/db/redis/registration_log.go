package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

const (
	registrationStream = "analytics:registrations"
	registrationMaxLen = 100000
)

// RegistrationLog appends sign-up events to a capped Redis stream.
type RegistrationLog struct {
	client *redis.Client
}

func NewRegistrationLog(client *redis.Client) *RegistrationLog {
	return &RegistrationLog{client: client}
}

func (l *RegistrationLog) Append(ctx context.Context, ev domain.RegistrationEvent) error {
	err := l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: registrationStream,
		MaxLen: registrationMaxLen,
		Values: map[string]any{
			"uid":       ev.UID,
			"method":    ev.Method,
			"timestamp": ev.Timestamp.UTC().Format(time.RFC3339),
			"userAgent": ev.UserAgent,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("append registration: %w", err)
	}
	return nil
}

// Recent returns up to count events, newest first.
func (l *RegistrationLog) Recent(ctx context.Context, count int64) ([]domain.RegistrationEvent, error) {
	msgs, err := l.client.XRevRangeN(ctx, registrationStream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("read registrations: %w", err)
	}

	events := make([]domain.RegistrationEvent, 0, len(msgs))
	for _, m := range msgs {
		ev := domain.RegistrationEvent{
			UID:       str(m.Values["uid"]),
			Method:    str(m.Values["method"]),
			UserAgent: str(m.Values["userAgent"]),
		}
		if ts, err := time.Parse(time.RFC3339, str(m.Values["timestamp"])); err == nil {
			ev.Timestamp = ts
		}
		events = append(events, ev)
	}
	return events, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
