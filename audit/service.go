// api/audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	Record(ctx context.Context, event Event) error
	QueryEvents(ctx context.Context, from, to time.Time, actor, objectID string) ([]Event, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return s.repo.Record(ctx, event)
}

func (s *service) QueryEvents(ctx context.Context, from, to time.Time, actor, objectID string) ([]Event, error) {
	return s.repo.QueryEvents(ctx, from, to, actor, objectID)
}
