package services

import (
	"context"

	"github.com/yungbote/solbot-backend/internal/storage"
)

// RecordGateway is the slice of *storage.Gateway the services depend on.
type RecordGateway interface {
	Put(ctx context.Context, rec *storage.Record) (storage.Outcome, error)
	Get(ctx context.Context, f storage.Filter) []*storage.Record
	Lookup(ctx context.Context, f storage.Filter) ([]*storage.Record, error)
}

var _ RecordGateway = (*storage.Gateway)(nil)
