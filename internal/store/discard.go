package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

// Discard is a Store that accepts every batch and keeps nothing. It backs
// dry runs.
type Discard struct{}

// InsertMany logs the batch size and returns no ids.
func (Discard) InsertMany(_ context.Context, _ []string, records []model.Record) ([]string, error) {
	zap.L().Info("dry run, discarding records", zap.Int("count", len(records)))
	return []string{}, nil
}

// Close is a no-op.
func (Discard) Close() error { return nil }

// DiscardOpener returns an Opener yielding Discard.
func DiscardOpener() Opener {
	return func(context.Context) (Store, error) { return Discard{}, nil }
}
