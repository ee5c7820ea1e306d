package mock

import (
	"context"

	"github.com/fwojciec/leadbook"
)

var _ leadbook.ExportStore = (*ExportStore)(nil)

// ExportStore is a mock implementation of leadbook.ExportStore.
type ExportStore struct {
	PutExportFn func(ctx context.Context, bucket, key string, body []byte) error
}

func (s *ExportStore) PutExport(ctx context.Context, bucket, key string, body []byte) error {
	return s.PutExportFn(ctx, bucket, key, body)
}
