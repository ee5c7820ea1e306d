package postgres_test

import (
	"context"
	"testing"

	"github.com/fwojciec/leadbook"
	"github.com/fwojciec/leadbook/postgres"
	"github.com/stretchr/testify/assert"
)

func TestDB_Unavailable(t *testing.T) {
	t.Parallel()

	// Services on a DB that was never opened report an unreachable store.
	db := postgres.NewDB("postgres://localhost/leadbook")
	businesses := postgres.NewBusinessService(db)
	tracking := postgres.NewTrackingService(db)
	ctx := context.Background()

	err := businesses.CreateBusiness(ctx, &leadbook.Business{Name: "Offline"})
	assert.Equal(t, leadbook.EUNAVAILABLE, leadbook.ErrorCode(err))

	_, err = businesses.FindBusinesses(ctx, leadbook.BusinessFilter{})
	assert.Equal(t, leadbook.EUNAVAILABLE, leadbook.ErrorCode(err))

	_, err = tracking.FindAllTracking(ctx)
	assert.Equal(t, leadbook.EUNAVAILABLE, leadbook.ErrorCode(err))

	err = businesses.DeleteBusiness(ctx, "search-1")
	assert.Equal(t, leadbook.EINVALID, leadbook.ErrorCode(err), "ephemeral IDs are rejected before the store is touched")
}
