package mock

import (
	"context"

	"github.com/fwojciec/leadbook"
)

var _ leadbook.BusinessService = (*BusinessService)(nil)

// BusinessService is a mock implementation of leadbook.BusinessService.
type BusinessService struct {
	CreateBusinessFn   func(ctx context.Context, business *leadbook.Business) error
	EnsureBusinessFn   func(ctx context.Context, business *leadbook.Business) (bool, error)
	FindBusinessByIDFn func(ctx context.Context, id string) (*leadbook.Business, error)
	FindBusinessesFn   func(ctx context.Context, filter leadbook.BusinessFilter) ([]*leadbook.Business, error)
	UpdateBusinessFn   func(ctx context.Context, id string, upd leadbook.BusinessUpdate) (*leadbook.Business, error)
	DeleteBusinessFn   func(ctx context.Context, id string) error
}

func (s *BusinessService) CreateBusiness(ctx context.Context, business *leadbook.Business) error {
	return s.CreateBusinessFn(ctx, business)
}

func (s *BusinessService) EnsureBusiness(ctx context.Context, business *leadbook.Business) (bool, error) {
	return s.EnsureBusinessFn(ctx, business)
}

func (s *BusinessService) FindBusinessByID(ctx context.Context, id string) (*leadbook.Business, error) {
	return s.FindBusinessByIDFn(ctx, id)
}

func (s *BusinessService) FindBusinesses(ctx context.Context, filter leadbook.BusinessFilter) ([]*leadbook.Business, error) {
	return s.FindBusinessesFn(ctx, filter)
}

func (s *BusinessService) UpdateBusiness(ctx context.Context, id string, upd leadbook.BusinessUpdate) (*leadbook.Business, error) {
	return s.UpdateBusinessFn(ctx, id, upd)
}

func (s *BusinessService) DeleteBusiness(ctx context.Context, id string) error {
	return s.DeleteBusinessFn(ctx, id)
}
