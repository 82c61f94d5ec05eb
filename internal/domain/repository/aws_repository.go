package repository

import (
	"context"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
)

// EC2Repository opens read-only EC2 connections for an account.
type EC2Repository interface {
	// Connect returns a handle bound to one account and region, or fails
	// when the credentials or region cannot be used.
	Connect(ctx context.Context, account entity.Account, region string) (RegionConnection, error)
}

// RegionConnection queries one region of one account.
type RegionConnection interface {
	Region() string
	// AccountID is the numeric account ID resolved when the connection was
	// established. It may be empty.
	AccountID() string

	// ListInstances returns every instance whose state matches stateFilter.
	ListInstances(ctx context.Context, stateFilter string) ([]entity.Instance, error)
	// ListReservations returns every Reserved Instance purchase, in any state.
	ListReservations(ctx context.Context) ([]entity.Reservation, error)
}
