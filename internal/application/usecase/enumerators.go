package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
	"github.com/diillson/aws-reservation-audit/internal/domain/repository"
	"github.com/diillson/aws-reservation-audit/internal/shared/types"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

const day = 24 * time.Hour

// ListRunning counts the instances of one region matching stateFilter that
// have existed for at least ageFilterDays days, grouped by zone and type.
// Records without an ID are ignored. An ageFilterDays of 0 disables the age check.
func ListRunning(
	ctx context.Context,
	conn repository.RegionConnection,
	ageFilterDays int,
	stateFilter string,
	now Clock,
) (entity.Tally, error) {
	if stateFilter == "" {
		stateFilter = entity.InstanceStateRunning
	}
	if now == nil {
		now = time.Now
	}

	instances, err := conn.ListInstances(ctx, stateFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: instances in %s: %w", types.ErrQuery, conn.Region(), err)
	}

	cutoff := now().Add(-time.Duration(ageFilterDays) * day)

	tally := entity.NewTally()
	for _, instance := range instances {
		if !oldEnough(instance, ageFilterDays, cutoff) {
			continue
		}
		tally.Add(instance.Zone, instance.InstanceType, 1)
	}
	return tally, nil
}

func oldEnough(instance entity.Instance, ageFilterDays int, cutoff time.Time) bool {
	if instance.ID == "" {
		return false
	}
	if ageFilterDays == 0 {
		return true
	}
	// an unknown launch time never satisfies an age filter
	if instance.LaunchTime.IsZero() {
		return false
	}
	// launched strictly before the cutoff
	return instance.LaunchTime.Before(cutoff)
}

// ListReservations sums the purchased instance count of the active
// reservations of one region, grouped by zone and type. A non-empty
// offeringType keeps only reservations with exactly that offering type.
func ListReservations(
	ctx context.Context,
	conn repository.RegionConnection,
	offeringType string,
) (entity.Tally, error) {
	reservations, err := conn.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reservations in %s: %w", types.ErrQuery, conn.Region(), err)
	}

	tally := entity.NewTally()
	for _, reservation := range reservations {
		if !reservation.IsActive() {
			continue
		}
		if offeringType != "" && reservation.OfferingType != offeringType {
			continue
		}
		tally.Add(reservation.Zone, reservation.InstanceType, reservation.InstanceCount)
	}
	return tally, nil
}
