package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
	"github.com/diillson/aws-reservation-audit/internal/domain/repository"
	"github.com/diillson/aws-reservation-audit/internal/shared/types"
)

// AccountSession holds one connection per configured region for a single
// account and aggregates the per-region tallies of that account.
type AccountSession struct {
	account     entity.Account
	accountID   string
	connections []repository.RegionConnection
	console     types.ConsoleInterface
	now         Clock
	skipped     []string
}

// SessionOption customises an AccountSession.
type SessionOption func(*AccountSession)

// WithClock sets the clock used by the age filter.
func WithClock(now Clock) SessionOption {
	return func(s *AccountSession) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAccountSession connects account to every region in order. The first
// connection failure is logged and returned wrapped in
// types.ErrSessionEstablishment; no session is returned in that case.
func NewAccountSession(
	ctx context.Context,
	repo repository.EC2Repository,
	console types.ConsoleInterface,
	account entity.Account,
	regions []string,
	opts ...SessionOption,
) (*AccountSession, error) {
	s := &AccountSession{
		account: account,
		console: console,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, region := range regions {
		conn, err := repo.Connect(ctx, account, region)
		if err != nil {
			console.LogError("EC2 connection failed to %s for account %s: %s", region, account.Name, err)
			return nil, fmt.Errorf("%w: account %s, region %s: %w", types.ErrSessionEstablishment, account.Name, region, err)
		}
		console.LogDebug("EC2 connection established: %s (%s)", region, account.Name)
		if s.accountID == "" {
			s.accountID = conn.AccountID()
		}
		s.connections = append(s.connections, conn)
	}

	return s, nil
}

// Account returns the account the session was built for.
func (s *AccountSession) Account() entity.Account {
	return s.account
}

// AccountID returns the numeric account ID reported by the first region, if any.
func (s *AccountSession) AccountID() string {
	return s.accountID
}

// Regions returns the connected regions in configuration order.
func (s *AccountSession) Regions() []string {
	regions := make([]string, 0, len(s.connections))
	for _, conn := range s.connections {
		regions = append(regions, conn.Region())
	}
	return regions
}

// SkippedRegions lists the region queries that failed, as "region (what)".
func (s *AccountSession) SkippedRegions() []string {
	out := make([]string, len(s.skipped))
	copy(out, s.skipped)
	return out
}

// Instances counts the instances of every region that match stateFilter and
// the age filter. Regions whose query fails are skipped.
func (s *AccountSession) Instances(ctx context.Context, ageFilterDays int, stateFilter string) entity.Tally {
	return s.collect(ctx, "instances", func(ctx context.Context, conn repository.RegionConnection) (entity.Tally, error) {
		return ListRunning(ctx, conn, ageFilterDays, stateFilter, s.now)
	})
}

// Reservations sums the active reservations of every region, optionally
// restricted to one offering type. Regions whose query fails are skipped.
func (s *AccountSession) Reservations(ctx context.Context, offeringType string) entity.Tally {
	return s.collect(ctx, "reservations", func(ctx context.Context, conn repository.RegionConnection) (entity.Tally, error) {
		return ListReservations(ctx, conn, offeringType)
	})
}

type regionQuery func(ctx context.Context, conn repository.RegionConnection) (entity.Tally, error)

// collect runs query against every region concurrently. Each region fills
// its own slot; the partial tallies are merged here once all have returned.
func (s *AccountSession) collect(ctx context.Context, what string, query regionQuery) entity.Tally {
	partials := make([]entity.Tally, len(s.connections))
	errs := make([]error, len(s.connections))

	var wg sync.WaitGroup
	for i, conn := range s.connections {
		wg.Add(1)
		go func(i int, conn repository.RegionConnection) {
			defer wg.Done()
			partials[i], errs[i] = query(ctx, conn)
		}(i, conn)
	}
	wg.Wait()

	result := entity.NewTally()
	for i, conn := range s.connections {
		if errs[i] != nil {
			s.console.LogWarning("%s: %s not listed for account %s, skipping region: %s", conn.Region(), what, s.account.Name, errs[i])
			s.skipped = append(s.skipped, fmt.Sprintf("%s (%s)", conn.Region(), what))
			continue
		}
		result = entity.Sum(result, partials[i])
	}
	return result
}
