// Package sweeper runs the background job that expires unpaid
// reservations once their payment window has passed.
package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/region"
	queue_publisher "github.com/iliyamo/cinema-ticketing/internal/service"
)

// Sweeper periodically expires pending reservations older than TTL in
// every region.  Each sweep is a single transaction per region, so a
// reservation is either fully expired with its seats released or left
// untouched for the next tick.
type Sweeper struct {
	Regions  *region.Registry
	TTL      time.Duration
	Interval time.Duration
}

// New constructs a Sweeper.
func New(regions *region.Registry, ttl, interval time.Duration) *Sweeper {
	return &Sweeper{Regions: regions, TTL: ttl, Interval: interval}
}

// Run ticks until the context is cancelled.  One failed region does not
// stop the others; the expiry simply happens on a later tick, which is
// safe because the sweep is idempotent.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepAll(ctx)
		}
	}
}

// cutoff returns the instant separating still-payable reservations from
// expired ones: anything created at or before it has outlived the TTL.
func (s *Sweeper) cutoff(now time.Time) time.Time {
	return now.UTC().Add(-s.TTL)
}

func (s *Sweeper) sweepAll(ctx context.Context) {
	cutoff := s.cutoff(time.Now())
	for _, ds := range s.Regions.All() {
		expired, err := ds.Reservations.SweepExpired(ctx, cutoff)
		if err != nil {
			log.Printf("sweeper: region %s sweep failed: %v", ds.Name, err)
			continue
		}
		if len(expired) == 0 {
			continue
		}
		log.Printf("sweeper: region %s expired %d reservation(s)", ds.Name, len(expired))
		now := time.Now().UTC().Format(time.RFC3339)
		for _, e := range expired {
			ev := queue.ReservationExpiredEvent{
				Region:        ds.Name,
				ReservationID: e.ID,
				Code:          e.Code,
				UserID:        e.UserID,
				ShowID:        e.ShowID,
				SeatIDs:       e.SeatIDs,
				ExpiredAt:     now,
			}
			// Publish best-effort; the expiry already committed.
			if err := queue_publisher.PublishReservationExpired(ctx, ev); err != nil {
				log.Printf("sweeper: reservation.expired publish failed: %v", err)
			}
		}
	}
}
