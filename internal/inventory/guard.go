package inventory

import (
	"context"
	"fmt"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

// Admission is the result of a capacity check.
type Admission struct {
	Allowed    bool `json:"allowed"`
	Admissible int  `json:"admissible"`
	Current    int  `json:"current"`
	Capacity   int  `json:"capacity"`
}

// Guard checks the per-user capacity limit. It never writes.
type Guard struct {
	repo     repository.Inventory
	capacity int
}

// NewGuard creates a capacity guard. A non-positive capacity uses domain.DefaultInventoryCapacity.
func NewGuard(repo repository.Inventory, capacity int) *Guard {
	if capacity <= 0 {
		capacity = domain.DefaultInventoryCapacity
	}
	return &Guard{repo: repo, capacity: capacity}
}

// Capacity returns the configured limit.
func (g *Guard) Capacity() int {
	return g.capacity
}

// CanAdmit reports how many of count new items fit. Allowed means all of them do.
func (g *Guard) CanAdmit(ctx context.Context, userID string, count int) (Admission, error) {
	current, err := g.repo.CountItems(ctx, userID)
	if err != nil {
		return Admission{}, fmt.Errorf("%s: %w", ErrContextFailedToCountItems, err)
	}

	free := g.capacity - current
	if free < 0 {
		free = 0
	}
	admissible := count
	if admissible > free {
		admissible = free
	}
	if admissible < 0 {
		admissible = 0
	}

	adm := Admission{
		Allowed:    admissible == count,
		Admissible: admissible,
		Current:    current,
		Capacity:   g.capacity,
	}
	if !adm.Allowed {
		logger.FromContext(ctx).Debug(LogMsgCapacityRejected, "user_id", userID, "requested", count, "admissible", admissible, "current", current)
	}
	return adm, nil
}
