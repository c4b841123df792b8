package service

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/bianca-8/reload-rage/internal/repository"
)

// ViewService records home-page visits. Authenticated visits bump the user's
// counter, anonymous visits bump the shared counter; both are single relative
// updates in the store.
type ViewService struct {
	users repository.UserRepository
	stats repository.StatsRepository
	board *LeaderboardService
	log   zerolog.Logger

	// lastTotal is only a fallback for rendering when the store is down; the
	// real total is always recomputed from the store.
	lastTotal atomic.Int64
}

func NewViewService(users repository.UserRepository, stats repository.StatsRepository, board *LeaderboardService, log zerolog.Logger) *ViewService {
	return &ViewService{
		users: users,
		stats: stats,
		board: board,
		log:   log,
	}
}

// RecordVisit counts one visit and returns the current aggregate total of all
// views. The path fails open: if the store rejects the increment the visit is
// simply not counted, and if the total cannot be read the last known total is
// returned, so the page always renders.
func (s *ViewService) RecordVisit(ctx context.Context, userID *int64) int64 {
	var err error
	if userID != nil {
		err = s.users.IncrementViewCount(ctx, *userID)
	} else {
		err = s.stats.IncrementAnonymousViews(ctx)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("visit not counted")
	}

	total, err := s.board.TotalViews(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to compute total views")
		return s.lastTotal.Load()
	}

	s.lastTotal.Store(total)
	return total
}
