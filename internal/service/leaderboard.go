package service

import (
	"context"
	"fmt"

	"github.com/bianca-8/reload-rage/internal/model"
	"github.com/bianca-8/reload-rage/internal/repository"
)

// LeaderboardService answers the read-only stats queries
type LeaderboardService struct {
	users repository.UserRepository
	stats repository.StatsRepository
}

func NewLeaderboardService(users repository.UserRepository, stats repository.StatsRepository) *LeaderboardService {
	return &LeaderboardService{
		users: users,
		stats: stats,
	}
}

// TopUsers returns up to n users ordered by view count descending, ties
// broken by user id. n <= 0 falls back to the default leaderboard size.
func (s *LeaderboardService) TopUsers(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	if n <= 0 {
		n = model.DefaultLeaderboardSize
	}
	return s.users.TopByViewCount(ctx, n)
}

// UserStats returns a single user's leaderboard row.
func (s *LeaderboardService) UserStats(ctx context.Context, userID int64) (*model.LeaderboardEntry, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.LeaderboardEntry{
		Username:  user.Username,
		ViewCount: user.ViewCount,
	}, nil
}

// TotalViews is the sum of every user's view count plus the anonymous
// counter, computed on demand and never stored.
func (s *LeaderboardService) TotalViews(ctx context.Context) (int64, error) {
	userViews, err := s.users.SumViewCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to sum user views: %w", err)
	}

	anonViews, err := s.stats.AnonymousViews(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read anonymous views: %w", err)
	}

	return userViews + anonViews, nil
}
