package repository

import (
	"context"

	"github.com/bianca-8/reload-rage/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// IncrementViewCount bumps the user's counter by one as a single relative
	// update, so concurrent visits never lose increments.
	IncrementViewCount(ctx context.Context, userID int64) error
	// TopByViewCount returns up to limit users ordered by view_count descending,
	// ties broken by ascending id so the order is deterministic.
	TopByViewCount(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	SumViewCounts(ctx context.Context) (int64, error)
}

type StatsRepository interface {
	// IncrementAnonymousViews bumps the singleton anonymous counter by one,
	// same relative-update discipline as user counters.
	IncrementAnonymousViews(ctx context.Context) error
	AnonymousViews(ctx context.Context) (int64, error)
}
