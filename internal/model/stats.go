package model

// GlobalStats is the singleton row that accumulates views from visitors
// without a session. Its ID is always 1.
type GlobalStats struct {
	ID             int64 `db:"id" json:"id"`
	AnonymousViews int64 `db:"anonymous_views" json:"anonymous_views"`
}

// GlobalStatsID is the fixed primary key of the singleton global_stats row.
const GlobalStatsID = 1

// LeaderboardEntry is one row of the public leaderboard. The same shape is
// used for a single user's stats, since a user's stats are exactly their
// leaderboard row.
type LeaderboardEntry struct {
	Username  string `db:"username" json:"username"`
	ViewCount int64  `db:"view_count" json:"view_count"`
}

// DefaultLeaderboardSize caps how many users the leaderboard returns.
const DefaultLeaderboardSize = 10
