package posts

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("post not found")
	ErrBadValue = errors.New("invalid vote value")
)

// Magnitudes is the only set of vote values the server accepts. It matches
// the vote bar the client renders.
var Magnitudes = []int{-10, -5, -1, 1, 5, 10, 50}

func ValidMagnitude(v int) bool {
	for _, m := range Magnitudes {
		if v == m {
			return true
		}
	}
	return false
}

type Post struct {
	ID       string
	AuthorID int64
	Text     string
	Created  time.Time
}

// FeedItem is one feed row: a post joined with its author and vote
// aggregates. AuraSum is the sum of all vote values cast on the post.
type FeedItem struct {
	ID         string
	Author     string
	Text       string
	Created    time.Time
	AuraSum    int
	VotesCount int
}

// Schema stores created_at as unix nanoseconds so recency ordering never
// depends on timestamp string formats. A repeat vote by the same user on
// the same post overwrites the previous value.
const Schema = `CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	author_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS votes (
	post_id TEXT NOT NULL,
	user_id INTEGER NOT NULL,
	value INTEGER NOT NULL,
	PRIMARY KEY (post_id, user_id)
);`
