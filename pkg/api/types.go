package api

import "time"

// Post is what the feed endpoint returns. AuraSum and VotesCount are
// server-computed; the client never derives them locally.
type Post struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	AuraSum    int       `json:"aura_sum"`
	VotesCount int       `json:"votes_count"`
}

type User struct {
	Username  string `json:"username"`
	AuraTotal int    `json:"aura_total"`
	Streak    int    `json:"streak"`
}

type feedResponse struct {
	Posts []*Post `json:"posts"`
}

type meResponse struct {
	User *User `json:"user"`
}

// Magnitudes is the fixed set of vote values a user may cast, in the order
// the vote bar renders them.
var Magnitudes = []int{-10, -5, -1, 1, 5, 10, 50}

// ValidMagnitude reports whether v is one of the seven allowed vote values.
func ValidMagnitude(v int) bool {
	for _, m := range Magnitudes {
		if v == m {
			return true
		}
	}
	return false
}
