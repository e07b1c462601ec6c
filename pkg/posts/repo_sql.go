package posts

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PostsRepoSQL struct {
	db *sql.DB
}

func NewPostsRepoSQL(db *sql.DB) *PostsRepoSQL {
	return &PostsRepoSQL{db: db}
}

func (repo *PostsRepoSQL) Add(ctx context.Context, p *Post) (string, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := "INSERT INTO posts (id, author_id, text, created_at) VALUES (?, ?, ?, ?)"
	_, err := repo.db.ExecContext(ctx, query, p.ID, p.AuthorID, p.Text, p.Created.UnixNano())
	if err != nil {
		return "", err
	}

	return p.ID, nil
}

// GetFeed returns at most limit posts, most recent first, with the vote
// aggregates the client displays.
func (repo *PostsRepoSQL) GetFeed(ctx context.Context, limit int) ([]*FeedItem, error) {
	query := `SELECT p.id, u.username, p.text, p.created_at,
		COALESCE(SUM(v.value), 0), COUNT(v.user_id)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN votes v ON v.post_id = p.id
		GROUP BY p.id, u.username, p.text, p.created_at
		ORDER BY p.created_at DESC
		LIMIT ?`

	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*FeedItem, 0, limit)
	for rows.Next() {
		item := &FeedItem{}
		var createdNanos int64
		err := rows.Scan(&item.ID, &item.Author, &item.Text, &createdNanos, &item.AuraSum, &item.VotesCount)
		if err != nil {
			return nil, err
		}
		item.Created = time.Unix(0, createdNanos).UTC()
		result = append(result, item)
	}

	return result, rows.Err()
}

// Vote records value for (postID, userID), overwriting any previous vote by
// the same user on the same post.
func (repo *PostsRepoSQL) Vote(ctx context.Context, postID string, userID int64, value int) error {
	if !ValidMagnitude(value) {
		return ErrBadValue
	}

	var exists int
	err := repo.db.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id = ?", postID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	query := `INSERT INTO votes (post_id, user_id, value) VALUES (?, ?, ?)
		ON CONFLICT (post_id, user_id) DO UPDATE SET value = excluded.value`
	_, err = repo.db.ExecContext(ctx, query, postID, userID, value)

	return err
}

// AuraTotal is the sum of all votes cast on the user's posts.
func (repo *PostsRepoSQL) AuraTotal(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COALESCE(SUM(v.value), 0)
		FROM votes v
		JOIN posts p ON p.id = v.post_id
		WHERE p.author_id = ?`

	var total int
	err := repo.db.QueryRowContext(ctx, query, userID).Scan(&total)

	return total, err
}

// Streak counts consecutive days with at least one post by the user,
// walking back from today. A streak that ended yesterday still counts; one
// that ended earlier is over.
func (repo *PostsRepoSQL) Streak(ctx context.Context, userID int64) (int, error) {
	query := `SELECT DISTINCT date(created_at / 1000000000, 'unixepoch') AS day
		FROM posts WHERE author_id = ? ORDER BY day DESC`

	rows, err := repo.db.QueryContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	days := make([]string, 0)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return 0, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	return countStreak(days, time.Now().UTC()), nil
}

const dayFormat = "2006-01-02"

func countStreak(days []string, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	expect := now
	if days[0] != expect.Format(dayFormat) {
		expect = expect.AddDate(0, 0, -1)
	}

	streak := 0
	for _, day := range days {
		if day != expect.Format(dayFormat) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}

	return streak
}
