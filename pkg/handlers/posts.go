package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aura/pkg/posts"
	"aura/pkg/session"

	"go.uber.org/zap"
)

// MaxFeedLimit bounds the page size; the client requests exactly this.
const MaxFeedLimit = 50

const maxPostLength = 500

type PostHandler struct {
	Sm        session.SessionManager
	PostsRepo PostsRepo
	Logger    *zap.SugaredLogger
}

type PostsRepo interface {
	Add(ctx context.Context, p *posts.Post) (string, error)
	GetFeed(ctx context.Context, limit int) ([]*posts.FeedItem, error)
	Vote(ctx context.Context, postID string, userID int64, value int) error
	AuraTotal(ctx context.Context, userID int64) (int, error)
	Streak(ctx context.Context, userID int64) (int, error)
}

type PostResponse struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	AuraSum    int       `json:"aura_sum"`
	VotesCount int       `json:"votes_count"`
}

type FeedResponse struct {
	Posts []*PostResponse `json:"posts"`
}

type CreatePostReq struct {
	Text *string `json:"text"`
}

type VoteReq struct {
	PostID *string `json:"post_id"`
	Value  *int    `json:"value"`
}

func (h *PostHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetFeed serves GET /api/posts?limit=N, most recent first.
func (h *PostHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	limit := MaxFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, http.StatusBadRequest, "bad_limit", "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	items, err := h.PostsRepo.GetFeed(ctx, limit)
	if err != nil {
		h.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	resp := &FeedResponse{Posts: make([]*PostResponse, 0, len(items))}
	for _, item := range items {
		resp.Posts = append(resp.Posts, &PostResponse{
			ID:         item.ID,
			Author:     item.Author,
			Text:       item.Text,
			CreatedAt:  item.Created,
			AuraSum:    item.AuraSum,
			VotesCount: item.VotesCount,
		})
	}

	WriteJSON(w, http.StatusOK, resp)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	var req CreatePostReq
	if err := json.Unmarshal(body, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "body must be JSON")
		return
	}

	text := &Validator{value: req.Text, field: "text"}
	textErr := func() *FieldError {
		err := text.Required()
		if err != nil {
			return err
		}
		err = text.Custom(func(value string) bool {
			return strings.TrimSpace(value) != ""
		}, "cannot be blank")
		if err != nil {
			return err
		}
		return text.MaxLength(maxPostLength)
	}()
	if textErr != nil {
		writeValidationErrors(w, []*FieldError{textErr})
		return
	}

	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	id, err := h.PostsRepo.Add(ctx, &posts.Post{
		AuthorID: sess.User.ID,
		Text:     strings.TrimSpace(*req.Text),
		Created:  time.Now(),
	})
	if err != nil {
		h.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Vote records one vote and nothing else; the client refetches the feed to
// see the effect.
func (h *PostHandler) Vote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	var req VoteReq
	if err := json.Unmarshal(body, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "body must be JSON")
		return
	}

	if req.PostID == nil || req.Value == nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "post_id and value are required")
		return
	}

	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err = h.PostsRepo.Vote(ctx, *req.PostID, sess.User.ID, *req.Value)
	switch {
	case errors.Is(err, posts.ErrBadValue):
		WriteError(w, http.StatusUnprocessableEntity, "invalid_value",
			"value must be one of -10, -5, -1, 1, 5, 10, 50")
	case errors.Is(err, posts.ErrNotFound):
		WriteError(w, http.StatusNotFound, "post_not_found", "")
	case err != nil:
		h.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
	default:
		WriteJSON(w, http.StatusOK, struct{}{})
	}
}
