package feed

import (
	"context"
	"strconv"

	"aura/pkg/dom"
)

// onVoteClick is the delegated handler bound to each card's vote bar. It
// resolves the button the user actually hit, submits the vote, and on
// success resynchronizes the whole feed from the server. On failure the
// displayed feed stays untouched.
func (r *Renderer) onVoteClick(ev *dom.Event) {
	btn := ev.Target.Closest("button", "vote-btn")
	if btn == nil {
		return
	}

	postID := btn.Attr("data-id")
	value, err := strconv.Atoi(btn.Attr("data-val"))
	if err != nil {
		r.Logger.Errorw("vote button carries bad value", "post_id", postID, "raw", btn.Attr("data-val"))
		return
	}

	r.SubmitVote(context.Background(), postID, value)
}

// SubmitVote casts a single vote and, when the server accepts it, refetches
// the feed so the displayed aura never drifts from server truth. There is
// no retry and no debounce: a double click is two independent votes.
func (r *Renderer) SubmitVote(ctx context.Context, postID string, value int) {
	if err := r.API.Vote(ctx, postID, value); err != nil {
		r.Logger.Warnw("vote rejected", "post_id", postID, "value", value, "error", err)
		r.notify("Vote failed: " + err.Error())
		return
	}

	r.LoadFeed(ctx)
}
