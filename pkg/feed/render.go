package feed

import (
	"context"
	"fmt"

	"aura/pkg/api"
	"aura/pkg/dom"

	"go.uber.org/zap"
)

const DefaultLimit = 50

// API is the slice of the transport layer the feed engine needs.
type API interface {
	Feed(ctx context.Context, limit int) ([]*api.Post, error)
	Vote(ctx context.Context, postID string, value int) error
}

// Renderer owns the feed container. Every refresh replaces the container's
// content wholesale, so the view always reflects one fully-fetched server
// state and listeners never outlive the nodes they were bound to.
type Renderer struct {
	Container *dom.Element
	API       API
	Logger    *zap.SugaredLogger
	Limit     int
	Notify    func(msg string)
}

func (r *Renderer) limit() int {
	if r.Limit > 0 {
		return r.Limit
	}
	return DefaultLimit
}

func (r *Renderer) notify(msg string) {
	if r.Notify != nil {
		r.Notify(msg)
	}
}

// LoadFeed fetches the current feed and re-renders it. On a failed fetch the
// container holds a single error node instead of cards.
func (r *Renderer) LoadFeed(ctx context.Context) {
	posts, err := r.API.Feed(ctx, r.limit())
	if err != nil {
		r.Logger.Errorw("feed fetch failed", "error", err)
		r.RenderError(err)
		return
	}
	r.RenderFeed(posts)
}

// RenderFeed replaces the container with one card per post, in the given
// order.
func (r *Renderer) RenderFeed(posts []*api.Post) {
	if len(posts) == 0 {
		r.Container.ReplaceChildren(dom.H("p", dom.Attrs{"class": "muted"}, "No posts yet."))
		return
	}

	cards := make([]*dom.Element, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, r.renderPost(p))
	}
	r.Container.ReplaceChildren(cards...)
}

// RenderError replaces the container with a single failure node; no cards
// survive, the view is never half valid.
func (r *Renderer) RenderError(err error) {
	r.Container.ReplaceChildren(
		dom.H("p", dom.Attrs{"class": "muted"}, "Failed to load feed: "+err.Error()),
	)
}

func (r *Renderer) renderPost(p *api.Post) *dom.Element {
	header := dom.H("div", dom.Attrs{"class": "row"},
		dom.H("strong", nil, "@"+p.Author),
		dom.H("span", dom.Attrs{"class": "muted"}, p.CreatedAt.Local().Format("2006-01-02 15:04")),
	)
	body := dom.H("p", nil, p.Text)
	aura := dom.H("div", dom.Attrs{"class": "muted"},
		fmt.Sprintf("Aura: %d  •  Votes: %d", p.AuraSum, p.VotesCount))

	bar := dom.H("div", dom.Attrs{"class": "vote-bar"})
	for _, v := range api.Magnitudes {
		bar.AppendChild(dom.H("button", dom.Attrs{
			"class":    "vote-btn",
			"data-id":  p.ID,
			"data-val": fmt.Sprintf("%d", v),
		}, fmt.Sprintf("%+d", v)))
	}

	// one listener per card, delegated over the whole vote bar
	bar.On("click", r.onVoteClick)

	return dom.H("div", dom.Attrs{"class": "post"}, header, body, aura, bar)
}
