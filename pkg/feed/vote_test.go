package feed

import (
	"strings"
	"testing"
	"time"

	"aura/pkg/api"
	"aura/pkg/dom"

	"github.com/golang/mock/gomock"
)

func voteButton(t *testing.T, container *dom.Element, postID, value string) *dom.Element {
	t.Helper()
	for _, btn := range container.FindAll("button", "vote-btn") {
		if btn.Attr("data-id") == postID && btn.Attr("data-val") == value {
			return btn
		}
	}
	t.Fatalf("no vote button for post %s value %s", postID, value)
	return nil
}

func TestVoteRoundTrip(t *testing.T) {
	r, mockAPI, ctrl := newTestRenderer(t)
	defer ctrl.Finish()

	rendered := []*api.Post{
		{ID: "42", Author: "amy", Text: "hi", CreatedAt: created, AuraSum: 3, VotesCount: 2},
	}
	refreshed := []*api.Post{
		{ID: "42", Author: "amy", Text: "hi", CreatedAt: created, AuraSum: 8, VotesCount: 3},
	}

	r.RenderFeed(rendered)

	voted := mockAPI.EXPECT().Vote(gomock.Any(), "42", 5).Return(nil)
	mockAPI.EXPECT().Feed(gomock.Any(), DefaultLimit).Return(refreshed, nil).After(voted)

	voteButton(t, r.Container, "42", "5").Click()

	// view now reflects the refetched server state
	summary := cards(r.Container)[0].FindAll("div", "muted")[0].TextContent()
	if summary != "Aura: 8  •  Votes: 3" {
		t.Errorf("unexpected summary after refresh: %q", summary)
	}
}

func TestVoteFailureLeavesViewUntouched(t *testing.T) {
	r, mockAPI, ctrl := newTestRenderer(t)
	defer ctrl.Finish()

	var notified string
	r.Notify = func(msg string) { notified = msg }

	r.RenderFeed(testPosts)
	before := r.Container.TextContent()

	mockAPI.EXPECT().Vote(gomock.Any(), "1", -10).
		Return(&api.APIError{Message: "rate_limited", StatusCode: 429})

	voteButton(t, r.Container, "1", "-10").Click()

	if r.Container.TextContent() != before {
		t.Fatalf("view changed after failed vote")
	}
	if !strings.Contains(notified, "rate_limited") {
		t.Errorf("expected rate_limited notification but was %q", notified)
	}
}

func TestClickOutsideButtonsIgnored(t *testing.T) {
	r, _, ctrl := newTestRenderer(t)
	defer ctrl.Finish()

	r.RenderFeed(testPosts)

	// a click on the bar itself resolves no button and submits nothing
	cards(r.Container)[0].FindAll("div", "vote-bar")[0].Click()
}

func TestDoubleClickSubmitsTwice(t *testing.T) {
	r, mockAPI, ctrl := newTestRenderer(t)
	defer ctrl.Finish()

	rendered := []*api.Post{
		{ID: "42", Author: "amy", Text: "hi", CreatedAt: time.Now(), AuraSum: 0, VotesCount: 0},
	}
	r.RenderFeed(rendered)

	mockAPI.EXPECT().Vote(gomock.Any(), "42", 50).Return(nil).Times(2)
	mockAPI.EXPECT().Feed(gomock.Any(), DefaultLimit).Return(rendered, nil).Times(2)

	voteButton(t, r.Container, "42", "50").Click()

	// the refresh rebuilt the card; resolve the fresh button like a real
	// second click would
	voteButton(t, r.Container, "42", "50").Click()
}
