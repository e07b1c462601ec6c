// Package bootstrap wires page fragments to the API on load. Each fragment
// probes for its own anchor element and does nothing when the anchor is
// absent; a page with no feed simply has no feed work.
package bootstrap

import (
	"context"
	"strconv"
	"strings"

	"aura/pkg/api"
	"aura/pkg/dom"
	"aura/pkg/feed"

	"go.uber.org/zap"
)

type Page struct {
	Doc       *dom.Element
	API       *api.Client
	Logger    *zap.SugaredLogger
	Notify    func(msg string)
	Navigate  func(target string)
	FeedLimit int

	// Feed is set during Boot when the page carries a feed container.
	Feed *feed.Renderer
}

func (p *Page) notify(msg string) {
	if p.Notify != nil {
		p.Notify(msg)
	}
}

func (p *Page) navigate(target string) {
	if p.Navigate != nil {
		p.Navigate(target)
	}
}

// Boot probes the document for known anchors and wires each one found. The
// health probe is best effort: its outcome is logged and never surfaced.
func (p *Page) Boot(ctx context.Context) {
	if err := p.API.Health(ctx); err != nil {
		p.Logger.Debugw("health probe failed", "error", err)
	} else {
		p.Logger.Debugw("health probe ok")
	}

	p.wireAuthForm(ctx, "loginForm", "Login failed: ", p.API.Login)
	p.wireAuthForm(ctx, "signupForm", "Signup failed: ", p.API.Signup)
	p.wireLogout(ctx)
	p.wireNewPost(ctx)
	p.fillProfile(ctx)
	p.wireFeed(ctx)
}

// wireAuthForm attaches a submit handler that forwards the form's fields
// as-is. An empty password is still sent; rejecting it is the server's call.
func (p *Page) wireAuthForm(ctx context.Context, id, failPrefix string, call func(ctx context.Context, username, password string) error) {
	form := p.Doc.GetElementByID(id)
	if form == nil {
		return
	}

	form.On("submit", func(ev *dom.Event) {
		username := formValue(form, "username")
		password := formValue(form, "password")
		if err := call(ctx, username, password); err != nil {
			p.notify(failPrefix + err.Error())
			return
		}
		p.navigate("index.html")
	})
}

func (p *Page) wireLogout(ctx context.Context) {
	btn := p.Doc.GetElementByID("logoutBtn")
	if btn == nil {
		return
	}

	btn.On("click", func(ev *dom.Event) {
		if err := p.API.Logout(ctx); err != nil {
			p.notify("Logout failed: " + err.Error())
			return
		}
		p.navigate("login.html")
	})
}

func (p *Page) wireNewPost(ctx context.Context) {
	form := p.Doc.GetElementByID("newPostForm")
	if form == nil {
		return
	}

	form.On("submit", func(ev *dom.Event) {
		text := strings.TrimSpace(formValue(form, "text"))
		if text == "" {
			p.notify("Write something first.")
			return
		}
		if err := p.API.CreatePost(ctx, text); err != nil {
			p.notify("Post failed: " + err.Error())
			return
		}
		p.navigate("index.html")
	})
}

func (p *Page) fillProfile(ctx context.Context) {
	nameEl := p.Doc.GetElementByID("profileUsername")
	auraEl := p.Doc.GetElementByID("profileAura")
	streakEl := p.Doc.GetElementByID("profileStreak")
	if nameEl == nil && auraEl == nil && streakEl == nil {
		return
	}

	user, err := p.API.Me(ctx)
	if err != nil {
		p.Logger.Debugw("profile fetch failed", "error", err)
		return
	}

	if user == nil {
		if nameEl != nil {
			nameEl.SetText("Not logged in")
		}
		return
	}

	if nameEl != nil {
		nameEl.SetText("@" + user.Username)
	}
	if auraEl != nil {
		auraEl.SetText(strconv.Itoa(user.AuraTotal))
	}
	if streakEl != nil {
		streakEl.SetText(strconv.Itoa(user.Streak))
	}
}

func (p *Page) wireFeed(ctx context.Context) {
	container := p.Doc.GetElementByID("feed")
	if container == nil {
		return
	}

	p.Feed = &feed.Renderer{
		Container: container,
		API:       p.API,
		Logger:    p.Logger,
		Limit:     p.FeedLimit,
		Notify:    p.Notify,
	}
	p.Feed.LoadFeed(ctx)
}

// formValue reads the value attribute of the named input or textarea inside
// form, the way FormData would.
func formValue(form *dom.Element, name string) string {
	for _, tag := range []string{"input", "textarea"} {
		for _, el := range form.FindAll(tag, "") {
			if el.Attr("name") == name {
				return el.Attr("value")
			}
		}
	}
	return ""
}
