package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"aura/pkg/api"
	"aura/pkg/bootstrap"
	"aura/pkg/dom"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// auraapp drives the browser engine from a terminal: it builds the same
// document the web pages would, boots the page glue against a live API and
// maps simple commands onto DOM interactions.
func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("AURA_API_BASE")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	flag.StringVar(&baseURL, "api", baseURL, "aura API base origin, no trailing slash")
	flag.Parse()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	client, err := api.NewClient(baseURL, logger)
	if err != nil {
		logger.Fatalw("bad api base", "error", err)
	}

	doc := buildDocument()
	page := &bootstrap.Page{
		Doc:    doc,
		API:    client,
		Logger: logger,
		Notify: func(msg string) { fmt.Println("! " + msg) },
	}
	page.Navigate = func(target string) {
		if target == "index.html" && page.Feed != nil {
			page.Feed.LoadFeed(context.Background())
			page.Feed.Container.WriteTo(os.Stdout)
		}
	}

	page.Boot(context.Background())
	fmt.Println("aura client connected to " + baseURL + " (type 'help')")

	repl(page, doc)
}

func buildDocument() *dom.Element {
	return dom.H("body", nil,
		dom.H("form", dom.Attrs{"id": "loginForm"},
			dom.H("input", dom.Attrs{"name": "username"}),
			dom.H("input", dom.Attrs{"name": "password"}),
		),
		dom.H("form", dom.Attrs{"id": "signupForm"},
			dom.H("input", dom.Attrs{"name": "username"}),
			dom.H("input", dom.Attrs{"name": "password"}),
		),
		dom.H("form", dom.Attrs{"id": "newPostForm"},
			dom.H("textarea", dom.Attrs{"name": "text"}),
		),
		dom.H("button", dom.Attrs{"id": "logoutBtn"}, "Log out"),
		dom.H("div", dom.Attrs{"id": "feed"}),
	)
}

func repl(page *bootstrap.Page, doc *dom.Element) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			fmt.Println("commands: feed | vote <post-id> <value> | login <user> <pass> | signup <user> <pass> | post <text> | me | logout | quit")
		case "quit", "exit":
			return
		case "feed":
			page.Feed.LoadFeed(context.Background())
			page.Feed.Container.WriteTo(os.Stdout)
		case "vote":
			if len(fields) != 3 {
				fmt.Println("usage: vote <post-id> <value>")
				continue
			}
			value, err := strconv.Atoi(fields[2])
			if err != nil || !api.ValidMagnitude(value) {
				fmt.Println("value must be one of -10 -5 -1 1 5 10 50")
				continue
			}
			page.Feed.SubmitVote(context.Background(), fields[1], value)
			page.Feed.Container.WriteTo(os.Stdout)
		case "login", "signup":
			if len(fields) != 3 {
				fmt.Printf("usage: %s <user> <pass>\n", fields[0])
				continue
			}
			submitAuthForm(doc, fields[0]+"Form", fields[1], fields[2])
		case "post":
			if len(fields) < 2 {
				fmt.Println("usage: post <text>")
				continue
			}
			form := doc.GetElementByID("newPostForm")
			form.FindAll("textarea", "")[0].SetAttr("value", strings.Join(fields[1:], " "))
			form.Dispatch("submit")
		case "me":
			user, err := page.API.Me(context.Background())
			if err != nil {
				fmt.Println("! " + err.Error())
				continue
			}
			if user == nil {
				fmt.Println("Not logged in")
				continue
			}
			fmt.Printf("@%s  aura: %d  streak: %d\n", user.Username, user.AuraTotal, user.Streak)
		case "logout":
			doc.GetElementByID("logoutBtn").Click()
		default:
			fmt.Println("unknown command, try 'help'")
		}
	}
}

func submitAuthForm(doc *dom.Element, formID, username, password string) {
	form := doc.GetElementByID(formID)
	for _, input := range form.FindAll("input", "") {
		switch input.Attr("name") {
		case "username":
			input.SetAttr("value", username)
		case "password":
			input.SetAttr("value", password)
		}
	}
	form.Dispatch("submit")
}
