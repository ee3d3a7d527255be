package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"

	"github.com/jinxiu-shop/storefront/internal/store"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "Storefront server URL")
	role      = flag.String("role", "user", "Login role: user or merchant")
	email     = flag.String("email", "", "Email shown on the fabricated account")
)

type loginResponse struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

type chatView struct {
	ConversationID string              `json:"conversationId"`
	Messages       []store.ChatMessage `json:"messages"`
	HasUnread      bool                `json:"hasUnread"`
}

type client struct {
	base  string
	token string
	user  store.User

	mu       sync.Mutex
	active   string
	rendered map[string]int
}

func main() {
	flag.Parse()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nBye.")
		os.Exit(0)
	}()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	cl := &client{base: strings.TrimRight(*serverURL, "/"), rendered: make(map[string]int)}
	if err := cl.login(*email, *role); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(boldGreen("锦绣 storefront chat"))
	fmt.Printf("Signed in as %s (%s)\n", boldCyan(cl.user.Name), cl.user.Role)
	fmt.Println("Type a message and press Enter. Commands: /inbox, /select <id>, /quit")
	fmt.Println()

	view, err := cl.openChat("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open chat: %v\n", err)
		os.Exit(1)
	}
	cl.setActive(view.ConversationID)
	cl.render(view.ConversationID, view.Messages)

	go cl.followFeed()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldCyan("> "))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "exit":
			return
		case line == "/inbox":
			cl.printInbox()
		case strings.HasPrefix(line, "/select "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/select "))
			view, err := cl.openChat(id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open conversation: %v\n", err)
				continue
			}
			cl.setActive(view.ConversationID)
			cl.mu.Lock()
			cl.rendered[view.ConversationID] = 0
			cl.mu.Unlock()
			cl.render(view.ConversationID, view.Messages)
		default:
			if err := cl.send(line); err != nil {
				fmt.Fprintf(os.Stderr, "Send failed: %v\n", err)
			}
		}
	}
}

func (c *client) login(email, role string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "role": role})
	resp, err := http.Post(c.base+"/api/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return err
	}
	c.token = lr.Token
	c.user = lr.User
	return nil
}

func (c *client) get(path string, v interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *client) openChat(conversationID string) (*chatView, error) {
	path := "/api/chat"
	if conversationID != "" {
		path += "?conversation=" + url.QueryEscape(conversationID)
	}
	var view chatView
	if err := c.get(path, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *client) send(text string) error {
	payload, _ := json.Marshal(map[string]string{
		"text":           text,
		"conversationId": c.activeID(),
	})
	req, err := http.NewRequest(http.MethodPost, c.base+"/api/chat/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func (c *client) printInbox() {
	var inbox []struct {
		CustomerID   string `json:"customerId"`
		CustomerName string `json:"customerName"`
		Preview      string `json:"preview"`
		UnreadCount  int    `json:"unreadCount"`
	}
	if err := c.get("/api/chat/conversations", &inbox); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list conversations: %v\n", err)
		return
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	for _, conv := range inbox {
		badge := ""
		if conv.UnreadCount > 0 {
			badge = yellow(fmt.Sprintf(" [%d unread]", conv.UnreadCount))
		}
		fmt.Printf("%s  %s%s\n    %s\n", conv.CustomerID, conv.CustomerName, badge, conv.Preview)
	}
}

// followFeed keeps a websocket open against the chat feed. Every frame is a
// full conversation store snapshot; any messages newer than what is already
// on screen for the active conversation are printed.
func (c *client) followFeed() {
	wsURL := strings.Replace(c.base, "http", "ws", 1) + "/api/chat/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Live updates unavailable: %v\n", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var snapshot store.ConversationMap
		if err := json.Unmarshal(data, &snapshot); err != nil {
			continue
		}
		c.render(c.activeID(), snapshot[c.activeID()])
	}
}

func (c *client) render(conversationID string, messages []store.ChatMessage) {
	if conversationID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := c.rendered[conversationID]
	if seen > len(messages) {
		seen = 0 // snapshot shrank: replaced wholesale, redraw
	}

	merchantName := color.New(color.FgRed, color.Bold).SprintFunc()
	customerName := color.New(color.FgBlue, color.Bold).SprintFunc()
	aiName := color.New(color.FgYellow, color.Bold).SprintFunc()

	for _, msg := range messages[seen:] {
		name := customerName(msg.SenderName)
		if msg.IsAI {
			name = aiName(msg.SenderName)
		} else if msg.IsMerchant {
			name = merchantName(msg.SenderName)
		}
		fmt.Printf("%s: %s\n", name, msg.Text)
	}
	c.rendered[conversationID] = len(messages)
}

func (c *client) setActive(id string) {
	c.mu.Lock()
	c.active = id
	c.mu.Unlock()
}

func (c *client) activeID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
