package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jinxiu-shop/storefront/internal/store"
)

type ChatViewResponse struct {
	ConversationID string              `json:"conversationId"`
	Messages       []store.ChatMessage `json:"messages"`
	HasUnread      bool                `json:"hasUnread"`
}

// GetChatHandler returns the viewer's active conversation and marks it read,
// matching the web client's behavior of flipping unread counterparty
// messages whenever the conversation is opened or refreshed. A shopper is
// always pinned to their own conversation; a merchant follows the
// ?conversation selection, falling back to the most recent one.
func (h *APIHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	selection := ""
	if user.Role == store.RoleMerchant {
		selection = r.URL.Query().Get("conversation")
	}

	conversationID := h.chat.ActiveConversationID(user, selection)
	if conversationID != "" {
		h.chat.MarkAsRead(conversationID, user.Role)
	}

	json.NewEncoder(w).Encode(ChatViewResponse{
		ConversationID: conversationID,
		Messages:       h.chat.Messages(conversationID),
		HasUnread:      h.chat.HasUnread(user),
	})
}

type SendMessageRequest struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversationId"`
}

// SendChatMessageHandler appends a message to the active conversation.
// Blank text or a merchant with nothing selected is a no-op, not an error.
func (h *APIHandler) SendChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user := currentUser(r)
	conversationID := req.ConversationID
	if user.Role != store.RoleMerchant {
		// Shoppers have exactly one conversation, their own.
		conversationID = user.ID
	}

	msg := h.chat.SendMessage(req.Text, conversationID, user)
	if msg == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

type MarkReadRequest struct {
	ConversationID string `json:"conversationId"`
}

func (h *APIHandler) MarkChatReadHandler(w http.ResponseWriter, r *http.Request) {
	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user := currentUser(r)
	conversationID := req.ConversationID
	if user.Role != store.RoleMerchant {
		conversationID = user.ID
	}

	h.chat.MarkAsRead(conversationID, user.Role)
	w.WriteHeader(http.StatusNoContent)
}

type UnreadResponse struct {
	HasUnread bool `json:"hasUnread"`
}

func (h *APIHandler) ChatUnreadHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(UnreadResponse{HasUnread: h.chat.HasUnread(currentUser(r))})
}

func (h *APIHandler) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.chat.ListConversationsByRecency())
}

// chatFeed fans the chats snapshot out to websocket clients. Every frame in
// either direction is a complete conversation store; receivers replace, they
// never merge.
type chatFeed struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newChatFeed() *chatFeed {
	return &chatFeed{
		upgrader: websocket.Upgrader{
			// Browser storefronts connect cross-origin in this demo.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

func (f *chatFeed) add(conn *websocket.Conn) {
	f.mu.Lock()
	f.conns[conn] = true
	f.mu.Unlock()
}

func (f *chatFeed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	delete(f.conns, conn)
	f.mu.Unlock()
	conn.Close()
}

// broadcast pushes the new snapshot to every connected client. Writes are
// serialized under the feed lock; a failed write drops the client.
func (f *chatFeed) broadcast(raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for conn := range f.conns {
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			log.Printf("Dropping chat feed client: %v", err)
			conn.Close()
			delete(f.conns, conn)
		}
	}
}

// ChatFeedHandler upgrades to a websocket carrying the conversation store.
// The server pushes the full snapshot on connect and after every change;
// a client may push a full snapshot of its own, which overwrites the store
// wholesale (last writer wins, as between browser tabs).
func (h *APIHandler) ChatFeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.feed.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Chat feed upgrade failed: %v", err)
		return
	}
	h.feed.add(conn)

	initial, err := json.Marshal(h.chat.Conversations())
	if err == nil {
		h.feed.mu.Lock()
		err = conn.WriteMessage(websocket.TextMessage, initial)
		h.feed.mu.Unlock()
	}
	if err != nil {
		log.Printf("Failed to send initial chat snapshot: %v", err)
		h.feed.remove(conn)
		return
	}

	go h.readChatFeed(conn)
}

func (h *APIHandler) readChatFeed(conn *websocket.Conn) {
	defer h.feed.remove(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var snapshot store.ConversationMap
		if err := json.Unmarshal(data, &snapshot); err != nil {
			log.Printf("Ignoring malformed chat feed frame: %v", err)
			continue
		}
		h.chat.ReplaceAll(snapshot)
	}
}
