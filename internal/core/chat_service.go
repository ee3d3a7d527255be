package core

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jinxiu-shop/storefront/internal/store"
)

// Shown in the merchant inbox for a conversation whose customer has not
// written anything yet.
const anonymousCustomerName = "匿名用户"

// ChatService owns the conversation store: the mapping from customer id to
// that customer's message history with the merchant. Every mutation rewrites
// the whole jinxiu_chats snapshot, which in turn notifies snapshot
// subscribers (the websocket feed, other processes).
type ChatService struct {
	snapshots *store.SnapshotStore

	mu            sync.Mutex
	conversations store.ConversationMap

	now func() time.Time
}

func NewChatService(snapshots *store.SnapshotStore) *ChatService {
	s := &ChatService{
		snapshots: snapshots,
		now:       time.Now,
	}

	var saved store.ConversationMap
	ok, err := snapshots.Load(store.KeyChats, &saved)
	if err != nil {
		log.Printf("Failed to load chat snapshot, using seed history: %v", err)
	}
	if ok && saved != nil {
		s.conversations = saved
	} else {
		s.conversations = store.SeedConversations()
	}
	return s
}

// SendMessage appends a message from sender to the given conversation,
// creating the conversation if it does not exist yet. Empty or
// whitespace-only text and a missing conversation id (a merchant with
// nothing selected) are no-ops. The returned message is nil in the no-op
// cases.
//
// A message's isRead flag is initialized relative to its author: the
// author's own side has trivially read it, the counterparty has not. For a
// store keyed on the merchant's perspective that collapses to
// isRead = isFromMerchant, the convention the persisted snapshots carry.
func (s *ChatService) SendMessage(text, conversationID string, sender store.User) *store.ChatMessage {
	if strings.TrimSpace(text) == "" || conversationID == "" {
		return nil
	}

	isMerchant := sender.Role == store.RoleMerchant
	now := s.now()

	msg := store.ChatMessage{
		ID:         strconv.FormatInt(now.UnixMilli(), 10),
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Text:       text,
		Timestamp:  now.UTC().Format(time.RFC3339),
		IsMerchant: isMerchant,
		IsRead:     isMerchant,
	}

	s.mu.Lock()
	s.conversations[conversationID] = append(s.conversations[conversationID], msg)
	s.persistLocked()
	s.mu.Unlock()

	return &msg
}

// MarkAsRead flips every unread message authored by the viewer's
// counterparty in the conversation. Messages authored by the viewer's own
// role are never touched. When nothing relevant is unread the call is a
// no-op and the snapshot is not rewritten, so calling it on every view
// refresh stays cheap and idempotent.
func (s *ChatService) MarkAsRead(conversationID string, viewerRole store.UserRole) {
	viewerIsMerchant := viewerRole == store.RoleMerchant

	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.conversations[conversationID]

	hasRelevantUnread := false
	for _, m := range messages {
		if m.IsMerchant != viewerIsMerchant && !m.IsRead {
			hasRelevantUnread = true
			break
		}
	}
	if !hasRelevantUnread {
		return
	}

	for i := range messages {
		if messages[i].IsMerchant != viewerIsMerchant {
			messages[i].IsRead = true
		}
	}
	s.conversations[conversationID] = messages
	s.persistLocked()
}

// HasUnread reports whether the viewer has anything unread. A merchant sees
// unread customer messages across every conversation; a shopper only ever
// sees unread merchant messages in their own conversation.
func (s *ChatService) HasUnread(viewer store.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if viewer.Role == store.RoleMerchant {
		for _, messages := range s.conversations {
			for _, m := range messages {
				if !m.IsMerchant && !m.IsRead {
					return true
				}
			}
		}
		return false
	}

	for _, m := range s.conversations[viewer.ID] {
		if m.IsMerchant && !m.IsRead {
			return true
		}
	}
	return false
}

// ConversationSummary is one row of the merchant inbox.
type ConversationSummary struct {
	CustomerID   string             `json:"customerId"`
	CustomerName string             `json:"customerName"`
	Preview      string             `json:"preview"`
	UnreadCount  int                `json:"unreadCount"`
	LastMessage  *store.ChatMessage `json:"lastMessage,omitempty"`
}

// ListConversationsByRecency returns inbox rows sorted newest-first by each
// conversation's last message. A conversation with no messages sorts last;
// between two empty conversations the relative order follows the (sorted)
// key order.
func (s *ChatService) ListConversationsByRecency() []ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.conversations))
	for id := range s.conversations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sort.SliceStable(ids, func(i, j int) bool {
		lastI, okI := lastMessage(s.conversations[ids[i]])
		lastJ, okJ := lastMessage(s.conversations[ids[j]])
		if !okI {
			return false
		}
		if !okJ {
			return true
		}
		return parseTimestamp(lastI.Timestamp).After(parseTimestamp(lastJ.Timestamp))
	})

	summaries := make([]ConversationSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, s.summarizeLocked(id))
	}
	return summaries
}

func (s *ChatService) summarizeLocked(customerID string) ConversationSummary {
	messages := s.conversations[customerID]

	summary := ConversationSummary{
		CustomerID:   customerID,
		CustomerName: anonymousCustomerName,
	}

	for _, m := range messages {
		if !m.IsMerchant {
			summary.CustomerName = m.SenderName
			break
		}
	}

	for _, m := range messages {
		if !m.IsMerchant && !m.IsRead {
			summary.UnreadCount++
		}
	}

	if last, ok := lastMessage(messages); ok {
		summary.LastMessage = &last
		summary.Preview = last.SenderName + ": " + last.Text
	}
	return summary
}

// ActiveConversationID resolves which conversation a viewer is looking at.
// A shopper always has exactly one conversation, their own. A merchant uses
// the explicit selection, falling back to the most recent conversation when
// nothing is selected yet; an empty inbox yields "".
func (s *ChatService) ActiveConversationID(viewer store.User, selection string) string {
	if viewer.Role != store.RoleMerchant {
		return viewer.ID
	}
	if selection != "" {
		return selection
	}
	summaries := s.ListConversationsByRecency()
	if len(summaries) == 0 {
		return ""
	}
	return summaries[0].CustomerID
}

// Messages returns a copy of one conversation's history in append order.
func (s *ChatService) Messages(conversationID string) []store.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.ChatMessage(nil), s.conversations[conversationID]...)
}

// Conversations returns a copy of the whole conversation store.
func (s *ChatService) Conversations() store.ConversationMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(store.ConversationMap, len(s.conversations))
	for id, messages := range s.conversations {
		out[id] = append([]store.ChatMessage(nil), messages...)
	}
	return out
}

// ReplaceAll overwrites the in-memory store with an incoming snapshot and
// persists it. This is last-writer-wins at whole-store granularity: no
// merging, no per-message reconciliation, exactly the semantics of a
// storage event arriving from another tab.
func (s *ChatService) ReplaceAll(snapshot store.ConversationMap) {
	if snapshot == nil {
		snapshot = store.ConversationMap{}
	}
	s.mu.Lock()
	s.conversations = snapshot
	s.persistLocked()
	s.mu.Unlock()
}

func (s *ChatService) persistLocked() {
	if err := s.snapshots.Save(store.KeyChats, s.conversations); err != nil {
		log.Printf("Failed to persist chat snapshot: %v", err)
	}
}

func lastMessage(messages []store.ChatMessage) (store.ChatMessage, bool) {
	if len(messages) == 0 {
		return store.ChatMessage{}, false
	}
	return messages[len(messages)-1], true
}

func parseTimestamp(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
