package core

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinxiu-shop/storefront/internal/store"
)

func newTestSnapshots(t *testing.T) *store.SnapshotStore {
	t.Helper()
	snapshots, err := store.NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { snapshots.Close() })
	return snapshots
}

// newEmptyChat builds a chat service with no conversations, bypassing the
// seed history a fresh database would otherwise get.
func newEmptyChat(t *testing.T) (*ChatService, *store.SnapshotStore) {
	t.Helper()
	snapshots := newTestSnapshots(t)
	require.NoError(t, snapshots.Save(store.KeyChats, store.ConversationMap{}))

	chat := NewChatService(snapshots)

	// Deterministic, strictly advancing clock so message ids and
	// timestamps are unique and ordered.
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	chat.now = func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	return chat, snapshots
}

var (
	shopper  = store.User{ID: "u1", Name: "汉服爱好者", Role: store.RoleUser}
	merchant = store.User{ID: "m1", Name: "锦绣官方旗舰店", Role: store.RoleMerchant}
)

func TestSendMessageAppendsInOrder(t *testing.T) {
	chat, _ := newEmptyChat(t)

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		chat.SendMessage(text, shopper.ID, shopper)
	}

	messages := chat.Messages(shopper.ID)
	require.Len(t, messages, len(texts))
	for i, msg := range messages {
		assert.Equal(t, texts[i], msg.Text)
		assert.Equal(t, shopper.ID, msg.SenderID)
		assert.False(t, msg.IsMerchant)
		// A shopper message starts read for its author and unread for
		// the merchant: isRead == isFromMerchant.
		assert.False(t, msg.IsRead)
	}

	reply := chat.SendMessage("reply", shopper.ID, merchant)
	require.NotNil(t, reply)
	assert.True(t, reply.IsMerchant)
	assert.True(t, reply.IsRead)
}

func TestSendMessageNoOps(t *testing.T) {
	chat, _ := newEmptyChat(t)

	assert.Nil(t, chat.SendMessage("", shopper.ID, shopper))
	assert.Nil(t, chat.SendMessage("   \t\n", shopper.ID, shopper))
	// Merchant with nothing selected has no conversation id.
	assert.Nil(t, chat.SendMessage("hello?", "", merchant))

	assert.Empty(t, chat.Conversations())
}

func TestMessageTimestampsMonotonic(t *testing.T) {
	chat, _ := newEmptyChat(t)

	chat.SendMessage("a", shopper.ID, shopper)
	chat.SendMessage("b", shopper.ID, merchant)
	chat.SendMessage("c", shopper.ID, shopper)

	messages := chat.Messages(shopper.ID)
	require.Len(t, messages, 3)
	for i := 1; i < len(messages); i++ {
		prev := parseTimestamp(messages[i-1].Timestamp)
		curr := parseTimestamp(messages[i].Timestamp)
		assert.True(t, curr.After(prev), "timestamps must advance")
		assert.NotEqual(t, messages[i-1].ID, messages[i].ID)
	}
}

func TestMarkAsReadFlipsOnlyCounterpartyMessages(t *testing.T) {
	chat, _ := newEmptyChat(t)

	chat.SendMessage("hi", shopper.ID, shopper)
	chat.SendMessage("hello", shopper.ID, merchant)
	chat.SendMessage("question", shopper.ID, shopper)

	chat.MarkAsRead(shopper.ID, store.RoleMerchant)

	for _, msg := range chat.Messages(shopper.ID) {
		assert.True(t, msg.IsRead)
	}

	// Shopper-side: the merchant reply was already read from the
	// merchant's own perspective, so nothing is unread for the shopper
	// until a new merchant message lands.
	chat.SendMessage("one more thing", shopper.ID, shopper)
	assert.False(t, chat.HasUnread(shopper))
	assert.True(t, chat.HasUnread(merchant))
}

func TestMarkAsReadIdempotent(t *testing.T) {
	chat, _ := newEmptyChat(t)

	chat.SendMessage("hi", shopper.ID, shopper)
	chat.MarkAsRead(shopper.ID, store.RoleMerchant)
	first := chat.Conversations()

	chat.MarkAsRead(shopper.ID, store.RoleMerchant)
	second := chat.Conversations()

	assert.Equal(t, first, second)
}

func TestHasUnreadMerchantSpansAllConversations(t *testing.T) {
	chat, _ := newEmptyChat(t)

	other := store.User{ID: "u2", Name: "客户乙", Role: store.RoleUser}
	chat.SendMessage("hi", shopper.ID, shopper)
	chat.SendMessage("hello there", other.ID, other)

	require.True(t, chat.HasUnread(merchant))

	chat.MarkAsRead(shopper.ID, store.RoleMerchant)
	assert.True(t, chat.HasUnread(merchant), "u2 still unread")

	chat.MarkAsRead(other.ID, store.RoleMerchant)
	assert.False(t, chat.HasUnread(merchant))
}

func TestHasUnreadShopperScopedToOwnConversation(t *testing.T) {
	chat, _ := newEmptyChat(t)

	// Merchant writes into another customer's conversation.
	chat.SendMessage("your parcel shipped", "u2", merchant)
	assert.False(t, chat.HasUnread(shopper))

	chat.SendMessage("sizing advice for you", shopper.ID, merchant)
	assert.True(t, chat.HasUnread(shopper))

	chat.MarkAsRead(shopper.ID, store.RoleUser)
	assert.False(t, chat.HasUnread(shopper))
}

func TestListConversationsByRecency(t *testing.T) {
	chat, _ := newEmptyChat(t)

	// A's last message is older than B's; C exists but has no messages.
	chat.SendMessage("old", "cust_a", store.User{ID: "cust_a", Name: "A", Role: store.RoleUser})
	chat.SendMessage("new", "cust_b", store.User{ID: "cust_b", Name: "B", Role: store.RoleUser})
	chat.ReplaceAll(store.ConversationMap{
		"cust_a": chat.Messages("cust_a"),
		"cust_b": chat.Messages("cust_b"),
		"cust_c": {},
	})

	summaries := chat.ListConversationsByRecency()
	require.Len(t, summaries, 3)
	assert.Equal(t, "cust_b", summaries[0].CustomerID)
	assert.Equal(t, "cust_a", summaries[1].CustomerID)
	assert.Equal(t, "cust_c", summaries[2].CustomerID)
}

func TestConversationSummaryFields(t *testing.T) {
	chat, _ := newEmptyChat(t)

	chat.SendMessage("在吗？", shopper.ID, shopper)
	chat.SendMessage("在的，亲", shopper.ID, merchant)
	chat.SendMessage("好的", shopper.ID, shopper)

	summaries := chat.ListConversationsByRecency()
	require.Len(t, summaries, 1)

	summary := summaries[0]
	assert.Equal(t, shopper.ID, summary.CustomerID)
	assert.Equal(t, shopper.Name, summary.CustomerName)
	assert.Equal(t, 2, summary.UnreadCount)
	assert.Equal(t, "汉服爱好者: 好的", summary.Preview)
	require.NotNil(t, summary.LastMessage)
	assert.Equal(t, "好的", summary.LastMessage.Text)
}

func TestConversationSummaryAnonymousFallback(t *testing.T) {
	chat, _ := newEmptyChat(t)

	// Merchant opens the conversation before the customer ever writes.
	chat.SendMessage("欢迎光临", "u9", merchant)

	summaries := chat.ListConversationsByRecency()
	require.Len(t, summaries, 1)
	assert.Equal(t, anonymousCustomerName, summaries[0].CustomerName)
	assert.Zero(t, summaries[0].UnreadCount)
}

func TestActiveConversationID(t *testing.T) {
	chat, _ := newEmptyChat(t)

	// A shopper is always pinned to their own conversation.
	assert.Equal(t, shopper.ID, chat.ActiveConversationID(shopper, "ignored"))

	// Merchant with an empty inbox has nothing to select.
	assert.Equal(t, "", chat.ActiveConversationID(merchant, ""))

	chat.SendMessage("hi", "u2", store.User{ID: "u2", Name: "乙", Role: store.RoleUser})
	chat.SendMessage("hi", shopper.ID, shopper)

	// No explicit selection: most recent conversation wins.
	assert.Equal(t, shopper.ID, chat.ActiveConversationID(merchant, ""))
	// Explicit selection wins over recency.
	assert.Equal(t, "u2", chat.ActiveConversationID(merchant, "u2"))
}

func TestSnapshotRoundTrip(t *testing.T) {
	chat, snapshots := newEmptyChat(t)

	chat.SendMessage("hi", shopper.ID, shopper)
	chat.SendMessage("hello", shopper.ID, merchant)
	chat.MarkAsRead(shopper.ID, store.RoleMerchant)
	before := chat.Conversations()

	// A second service over the same snapshot store must reconstruct the
	// conversation map exactly: order, ids, read flags.
	reloaded := NewChatService(snapshots)
	assert.Equal(t, before, reloaded.Conversations())
}

func TestReplaceAllIsWholesale(t *testing.T) {
	chat, snapshots := newEmptyChat(t)

	chat.SendMessage("will be discarded", shopper.ID, shopper)

	incoming := store.ConversationMap{
		"u7": {{
			ID:         "1700000000000",
			SenderID:   "u7",
			SenderName: "丙",
			Text:       "incoming snapshot",
			Timestamp:  "2025-06-01T10:00:00Z",
			IsMerchant: false,
			IsRead:     false,
		}},
	}
	chat.ReplaceAll(incoming)

	assert.Equal(t, incoming, chat.Conversations())

	// The replacement is persisted, not just held in memory.
	reloaded := NewChatService(snapshots)
	assert.Equal(t, incoming, reloaded.Conversations())
}

func TestFreshDatabaseGetsSeedHistory(t *testing.T) {
	snapshots := newTestSnapshots(t)
	chat := NewChatService(snapshots)

	conversations := chat.Conversations()
	require.Len(t, conversations, 3)

	// The seed carries one unread customer message (customer_003), so a
	// fresh merchant login sees the unread badge immediately.
	assert.True(t, chat.HasUnread(merchant))

	summaries := chat.ListConversationsByRecency()
	require.Len(t, summaries, 3)
	assert.Equal(t, "customer_003", summaries[0].CustomerID)
	assert.Equal(t, 1, summaries[0].UnreadCount)
}
