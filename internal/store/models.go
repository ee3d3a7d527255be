package store

type UserRole string

const (
	RoleUser     UserRole = "user"
	RoleMerchant UserRole = "merchant"
)

type User struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	Avatar string   `json:"avatar,omitempty"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Material    string  `json:"material"`
	Stock       int     `json:"stock"`
	Color       string  `json:"color"`
}

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Items     []CartItem  `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt string      `json:"createdAt"` // RFC 3339, as written by the web client
}

// ChatMessage field names mirror the persisted browser snapshot exactly so a
// document written by one client round-trips through the other unchanged.
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"` // RFC 3339
	IsMerchant bool   `json:"isMerchant"`
	IsRead     bool   `json:"isRead"`
	IsAI       bool   `json:"isAI,omitempty"`
}

// Conversations are keyed by the customer's user id; each value is the
// append-only message history between that customer and the merchant.
type ConversationMap map[string][]ChatMessage
