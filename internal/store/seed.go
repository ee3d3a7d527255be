package store

import "time"

// Demo accounts fabricated by the login flow. There is no real account
// database; picking a role on the login form yields one of these.
var (
	DemoMerchant = User{
		ID:    "m1",
		Name:  "锦绣官方旗舰店",
		Email: "merchant@jinxiu.com",
		Role:  RoleMerchant,
	}
	DemoShopper = User{
		ID:    "u1",
		Name:  "汉服爱好者",
		Email: "user@example.com",
		Role:  RoleUser,
	}
)

// SeedProducts is the built-in catalog used when no products snapshot exists.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "龙凤呈祥织金马面裙",
			Description: "采用传统织金工艺，龙凤纹样寓意吉祥如意，裙门宽大，褶裥工整，适合婚礼或隆重场合穿着。",
			Price:       1299,
			Image:       "https://s41.ax1x.com/2025/12/11/pZKi1q1.png",
			Category:    "传统礼服",
			Material:    "真丝织金",
			Stock:       50,
			Color:       "正红",
		},
		{
			ID:          "2",
			Name:        "月下仙鹤改良百褶裙",
			Description: "优雅的黑色底料搭配银线刺绣仙鹤，保留了马面裙的形制，采用了更轻便的改良面料，适合日常通勤与现代混搭。",
			Price:       899,
			Image:       "https://s41.ax1x.com/2025/12/11/pZKi8Vx.png",
			Category:    "新中式改良",
			Material:    "聚酯纤维混纺",
			Stock:       120,
			Color:       "墨黑",
		},
		{
			ID:          "3",
			Name:        "宋韵清风仿宋锦马面",
			Description: "灵感源自宋代美学，淡雅的绿色调，面料轻薄透气，垂感极佳，尽显文人雅士之风。",
			Price:       1599,
			Image:       "https://s41.ax1x.com/2025/12/11/pZKi1q1.png",
			Category:    "日常通勤",
			Material:    "棉麻混纺",
			Stock:       30,
			Color:       "豆青",
		},
		{
			ID:          "4",
			Name:        "富贵牡丹宫廷款",
			Description: "奢华的金色底纹，大朵牡丹刺绣栩栩如生，还原明代宫廷服饰的雍容华贵。",
			Price:       2499,
			Image:       "https://s41.ax1x.com/2025/12/11/pZKi8Vx.png",
			Category:    "传统礼服",
			Material:    "重磅织锦缎",
			Stock:       15,
			Color:       "流金",
		},
		{
			ID:          "5",
			Name:        "水墨竹韵书香裙",
			Description: "极简白底设计，手绘水墨竹子纹样，清冷孤傲，适合搭配衬衫打造新中式知性风。",
			Price:       750,
			Image:       "https://s41.ax1x.com/2025/12/11/pZKi1q1.png",
			Category:    "日常通勤",
			Material:    "天丝",
			Stock:       80,
			Color:       "月白",
		},
	}
}

// SeedConversations is the built-in chat history used when no chats snapshot
// exists. Timestamps are relative to startup; customer_003 carries an unread
// customer message so a fresh merchant login sees the unread badge.
func SeedConversations() ConversationMap {
	now := time.Now()
	ts := func(d time.Duration) string {
		return now.Add(-d).UTC().Format(time.RFC3339)
	}

	return ConversationMap{
		"customer_001": {
			{
				ID:         "msg_1",
				SenderID:   "customer_001",
				SenderName: "王语嫣",
				Text:       "你好，请问这款龙凤呈祥马面裙我身高165，体重52kg穿什么码合适？",
				Timestamp:  ts(48 * time.Hour),
				IsMerchant: false,
				IsRead:     true,
			},
			{
				ID:         "msg_ai_1",
				SenderID:   "ai_bot",
				SenderName: "锦绣智能助手",
				Text:       "您好！根据大数据匹配，您的身材非常标准。建议您选择 M码 (165/68A)。这款裙子支持调节腰围，M码的调节范围（64-70cm）应该非常适合您。",
				Timestamp:  ts(48*time.Hour - 30*time.Second),
				IsMerchant: true,
				IsRead:     true,
				IsAI:       true,
			},
			{
				ID:         "msg_2",
				SenderID:   "merchant_1",
				SenderName: "锦绣官方旗舰店",
				Text:       "亲，您可以参考一下哦。M码裙长和腰围会比较合适。",
				Timestamp:  ts(48*time.Hour - time.Minute),
				IsMerchant: true,
				IsRead:     true,
			},
			{
				ID:         "msg_3",
				SenderID:   "customer_001",
				SenderName: "王语嫣",
				Text:       "好的，面料会容易皱吗？洗涤有什么要注意的？",
				Timestamp:  ts(48*time.Hour - 2*time.Minute),
				IsMerchant: false,
				IsRead:     true,
			},
		},
		"customer_002": {
			{
				ID:         "msg_4",
				SenderID:   "customer_002",
				SenderName: "林黛玉",
				Text:       "已下单，请问什么时候发货？今天要送人的，比较急。",
				Timestamp:  ts(5 * time.Hour),
				IsMerchant: false,
				IsRead:     true,
			},
			{
				ID:         "msg_5",
				SenderID:   "merchant_1",
				SenderName: "锦绣官方旗舰店",
				Text:       "亲，下午4点前的订单当天发出，我们默认发顺丰空运，大概明天能到。",
				Timestamp:  ts(5*time.Hour - 6*time.Minute),
				IsMerchant: true,
				IsRead:     true,
			},
		},
		"customer_003": {
			{
				ID:         "msg_6",
				SenderID:   "customer_003",
				SenderName: "薛宝钗",
				Text:       "收到的裙子腰头这里好像有点线头，怎么处理？",
				Timestamp:  ts(30 * time.Minute),
				IsMerchant: false,
				IsRead:     false,
			},
		},
	}
}
