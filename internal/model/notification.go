package model

// NotificationKind 通知類型
type NotificationKind string

const (
	NotificationProductRemoved    NotificationKind = "product_removed"
	NotificationPurchaseCompleted NotificationKind = "purchase_completed"
)

// Notification 寄給使用者的通知，經由 queue 非同步送出
type Notification struct {
	Kind         NotificationKind `json:"kind"`
	Email        string           `json:"email"`
	FirstName    string           `json:"first_name,omitempty"`
	LastName     string           `json:"last_name,omitempty"`
	ProductID    string           `json:"product_id,omitempty"`
	ProductTitle string           `json:"product_title,omitempty"`
	TicketCode   string           `json:"ticket_code,omitempty"`
	Amount       float64          `json:"amount,omitempty"`
}
