package model

import "time"

type NotificationType string

const (
	NotificationFine     NotificationType = "fine"
	NotificationOverdue  NotificationType = "overdue"
	NotificationReminder NotificationType = "reminder"
)

type Notification struct {
	Type       NotificationType `json:"type"`
	UserID     string           `json:"userId"`
	LoanID     string           `json:"loanId"`
	Payload    map[string]any   `json:"payload,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
	// DedupKey suppresses repeats of the same notice; empty means always deliver.
	DedupKey string `json:"-"`
}

type CatalogEventType string

const (
	TitleCreated         CatalogEventType = "title.created"
	TitleQuantityChanged CatalogEventType = "title.quantity_changed"
	TitleDeactivated     CatalogEventType = "title.deactivated"
	TitleActivated       CatalogEventType = "title.activated"
)

type CatalogEvent struct {
	Type     CatalogEventType `json:"type"`
	TitleID  string           `json:"titleUid"`
	Name     string           `json:"name,omitempty"`
	Author   string           `json:"author,omitempty"`
	ISBN     string           `json:"isbn,omitempty"`
	Price    Money            `json:"price,omitempty"`
	Quantity int              `json:"quantity"`
}
