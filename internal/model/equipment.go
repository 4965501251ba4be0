package model

import "time"

type Equipment struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	Condition   string     `json:"condition"`
	PurchasedAt *time.Time `json:"purchased_at"`
	Deleted     bool       `json:"-"`
}
