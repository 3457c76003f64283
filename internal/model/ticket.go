package model

import "time"

// Ticket 購買憑證，建立後不可修改
type Ticket struct {
	ID               int       `json:"-" db:"id"`
	Code             string    `json:"code" db:"code"`
	PurchaseDatetime time.Time `json:"purchase_datetime" db:"purchase_datetime"`
	Amount           float64   `json:"amount" db:"amount"`
	Purchaser        string    `json:"purchaser" db:"purchaser"`
}
