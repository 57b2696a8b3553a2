package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Wedding struct {
	bun.BaseModel `bun:"table:weddings,alias:w"`

	ID        string          `bun:"id,pk" json:"id"`
	Title     string          `bun:"title,notnull" json:"title"`
	Date      time.Time       `bun:"date,notnull" json:"date"`
	Venue     string          `bun:"venue,notnull" json:"venue"`
	Budget    decimal.Decimal `bun:"budget,type:decimal(12,2),notnull,default:0" json:"budget"`
	UserID    string          `bun:"user_id,notnull" json:"userId"`
	CreatedAt time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	User     *User           `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Events   []*WeddingEvent `bun:"rel:has-many,join:id=wedding_id" json:"events,omitempty"`
	Guests   []*Guest        `bun:"rel:has-many,join:id=wedding_id" json:"guests,omitempty"`
	Bookings []*Booking      `bun:"rel:has-many,join:id=wedding_id" json:"bookings,omitempty"`
	Tasks    []*Task         `bun:"rel:has-many,join:id=wedding_id" json:"tasks,omitempty"`
	Expenses []*Expense      `bun:"rel:has-many,join:id=wedding_id" json:"expenses,omitempty"`

	Counts *WeddingCounts `bun:"-" json:"_count,omitempty"`
}

type WeddingCounts struct {
	Guests   int `json:"guests"`
	Bookings int `json:"bookings"`
	Tasks    int `json:"tasks"`
	Expenses int `json:"expenses"`
}

type WeddingEvent struct {
	bun.BaseModel `bun:"table:wedding_events,alias:ev"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Date      time.Time `bun:"date,notnull" json:"date"`
	Venue     *string   `bun:"venue" json:"venue"`
	Notes     *string   `bun:"notes" json:"notes"`
	WeddingID string    `bun:"wedding_id,notnull" json:"weddingId"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Wedding *Wedding `bun:"rel:belongs-to,join:wedding_id=id" json:"-"`
}
