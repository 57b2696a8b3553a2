package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:rv"`

	ID        string    `bun:"id,pk" json:"id"`
	VendorID  string    `bun:"vendor_id,notnull,unique:review_vendor_user" json:"vendorId"`
	UserID    string    `bun:"user_id,notnull,unique:review_vendor_user" json:"userId"`
	Rating    int       `bun:"rating,notnull" json:"rating"`
	Comment   *string   `bun:"comment" json:"comment"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	User   *User   `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Vendor *Vendor `bun:"rel:belongs-to,join:vendor_id=id" json:"vendor,omitempty"`
}

// All lists every table in dependency order.
func All() []interface{} {
	return []interface{}{
		(*User)(nil),
		(*Category)(nil),
		(*Wedding)(nil),
		(*WeddingEvent)(nil),
		(*Guest)(nil),
		(*RSVP)(nil),
		(*Vendor)(nil),
		(*Booking)(nil),
		(*Task)(nil),
		(*Expense)(nil),
		(*Review)(nil),
	}
}
