package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Booking is a wedding's engagement of one vendor listing.
type Booking struct {
	bun.BaseModel `bun:"table:wedding_vendors,alias:wv"`

	ID            string          `bun:"id,pk" json:"id"`
	WeddingID     string          `bun:"wedding_id,notnull,unique:wedding_vendor" json:"weddingId"`
	VendorID      string          `bun:"vendor_id,notnull,unique:wedding_vendor" json:"vendorId"`
	Amount        decimal.Decimal `bun:"amount,type:decimal(12,2),notnull" json:"amount"`
	PaidAmount    decimal.Decimal `bun:"paid_amount,type:decimal(12,2),notnull,default:0" json:"paidAmount"`
	PaymentStatus PaymentStatus   `bun:"payment_status,notnull,default:'PENDING'" json:"paymentStatus"`
	Notes         *string         `bun:"notes" json:"notes"`
	BookingDate   time.Time       `bun:"booking_date,nullzero,notnull,default:current_timestamp" json:"bookingDate"`

	Vendor  *Vendor  `bun:"rel:belongs-to,join:vendor_id=id" json:"vendor,omitempty"`
	Wedding *Wedding `bun:"rel:belongs-to,join:wedding_id=id" json:"wedding,omitempty"`
}
