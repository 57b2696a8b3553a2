package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID   string `bun:"id,pk" json:"id"`
	Name string `bun:"name,unique,notnull" json:"name"`

	Counts *CategoryCounts `bun:"-" json:"_count,omitempty"`
}

type CategoryCounts struct {
	Vendors int `json:"vendors"`
}

// Vendor is a bookable service listing owned by a VENDOR user.
type Vendor struct {
	bun.BaseModel `bun:"table:vendors,alias:v"`

	ID          string          `bun:"id,pk" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	CategoryID  string          `bun:"category_id,notnull" json:"categoryId"`
	Description *string         `bun:"description" json:"description"`
	Cost        decimal.Decimal `bun:"cost,type:decimal(12,2),notnull" json:"cost"`
	Contact     string          `bun:"contact,notnull" json:"contact"`
	Email       *string         `bun:"email" json:"email"`
	Address     *string         `bun:"address" json:"address"`
	Images      []string        `bun:"images,type:jsonb,notnull" json:"images"`
	Rating      decimal.Decimal `bun:"rating,type:numeric,notnull,default:0" json:"rating"`
	UserID      string          `bun:"user_id,notnull" json:"userId"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Bookings []*Booking `bun:"rel:has-many,join:id=vendor_id" json:"bookings,omitempty"`

	Counts *VendorCounts `bun:"-" json:"_count,omitempty"`
}

type VendorCounts struct {
	Bookings int `json:"bookings"`
}
