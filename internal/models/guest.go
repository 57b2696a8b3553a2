package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Guest struct {
	bun.BaseModel `bun:"table:guests,alias:g"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull,unique:guest_wedding_email" json:"email"`
	Phone     *string   `bun:"phone" json:"phone"`
	Address   *string   `bun:"address" json:"address"`
	Notes     *string   `bun:"notes" json:"notes"`
	WeddingID string    `bun:"wedding_id,notnull,unique:guest_wedding_email" json:"weddingId"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	RSVP    *RSVP    `bun:"rel:has-one,join:id=guest_id" json:"rsvp"`
	Wedding *Wedding `bun:"rel:belongs-to,join:wedding_id=id" json:"-"`
}

type RSVP struct {
	bun.BaseModel `bun:"table:rsvps,alias:r"`

	ID          string     `bun:"id,pk" json:"id"`
	GuestID     string     `bun:"guest_id,notnull,unique" json:"guestId"`
	Status      RSVPStatus `bun:"status,notnull,default:'PENDING'" json:"status"`
	NoOfPersons int        `bun:"no_of_persons,notnull,default:1" json:"noOfPersons"`
	Message     *string    `bun:"message" json:"message"`
	RespondedAt time.Time  `bun:"responded_at,nullzero,notnull,default:current_timestamp" json:"respondedAt"`
}
