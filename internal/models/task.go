package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          string     `bun:"id,pk" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description *string    `bun:"description" json:"description"`
	Deadline    time.Time  `bun:"deadline,notnull" json:"deadline"`
	Status      TaskStatus `bun:"status,notnull,default:'PENDING'" json:"status"`
	Priority    int        `bun:"priority,notnull,default:1" json:"priority"`
	WeddingID   string     `bun:"wedding_id,notnull" json:"weddingId"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Wedding *Wedding `bun:"rel:belongs-to,join:wedding_id=id" json:"-"`
}

type Expense struct {
	bun.BaseModel `bun:"table:expenses,alias:e"`

	ID         string          `bun:"id,pk" json:"id"`
	CategoryID string          `bun:"category_id,notnull" json:"categoryId"`
	Amount     decimal.Decimal `bun:"amount,type:decimal(12,2),notnull" json:"amount"`
	Remarks    *string         `bun:"remarks" json:"remarks"`
	Date       time.Time       `bun:"date,notnull" json:"date"`
	WeddingID  string          `bun:"wedding_id,notnull" json:"weddingId"`
	CreatedAt  time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Wedding  *Wedding  `bun:"rel:belongs-to,join:wedding_id=id" json:"-"`
}
