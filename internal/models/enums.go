package models

import "github.com/shopspring/decimal"

func init() {
	// Clients read money and ratings as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Role string

const (
	RoleCouple Role = "COUPLE"
	RoleVendor Role = "VENDOR"
	RoleGuest  Role = "GUEST"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCouple, RoleVendor, RoleGuest, RoleAdmin:
		return true
	}
	return false
}

type RSVPStatus string

const (
	RSVPPending  RSVPStatus = "PENDING"
	RSVPAccepted RSVPStatus = "ACCEPTED"
	RSVPRejected RSVPStatus = "REJECTED"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPAccepted, RSVPRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentCompleted:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	return s.Ordinal() >= 0
}

// Ordinal is the declared position of the status, used for task ordering.
func (s TaskStatus) Ordinal() int {
	switch s {
	case TaskPending:
		return 0
	case TaskInProgress:
		return 1
	case TaskCompleted:
		return 2
	}
	return -1
}

const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityHigh
}
