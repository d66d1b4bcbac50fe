package membership

import (
	"time"

	clientdomain "gym-app-go/internal/domain/client"
)

type PassType string

const (
	PassMonthly PassType = "monthly"
	PassYearly  PassType = "yearly"
)

// DurationDays is the fixed validity of each pass type. There is no
// calendar-month or leap-year adjustment.
func (t PassType) DurationDays() (int, bool) {
	switch t {
	case PassMonthly:
		return 30, true
	case PassYearly:
		return 365, true
	default:
		return 0, false
	}
}

func PassTypes() []PassType {
	return []PassType{PassMonthly, PassYearly}
}

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCard, PaymentCash, PaymentTransfer}
}

const (
	StatusActive    = "Active"
	StatusCancelled = "Cancelled"
)

type Membership struct {
	ID        uint      `gorm:"primaryKey"`
	ClientID  uint      `gorm:"index;not null"`
	Type      PassType  `gorm:"type:varchar(16);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Status    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// IsActiveOn reports whether the membership is usable on day. The stored
// status is not rewritten when the end date passes.
func (m Membership) IsActiveOn(day time.Time) bool {
	return m.Status == StatusActive && !truncateDay(day).After(truncateDay(m.EndDate))
}

type Payment struct {
	ID           uint          `gorm:"primaryKey"`
	Date         time.Time     `gorm:"type:date;not null"`
	AmountCents  int64         `gorm:"not null"`
	Method       PaymentMethod `gorm:"type:varchar(16);not null"`
	ClientID     uint          `gorm:"index;not null"`
	MembershipID uint          `gorm:"index;not null"`
}

type Cancellation struct {
	ID        uint      `gorm:"primaryKey"`
	Reason    string    `gorm:"type:text;not null"`
	ClientID  uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Prices are expressed in the smallest currency unit.
type Prices struct {
	MonthlyCents int64
	YearlyCents  int64
}

func (p Prices) For(t PassType) int64 {
	switch t {
	case PassYearly:
		return p.YearlyCents
	default:
		return p.MonthlyCents
	}
}

type PassOffer struct {
	Type         PassType
	DurationDays int
	PriceCents   int64
}

type BuyPassInput struct {
	FirstName     string
	LastName      string
	BirthDate     string
	Phone         string
	Email         string
	PassType      string
	PaymentMethod string
}

type Purchase struct {
	Client     clientdomain.Client
	Membership Membership
	Payment    Payment
}
