package equipment

import "time"

type Equipment struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Type         string    `gorm:"not null;default:''"`
	Condition    string    `gorm:"not null;default:''"`
	PurchaseDate time.Time `gorm:"type:date;not null"`
	Location     string    `gorm:"not null;default:''"`
}

func (Equipment) TableName() string {
	return "equipment"
}

// Reservation is a time-boxed claim on a piece of equipment. Only the start
// and the duration are stored.
type Reservation struct {
	ID              uint      `gorm:"primaryKey"`
	StartsAt        time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	ClientID        uint      `gorm:"index;not null"`
	EquipmentID     uint      `gorm:"index;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Reservation) TableName() string {
	return "equipment_reservations"
}

func (r Reservation) EndsAt() time.Time {
	return r.StartsAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

type ReserveInput struct {
	ClientID        uint
	EquipmentID     uint
	Start           string
	DurationMinutes int
}

type CreateEquipmentInput struct {
	Name         string
	Type         string
	Condition    string
	PurchaseDate time.Time
	Location     string
}
