package classes

import "time"

// Class is a scheduled activity led by an instructor.
type Class struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	StartsAt     time.Time `gorm:"not null;index"`
	Capacity     int       `gorm:"not null"`
	Location     string    `gorm:"not null;default:''"`
	InstructorID uint      `gorm:"index;not null"`
}

func (Class) TableName() string {
	return "gym_classes"
}

const (
	EnrollmentActive    = "active"
	EnrollmentCancelled = "cancelled"
)

// Enrollment links a client to a class. A client has at most one active
// enrollment; replaced ones are kept as cancelled history.
type Enrollment struct {
	ID          uint       `gorm:"primaryKey"`
	ClientID    uint       `gorm:"index;not null"`
	ClassID     uint       `gorm:"index;not null"`
	Status      string     `gorm:"type:varchar(16);not null;index"`
	EnrolledAt  time.Time  `gorm:"not null"`
	CancelledAt *time.Time
}

type ClassSummary struct {
	Class
	InstructorName string
	Enrolled       int64
}

func (c ClassSummary) Full() bool {
	return c.Capacity > 0 && c.Enrolled >= int64(c.Capacity)
}

type EnrolledClass struct {
	EnrollmentID uint
	EnrolledAt   time.Time
	Class        Class
}

type CreateClassInput struct {
	Name         string
	StartsAt     time.Time
	Capacity     int
	Location     string
	InstructorID uint
}
