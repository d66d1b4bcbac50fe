package staff

import "time"

type Facility struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Address      string `gorm:"not null;default:''"`
	OpeningHours string `gorm:"not null;default:''"`
	Phone        string `gorm:"not null;default:''"`
}

const (
	StatusEmployed   = "employed"
	StatusTerminated = "terminated"
)

type Staff struct {
	ID              uint       `gorm:"primaryKey"`
	FirstName       string     `gorm:"not null"`
	LastName        string     `gorm:"not null"`
	BirthDate       time.Time  `gorm:"type:date;not null"`
	HiredOn         time.Time  `gorm:"type:date;not null"`
	TerminatedOn    *time.Time `gorm:"type:date"`
	HourlyRateCents int64      `gorm:"not null;default:0"`
	Email           string     `gorm:"not null;uniqueIndex"`
	Phone           string     `gorm:"not null;default:''"`
	Status          string     `gorm:"type:varchar(16);not null"`
	FacilityID      uint       `gorm:"index;not null"`
}

func (Staff) TableName() string {
	return "staff"
}

func (s Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Instructor and OfficeWorker are subtypes of Staff sharing its primary key.
type Instructor struct {
	StaffID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Specialization string `gorm:"not null;default:''"`
	Certificates   string `gorm:"type:text;not null;default:''"`
}

type OfficeWorker struct {
	StaffID  uint   `gorm:"primaryKey;autoIncrement:false"`
	Position string `gorm:"not null;default:''"`
}

// Schedule is one shift of a staff member. Times are HH:MM on Date.
type Schedule struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"type:date;not null;index"`
	StartTime string    `gorm:"type:varchar(5);not null"`
	EndTime   string    `gorm:"type:varchar(5);not null"`
	StaffID   uint      `gorm:"index;not null"`
}

func (Schedule) TableName() string {
	return "staff_schedules"
}

type Rating struct {
	ID           uint      `gorm:"primaryKey"`
	Date         time.Time `gorm:"type:date;not null"`
	Score        int       `gorm:"not null"`
	Comment      string    `gorm:"type:text;not null;default:''"`
	ClientID     uint      `gorm:"index;not null"`
	InstructorID uint      `gorm:"index;not null"`
}

func (Rating) TableName() string {
	return "instructor_ratings"
}

type InstructorSummary struct {
	StaffID        uint
	FirstName      string
	LastName       string
	Specialization string
	Certificates   string
	AverageScore   float64
	RatingCount    int64
}

type ScheduleEntry struct {
	Schedule
	StaffName string
}

type HireInput struct {
	FirstName       string
	LastName        string
	BirthDate       time.Time
	HiredOn         time.Time
	HourlyRateCents int64
	Email           string
	Phone           string
	FacilityID      uint
}

type RateInput struct {
	ClientID     uint
	InstructorID uint
	Score        int
	Comment      string
}

type ShiftInput struct {
	StaffID   uint
	Date      time.Time
	StartTime string
	EndTime   string
}
