package staff

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListInstructors(ctx context.Context) ([]InstructorSummary, error)
	GetInstructor(ctx context.Context, staffID uint) (*Instructor, error)
	GetStaffByID(ctx context.Context, id uint) (*Staff, error)
	CreateRating(ctx context.Context, rating *Rating) error
	ListSchedule(ctx context.Context, day time.Time) ([]ScheduleEntry, error)

	CountFacilities(ctx context.Context) (int64, error)
	CreateFacility(ctx context.Context, facility *Facility) error
	CreateStaff(ctx context.Context, member *Staff) error
	CreateInstructor(ctx context.Context, instructor *Instructor) error
	CreateOfficeWorker(ctx context.Context, worker *OfficeWorker) error
	CreateSchedule(ctx context.Context, schedule *Schedule) error
}
