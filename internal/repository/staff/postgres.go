package staff

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	staffdomain "gym-app-go/internal/domain/staff"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(staffdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListInstructors(ctx context.Context) ([]staffdomain.InstructorSummary, error) {
	var items []staffdomain.InstructorSummary
	err := r.db.WithContext(ctx).
		Table("instructors").
		Select(`instructors.staff_id, staff.first_name, staff.last_name,
			instructors.specialization, instructors.certificates,
			COALESCE(AVG(CAST(instructor_ratings.score AS FLOAT)), 0) AS average_score,
			COUNT(instructor_ratings.id) AS rating_count`).
		Joins("JOIN staff ON staff.id = instructors.staff_id").
		Joins("LEFT JOIN instructor_ratings ON instructor_ratings.instructor_id = instructors.staff_id").
		Group("instructors.staff_id, staff.first_name, staff.last_name, instructors.specialization, instructors.certificates").
		Order("staff.last_name, staff.first_name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetInstructor(ctx context.Context, staffID uint) (*staffdomain.Instructor, error) {
	var instructor staffdomain.Instructor
	if err := r.db.WithContext(ctx).Where("staff_id = ?", staffID).First(&instructor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staffdomain.ErrInstructorNotFound
		}
		return nil, err
	}
	return &instructor, nil
}

func (r *PostgresRepository) GetStaffByID(ctx context.Context, id uint) (*staffdomain.Staff, error) {
	var member staffdomain.Staff
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staffdomain.ErrStaffNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) CreateRating(ctx context.Context, rating *staffdomain.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

type scheduleRow struct {
	ID        uint
	Date      time.Time
	StartTime string
	EndTime   string
	StaffID   uint
	StaffName string
}

func (r *PostgresRepository) ListSchedule(ctx context.Context, day time.Time) ([]staffdomain.ScheduleEntry, error) {
	var rows []scheduleRow
	err := r.db.WithContext(ctx).
		Table("staff_schedules").
		Select(`staff_schedules.id, staff_schedules.date, staff_schedules.start_time,
			staff_schedules.end_time, staff_schedules.staff_id,
			staff.first_name || ' ' || staff.last_name AS staff_name`).
		Joins("JOIN staff ON staff.id = staff_schedules.staff_id").
		Where("staff_schedules.date >= ? AND staff_schedules.date < ?", day, day.AddDate(0, 0, 1)).
		Order("staff_schedules.start_time, staff.last_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]staffdomain.ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, staffdomain.ScheduleEntry{
			Schedule: staffdomain.Schedule{
				ID:        row.ID,
				Date:      row.Date,
				StartTime: row.StartTime,
				EndTime:   row.EndTime,
				StaffID:   row.StaffID,
			},
			StaffName: row.StaffName,
		})
	}
	return items, nil
}

func (r *PostgresRepository) CountFacilities(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&staffdomain.Facility{}).Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CreateFacility(ctx context.Context, facility *staffdomain.Facility) error {
	return r.db.WithContext(ctx).Create(facility).Error
}

func (r *PostgresRepository) CreateStaff(ctx context.Context, member *staffdomain.Staff) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return staffdomain.ErrStaffEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) CreateInstructor(ctx context.Context, instructor *staffdomain.Instructor) error {
	return r.db.WithContext(ctx).Create(instructor).Error
}

func (r *PostgresRepository) CreateOfficeWorker(ctx context.Context, worker *staffdomain.OfficeWorker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *PostgresRepository) CreateSchedule(ctx context.Context, schedule *staffdomain.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}
