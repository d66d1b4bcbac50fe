package classes

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	classesdomain "gym-app-go/internal/domain/classes"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(classesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

type classRow struct {
	ID             uint
	Name           string
	StartsAt       time.Time
	Capacity       int
	Location       string
	InstructorID   uint
	InstructorName string
	Enrolled       int64
}

func (row classRow) toSummary() classesdomain.ClassSummary {
	return classesdomain.ClassSummary{
		Class: classesdomain.Class{
			ID:           row.ID,
			Name:         row.Name,
			StartsAt:     row.StartsAt,
			Capacity:     row.Capacity,
			Location:     row.Location,
			InstructorID: row.InstructorID,
		},
		InstructorName: row.InstructorName,
		Enrolled:       row.Enrolled,
	}
}

func (r *PostgresRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("gym_classes").
		Select(`gym_classes.id, gym_classes.name, gym_classes.starts_at, gym_classes.capacity,
			gym_classes.location, gym_classes.instructor_id,
			COALESCE(staff.first_name || ' ' || staff.last_name, '') AS instructor_name,
			(SELECT COUNT(1) FROM enrollments
				WHERE enrollments.class_id = gym_classes.id AND enrollments.status = ?) AS enrolled`,
			classesdomain.EnrollmentActive).
		Joins("LEFT JOIN staff ON staff.id = gym_classes.instructor_id")
}

func scanSummaries(query *gorm.DB) ([]classesdomain.ClassSummary, error) {
	var rows []classRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]classesdomain.ClassSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toSummary())
	}
	return items, nil
}

func (r *PostgresRepository) ListClasses(ctx context.Context) ([]classesdomain.ClassSummary, error) {
	return scanSummaries(r.summaries(ctx).Order("gym_classes.starts_at, gym_classes.id"))
}

func (r *PostgresRepository) SearchClasses(ctx context.Context, query string) ([]classesdomain.ClassSummary, error) {
	pattern := likePattern(query)
	return scanSummaries(r.summaries(ctx).
		Where(`LOWER(gym_classes.name) LIKE ? ESCAPE '!'
			OR LOWER(gym_classes.location) LIKE ? ESCAPE '!'
			OR LOWER(COALESCE(staff.first_name || ' ' || staff.last_name, '')) LIKE ? ESCAPE '!'`,
			pattern, pattern, pattern).
		Order("gym_classes.starts_at, gym_classes.id"))
}

// GetClassSummaries keeps the order of ids, which carries index relevance.
func (r *PostgresRepository) GetClassSummaries(ctx context.Context, ids []uint) ([]classesdomain.ClassSummary, error) {
	if len(ids) == 0 {
		return []classesdomain.ClassSummary{}, nil
	}

	items, err := scanSummaries(r.summaries(ctx).Where("gym_classes.id IN ?", ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]classesdomain.ClassSummary, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]classesdomain.ClassSummary, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *PostgresRepository) GetClassByID(ctx context.Context, id uint) (*classesdomain.Class, error) {
	var class classesdomain.Class
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, classesdomain.ErrClassNotFound
		}
		return nil, err
	}
	return &class, nil
}

func (r *PostgresRepository) CreateClass(ctx context.Context, class *classesdomain.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *PostgresRepository) GetActiveEnrollment(ctx context.Context, clientID uint) (*classesdomain.Enrollment, error) {
	var enrollment classesdomain.Enrollment
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND status = ?", clientID, classesdomain.EnrollmentActive).
		Order("id desc").
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, classesdomain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *PostgresRepository) CountActiveEnrollments(ctx context.Context, classID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&classesdomain.Enrollment{}).
		Where("class_id = ? AND status = ?", classID, classesdomain.EnrollmentActive).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CreateEnrollment(ctx context.Context, enrollment *classesdomain.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *PostgresRepository) CancelEnrollment(ctx context.Context, enrollmentID uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&classesdomain.Enrollment{}).
		Where("id = ? AND status = ?", enrollmentID, classesdomain.EnrollmentActive).
		Updates(map[string]interface{}{
			"status":       classesdomain.EnrollmentCancelled,
			"cancelled_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return classesdomain.ErrEnrollmentNotFound
	}
	return nil
}

func likePattern(query string) string {
	replacer := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
}
