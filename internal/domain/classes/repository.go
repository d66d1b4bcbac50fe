package classes

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListClasses(ctx context.Context) ([]ClassSummary, error)
	SearchClasses(ctx context.Context, query string) ([]ClassSummary, error)
	GetClassSummaries(ctx context.Context, ids []uint) ([]ClassSummary, error)
	GetClassByID(ctx context.Context, id uint) (*Class, error)
	CreateClass(ctx context.Context, class *Class) error

	GetActiveEnrollment(ctx context.Context, clientID uint) (*Enrollment, error)
	CountActiveEnrollments(ctx context.Context, classID uint) (int64, error)
	CreateEnrollment(ctx context.Context, enrollment *Enrollment) error
	CancelEnrollment(ctx context.Context, enrollmentID uint, at time.Time) error
}

// Index is a full-text index over classes. Implementations may be
// unavailable; callers fall back to the repository search.
type Index interface {
	IndexClass(ctx context.Context, class ClassSummary) error
	SearchClassIDs(ctx context.Context, query string) ([]uint, error)
}
