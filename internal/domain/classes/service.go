package classes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym-app-go/internal/events"
	"gym-app-go/pkg/logger"
)

const maxQueryLength = 100

type Options struct {
	Index     Index
	Publisher events.Publisher
	Log       logger.Logger
	Now       func() time.Time
}

type Service struct {
	repo      Repository
	index     Index
	publisher events.Publisher
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:      repo,
		index:     opts.Index,
		publisher: opts.Publisher,
		log:       logger.OrNop(opts.Log),
		now:       opts.Now,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) ListClasses(ctx context.Context) ([]ClassSummary, error) {
	return s.repo.ListClasses(ctx)
}

// SearchClasses asks the index first and falls back to the database when the
// index is not configured or fails.
func (s *Service) SearchClasses(ctx context.Context, query string) ([]ClassSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.ListClasses(ctx)
	}
	if len([]rune(query)) > maxQueryLength {
		return nil, &ValidationError{Message: fmt.Sprintf("query must be at most %d characters", maxQueryLength)}
	}

	if s.index != nil {
		ids, err := s.index.SearchClassIDs(ctx, query)
		if err == nil {
			return s.repo.GetClassSummaries(ctx, ids)
		}
		s.log.InternalError("classes: index search failed, using database", err, "query", query)
	}

	return s.repo.SearchClasses(ctx, query)
}

func (s *Service) GetClass(ctx context.Context, id uint) (*Class, error) {
	return s.repo.GetClassByID(ctx, id)
}

func (s *Service) CreateClass(ctx context.Context, input CreateClassInput) (*Class, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Message: "class name is required"}
	}
	if input.Capacity <= 0 {
		return nil, &ValidationError{Message: "capacity must be positive"}
	}
	if input.InstructorID == 0 {
		return nil, &ValidationError{Message: "instructor is required"}
	}

	class := Class{
		Name:         name,
		StartsAt:     input.StartsAt.UTC(),
		Capacity:     input.Capacity,
		Location:     strings.TrimSpace(input.Location),
		InstructorID: input.InstructorID,
	}
	if err := s.repo.CreateClass(ctx, &class); err != nil {
		return nil, err
	}

	if s.index != nil {
		summaries, err := s.repo.GetClassSummaries(ctx, []uint{class.ID})
		if err == nil && len(summaries) == 1 {
			err = s.index.IndexClass(ctx, summaries[0])
		}
		if err != nil {
			s.log.InternalError("classes: index class failed", err, "class_id", class.ID)
		}
	}

	return &class, nil
}

// Reindex pushes every class into the index and returns how many were indexed.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	items, err := s.repo.ListClasses(ctx)
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if err := s.index.IndexClass(ctx, item); err != nil {
			return i, fmt.Errorf("index class %d: %w", item.ID, err)
		}
	}
	return len(items), nil
}

// Enroll makes classID the client's only active class. The previous active
// enrollment, if any, is cancelled in the same transaction. Enrolling again
// into the current class changes nothing.
func (s *Service) Enroll(ctx context.Context, clientID, classID uint) (*Enrollment, error) {
	now := s.now().UTC()

	var (
		result   Enrollment
		previous uint
		changed  bool
	)
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		class, err := repo.GetClassByID(ctx, classID)
		if err != nil {
			return err
		}

		active, err := repo.GetActiveEnrollment(ctx, clientID)
		if err != nil && !errors.Is(err, ErrEnrollmentNotFound) {
			return err
		}
		if active != nil && active.ClassID == class.ID {
			result = *active
			return nil
		}

		enrolled, err := repo.CountActiveEnrollments(ctx, class.ID)
		if err != nil {
			return err
		}
		if class.Capacity > 0 && enrolled >= int64(class.Capacity) {
			return ErrClassFull
		}

		if active != nil {
			if err := repo.CancelEnrollment(ctx, active.ID, now); err != nil {
				return err
			}
			previous = active.ClassID
		}

		result = Enrollment{
			ClientID:   clientID,
			ClassID:    class.ID,
			Status:     EnrollmentActive,
			EnrolledAt: now,
		}
		changed = true
		return repo.CreateEnrollment(ctx, &result)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		data := map[string]any{"class_id": classID}
		if previous != 0 {
			data["previous_class_id"] = previous
		}
		s.publish(ctx, events.New(events.ClassEnrolled, clientID, data))
	}
	return &result, nil
}

// Unenroll cancels the client's active enrollment. Having none is not an error.
func (s *Service) Unenroll(ctx context.Context, clientID uint) error {
	active, err := s.repo.GetActiveEnrollment(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.CancelEnrollment(ctx, active.ID, s.now().UTC()); err != nil {
		return err
	}

	s.publish(ctx, events.New(events.ClassUnenrolled, clientID, map[string]any{"class_id": active.ClassID}))
	return nil
}

// CurrentClass returns the class the client is actively enrolled in, or nil.
func (s *Service) CurrentClass(ctx context.Context, clientID uint) (*EnrolledClass, error) {
	active, err := s.repo.GetActiveEnrollment(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return nil, nil
		}
		return nil, err
	}

	class, err := s.repo.GetClassByID(ctx, active.ClassID)
	if err != nil {
		return nil, err
	}

	return &EnrolledClass{
		EnrollmentID: active.ID,
		EnrolledAt:   active.EnrolledAt,
		Class:        *class,
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.InternalError("classes: publish event failed", err, "type", event.Type)
	}
}
