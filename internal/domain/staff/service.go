package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym-app-go/internal/events"
	"gym-app-go/pkg/logger"
)

const (
	minScore         = 1
	maxScore         = 5
	maxCommentLength = 500
	shiftLayout      = "15:04"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, log logger.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, log: logger.OrNop(log), now: time.Now}
}

func (s *Service) ListInstructors(ctx context.Context) ([]InstructorSummary, error) {
	return s.repo.ListInstructors(ctx)
}

func (s *Service) RateInstructor(ctx context.Context, input RateInput) (*Rating, error) {
	if input.Score < minScore || input.Score > maxScore {
		return nil, &ValidationError{Message: fmt.Sprintf("score must be between %d and %d", minScore, maxScore)}
	}
	comment := strings.TrimSpace(input.Comment)
	if len([]rune(comment)) > maxCommentLength {
		return nil, &ValidationError{Message: fmt.Sprintf("comment must be at most %d characters", maxCommentLength)}
	}

	now := s.now().UTC()
	rating := Rating{
		Date:         time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Score:        input.Score,
		Comment:      comment,
		ClientID:     input.ClientID,
		InstructorID: input.InstructorID,
	}

	err := s.repo.Transaction(ctx, func(repo Repository) error {
		if _, err := repo.GetInstructor(ctx, input.InstructorID); err != nil {
			return err
		}
		return repo.CreateRating(ctx, &rating)
	})
	if err != nil {
		return nil, err
	}

	event := events.New(events.InstructorRated, input.ClientID, map[string]any{
		"instructor_id": rating.InstructorID,
		"score":         rating.Score,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.InternalError("staff: publish event failed", err, "type", event.Type)
	}
	return &rating, nil
}

func (s *Service) ScheduleFor(ctx context.Context, day time.Time) ([]ScheduleEntry, error) {
	return s.repo.ListSchedule(ctx, time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC))
}

func (s *Service) HasFacilities(ctx context.Context) (bool, error) {
	count, err := s.repo.CountFacilities(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) CreateFacility(ctx context.Context, facility Facility) (*Facility, error) {
	facility.Name = strings.TrimSpace(facility.Name)
	if facility.Name == "" {
		return nil, &ValidationError{Message: "facility name is required"}
	}
	facility.ID = 0
	if err := s.repo.CreateFacility(ctx, &facility); err != nil {
		return nil, err
	}
	return &facility, nil
}

func (s *Service) HireInstructor(ctx context.Context, input HireInput, specialization, certificates string) (*Staff, error) {
	return s.hire(ctx, input, func(repo Repository, member *Staff) error {
		return repo.CreateInstructor(ctx, &Instructor{
			StaffID:        member.ID,
			Specialization: strings.TrimSpace(specialization),
			Certificates:   strings.TrimSpace(certificates),
		})
	})
}

func (s *Service) HireOfficeWorker(ctx context.Context, input HireInput, position string) (*Staff, error) {
	return s.hire(ctx, input, func(repo Repository, member *Staff) error {
		return repo.CreateOfficeWorker(ctx, &OfficeWorker{
			StaffID:  member.ID,
			Position: strings.TrimSpace(position),
		})
	})
}

func (s *Service) hire(ctx context.Context, input HireInput, subtype func(Repository, *Staff) error) (*Staff, error) {
	member := Staff{
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		BirthDate:       input.BirthDate,
		HiredOn:         input.HiredOn,
		HourlyRateCents: input.HourlyRateCents,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           strings.TrimSpace(input.Phone),
		Status:          StatusEmployed,
		FacilityID:      input.FacilityID,
	}
	switch {
	case member.FirstName == "" || member.LastName == "":
		return nil, &ValidationError{Message: "staff name is required"}
	case member.Email == "":
		return nil, &ValidationError{Message: "staff email is required"}
	case member.FacilityID == 0:
		return nil, &ValidationError{Message: "facility is required"}
	case member.HourlyRateCents < 0:
		return nil, &ValidationError{Message: "hourly rate cannot be negative"}
	}

	err := s.repo.Transaction(ctx, func(repo Repository) error {
		if err := repo.CreateStaff(ctx, &member); err != nil {
			return err
		}
		return subtype(repo, &member)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Service) AddShift(ctx context.Context, input ShiftInput) (*Schedule, error) {
	start, err := time.Parse(shiftLayout, strings.TrimSpace(input.StartTime))
	if err != nil {
		return nil, &ValidationError{Message: "start time must be in HH:MM format"}
	}
	end, err := time.Parse(shiftLayout, strings.TrimSpace(input.EndTime))
	if err != nil {
		return nil, &ValidationError{Message: "end time must be in HH:MM format"}
	}
	if !end.After(start) {
		return nil, &ValidationError{Message: "end time must be after start time"}
	}

	schedule := Schedule{
		Date:      time.Date(input.Date.Year(), input.Date.Month(), input.Date.Day(), 0, 0, 0, 0, time.UTC),
		StartTime: start.Format(shiftLayout),
		EndTime:   end.Format(shiftLayout),
		StaffID:   input.StaffID,
	}

	err = s.repo.Transaction(ctx, func(repo Repository) error {
		if _, err := repo.GetStaffByID(ctx, input.StaffID); err != nil {
			if errors.Is(err, ErrStaffNotFound) {
				return &ValidationError{Message: "unknown staff member"}
			}
			return err
		}
		return repo.CreateSchedule(ctx, &schedule)
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}
