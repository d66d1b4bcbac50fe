package equipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gym-app-go/internal/events"
	"gym-app-go/pkg/logger"
)

const (
	StartLayout        = "2006-01-02 15:04"
	maxDurationMinutes = 24 * 60
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	log       logger.Logger
}

func NewService(repo Repository, publisher events.Publisher, log logger.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, log: logger.OrNop(log)}
}

func (s *Service) ListEquipment(ctx context.Context) ([]Equipment, error) {
	return s.repo.ListEquipment(ctx)
}

func (s *Service) CreateEquipment(ctx context.Context, input CreateEquipmentInput) (*Equipment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Message: "equipment name is required"}
	}

	item := Equipment{
		Name:         name,
		Type:         strings.TrimSpace(input.Type),
		Condition:    strings.TrimSpace(input.Condition),
		PurchaseDate: input.PurchaseDate,
		Location:     strings.TrimSpace(input.Location),
	}
	if err := s.repo.CreateEquipment(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Reserve books equipment for the client. Overlapping reservations are
// accepted; nothing checks for conflicts.
func (s *Service) Reserve(ctx context.Context, input ReserveInput) (*Reservation, error) {
	start, err := time.Parse(StartLayout, strings.TrimSpace(input.Start))
	if err != nil {
		return nil, &ValidationError{Message: "start must be in YYYY-MM-DD HH:MM format"}
	}
	if input.DurationMinutes <= 0 {
		return nil, &ValidationError{Message: "duration must be a positive number of minutes"}
	}
	if input.DurationMinutes > maxDurationMinutes {
		return nil, &ValidationError{Message: fmt.Sprintf("duration must be at most %d minutes", maxDurationMinutes)}
	}

	reservation := Reservation{
		StartsAt:        start,
		DurationMinutes: input.DurationMinutes,
		ClientID:        input.ClientID,
		EquipmentID:     input.EquipmentID,
	}

	err = s.repo.Transaction(ctx, func(repo Repository) error {
		if _, err := repo.GetEquipmentByID(ctx, input.EquipmentID); err != nil {
			return err
		}
		return repo.CreateReservation(ctx, &reservation)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EquipmentReserved, input.ClientID, map[string]any{
		"reservation_id": reservation.ID,
		"equipment_id":   reservation.EquipmentID,
		"starts_at":      reservation.StartsAt,
		"ends_at":        reservation.EndsAt(),
	}))
	return &reservation, nil
}

func (s *Service) ListReservations(ctx context.Context, clientID uint) ([]Reservation, error) {
	return s.repo.ListReservationsByClient(ctx, clientID)
}

// CancelReservation removes the client's first reservation by id.
func (s *Service) CancelReservation(ctx context.Context, clientID uint) (*Reservation, error) {
	var removed *Reservation
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		reservation, err := repo.FirstReservationByClient(ctx, clientID)
		if err != nil {
			return err
		}
		deleted, err := repo.DeleteReservation(ctx, clientID, reservation.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrReservationNotFound
		}
		removed = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.ReservationCancelled, clientID, map[string]any{
		"reservation_id": removed.ID,
		"equipment_id":   removed.EquipmentID,
	}))
	return removed, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.InternalError("equipment: publish event failed", err, "type", event.Type)
	}
}
