package equipment

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListEquipment(ctx context.Context) ([]Equipment, error)
	GetEquipmentByID(ctx context.Context, id uint) (*Equipment, error)
	CreateEquipment(ctx context.Context, item *Equipment) error

	CreateReservation(ctx context.Context, reservation *Reservation) error
	ListReservationsByClient(ctx context.Context, clientID uint) ([]Reservation, error)
	FirstReservationByClient(ctx context.Context, clientID uint) (*Reservation, error)
	DeleteReservation(ctx context.Context, clientID, reservationID uint) (bool, error)
}
