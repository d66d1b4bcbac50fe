package equipment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	equipmentdomain "gym-app-go/internal/domain/equipment"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(equipmentdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListEquipment(ctx context.Context) ([]equipmentdomain.Equipment, error) {
	var items []equipmentdomain.Equipment
	if err := r.db.WithContext(ctx).Order("name, id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetEquipmentByID(ctx context.Context, id uint) (*equipmentdomain.Equipment, error) {
	var item equipmentdomain.Equipment
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipmentdomain.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateEquipment(ctx context.Context, item *equipmentdomain.Equipment) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) CreateReservation(ctx context.Context, reservation *equipmentdomain.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *PostgresRepository) ListReservationsByClient(ctx context.Context, clientID uint) ([]equipmentdomain.Reservation, error) {
	var items []equipmentdomain.Reservation
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) FirstReservationByClient(ctx context.Context, clientID uint) (*equipmentdomain.Reservation, error) {
	var reservation equipmentdomain.Reservation
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id").
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipmentdomain.ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *PostgresRepository) DeleteReservation(ctx context.Context, clientID, reservationID uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&equipmentdomain.Reservation{}, "client_id = ? AND id = ?", clientID, reservationID)
	return result.RowsAffected > 0, result.Error
}
