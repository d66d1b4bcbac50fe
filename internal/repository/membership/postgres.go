package membership

import (
	"context"
	"errors"

	"gorm.io/gorm"

	clientdomain "gym-app-go/internal/domain/client"
	membershipdomain "gym-app-go/internal/domain/membership"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(membershipdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateClient(ctx context.Context, client *clientdomain.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return clientdomain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, membership *membershipdomain.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *PostgresRepository) CreatePayment(ctx context.Context, payment *membershipdomain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PostgresRepository) ListMembershipsByClient(ctx context.Context, clientID uint) ([]membershipdomain.Membership, error) {
	var items []membershipdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_date desc, id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CancelActiveMemberships(ctx context.Context, clientID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&membershipdomain.Membership{}).
		Where("client_id = ? AND status = ?", clientID, membershipdomain.StatusActive).
		Update("status", membershipdomain.StatusCancelled)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) CreateCancellation(ctx context.Context, cancellation *membershipdomain.Cancellation) error {
	return r.db.WithContext(ctx).Create(cancellation).Error
}
