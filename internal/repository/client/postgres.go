package client

import (
	"context"
	"errors"

	"gorm.io/gorm"

	clientdomain "gym-app-go/internal/domain/client"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetClientByID(ctx context.Context, id uint) (*clientdomain.Client, error) {
	var client clientdomain.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clientdomain.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *PostgresRepository) FindByCredentials(ctx context.Context, phone, email string) (*clientdomain.Client, error) {
	var client clientdomain.Client
	if err := r.db.WithContext(ctx).
		Where("phone = ? AND LOWER(email) = ?", phone, email).
		Order("id").
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clientdomain.ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}
