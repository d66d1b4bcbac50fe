package membership

import (
	"context"

	clientdomain "gym-app-go/internal/domain/client"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateClient(ctx context.Context, client *clientdomain.Client) error
	CreateMembership(ctx context.Context, membership *Membership) error
	CreatePayment(ctx context.Context, payment *Payment) error
	ListMembershipsByClient(ctx context.Context, clientID uint) ([]Membership, error)
	CancelActiveMemberships(ctx context.Context, clientID uint) (int64, error)
	CreateCancellation(ctx context.Context, cancellation *Cancellation) error
}
