package membership

import (
	"context"
	"fmt"
	"strings"
	"time"

	clientdomain "gym-app-go/internal/domain/client"
	"gym-app-go/internal/events"
	"gym-app-go/internal/mailer"
	"gym-app-go/pkg/logger"
)

const (
	dateLayout      = "2006-01-02"
	maxReasonLength = 1000
)

type Options struct {
	Prices    Prices
	Publisher events.Publisher
	Mailer    mailer.Sender
	Log       logger.Logger
	Now       func() time.Time
}

type Service struct {
	repo      Repository
	prices    Prices
	publisher events.Publisher
	mailer    mailer.Sender
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:      repo,
		prices:    opts.Prices,
		publisher: opts.Publisher,
		mailer:    opts.Mailer,
		log:       logger.OrNop(opts.Log),
		now:       opts.Now,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.mailer == nil {
		s.mailer = mailer.NewNopSender(s.log)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Offers() []PassOffer {
	offers := make([]PassOffer, 0, len(PassTypes()))
	for _, passType := range PassTypes() {
		days, _ := passType.DurationDays()
		offers = append(offers, PassOffer{
			Type:         passType,
			DurationDays: days,
			PriceCents:   s.prices.For(passType),
		})
	}
	return offers
}

// BuyPass registers a new client together with the first membership and its
// payment. The three rows are written in one transaction, so a duplicate
// email leaves nothing behind.
func (s *Service) BuyPass(ctx context.Context, input BuyPassInput) (*Purchase, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	phone := strings.TrimSpace(input.Phone)
	email := clientdomain.NormalizeEmail(input.Email)

	switch {
	case firstName == "":
		return nil, invalid("name is required")
	case lastName == "":
		return nil, invalid("surname is required")
	case phone == "":
		return nil, invalid("phone is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, invalid("valid email is required")
	}

	birthDate, err := time.Parse(dateLayout, strings.TrimSpace(input.BirthDate))
	if err != nil {
		return nil, invalid("birth date must be in YYYY-MM-DD format")
	}

	passType := PassType(strings.ToLower(strings.TrimSpace(input.PassType)))
	if _, ok := passType.DurationDays(); !ok {
		return nil, invalid(fmt.Sprintf("unknown membership type %q", input.PassType))
	}

	method, err := parsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	today := truncateDay(now)
	if birthDate.After(today) {
		return nil, invalid("birth date cannot be in the future")
	}
	end, err := EndDate(today, passType)
	if err != nil {
		return nil, err
	}

	purchase := Purchase{
		Client: clientdomain.Client{
			FirstName:    firstName,
			LastName:     lastName,
			BirthDate:    birthDate,
			RegisteredAt: now,
			Phone:        phone,
			Email:        email,
		},
		Membership: Membership{
			Type:      passType,
			StartDate: today,
			EndDate:   end,
			Status:    StatusActive,
		},
		Payment: Payment{
			Date:        today,
			AmountCents: s.prices.For(passType),
			Method:      method,
		},
	}

	err = s.repo.Transaction(ctx, func(repo Repository) error {
		if err := repo.CreateClient(ctx, &purchase.Client); err != nil {
			return err
		}
		purchase.Membership.ClientID = purchase.Client.ID
		if err := repo.CreateMembership(ctx, &purchase.Membership); err != nil {
			return err
		}
		purchase.Payment.ClientID = purchase.Client.ID
		purchase.Payment.MembershipID = purchase.Membership.ID
		return repo.CreatePayment(ctx, &purchase.Payment)
	})
	if err != nil {
		return nil, err
	}

	s.afterPurchase(ctx, &purchase)
	return &purchase, nil
}

func (s *Service) ListMemberships(ctx context.Context, clientID uint) ([]Membership, error) {
	return s.repo.ListMembershipsByClient(ctx, clientID)
}

// CancelMembership stores the resignation reason and cancels every active
// membership of the client.
func (s *Service) CancelMembership(ctx context.Context, clientID uint, reason string) (int64, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return 0, invalid("reason is required")
	}
	if len([]rune(reason)) > maxReasonLength {
		return 0, invalid(fmt.Sprintf("reason must be at most %d characters", maxReasonLength))
	}

	var cancelled int64
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		if err := repo.CreateCancellation(ctx, &Cancellation{Reason: reason, ClientID: clientID}); err != nil {
			return err
		}
		count, err := repo.CancelActiveMemberships(ctx, clientID)
		if err != nil {
			return err
		}
		cancelled = count
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, events.New(events.MembershipCancelled, clientID, map[string]any{
		"cancelled": cancelled,
	}))
	return cancelled, nil
}

// EndDate adds the fixed duration of passType to start.
func EndDate(start time.Time, passType PassType) (time.Time, error) {
	days, ok := passType.DurationDays()
	if !ok {
		return time.Time{}, invalid(fmt.Sprintf("unknown membership type %q", passType))
	}
	return start.AddDate(0, 0, days), nil
}

func (s *Service) afterPurchase(ctx context.Context, purchase *Purchase) {
	s.publish(ctx, events.New(events.MembershipPurchased, purchase.Client.ID, map[string]any{
		"membership_id": purchase.Membership.ID,
		"type":          purchase.Membership.Type,
		"start_date":    purchase.Membership.StartDate.Format(dateLayout),
		"end_date":      purchase.Membership.EndDate.Format(dateLayout),
		"amount_cents":  purchase.Payment.AmountCents,
	}))

	msg, err := mailer.PurchaseConfirmation(mailer.PurchaseDetails{
		Email:       purchase.Client.Email,
		Name:        purchase.Client.FirstName,
		PassType:    string(purchase.Membership.Type),
		Start:       purchase.Membership.StartDate,
		End:         purchase.Membership.EndDate,
		AmountCents: purchase.Payment.AmountCents,
		Method:      string(purchase.Payment.Method),
	})
	if err != nil {
		s.log.InternalError("membership: render confirmation failed", err, "client_id", purchase.Client.ID)
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.InternalError("membership: send confirmation failed", err, "client_id", purchase.Client.ID)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.InternalError("membership: publish event failed", err, "type", event.Type)
	}
}

func parsePaymentMethod(value string) (PaymentMethod, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return PaymentCard, nil
	}
	for _, method := range PaymentMethods() {
		if PaymentMethod(value) == method {
			return method, nil
		}
	}
	return "", invalid(fmt.Sprintf("unknown payment method %q", value))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
