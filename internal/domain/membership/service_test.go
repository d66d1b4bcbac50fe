package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	clientdomain "gym-app-go/internal/domain/client"
	"gym-app-go/internal/events"
	"gym-app-go/internal/mailer"
)

type fakeMembershipRepo struct {
	clients       []clientdomain.Client
	memberships   []Membership
	payments      []Payment
	cancellations []Cancellation
	createErr     error
}

func (r *fakeMembershipRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeMembershipRepo) CreateClient(ctx context.Context, client *clientdomain.Client) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.clients {
		if existing.Email == client.Email {
			return clientdomain.ErrEmailTaken
		}
	}
	client.ID = uint(len(r.clients) + 1)
	r.clients = append(r.clients, *client)
	return nil
}

func (r *fakeMembershipRepo) CreateMembership(ctx context.Context, membership *Membership) error {
	membership.ID = uint(len(r.memberships) + 1)
	r.memberships = append(r.memberships, *membership)
	return nil
}

func (r *fakeMembershipRepo) CreatePayment(ctx context.Context, payment *Payment) error {
	payment.ID = uint(len(r.payments) + 1)
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *fakeMembershipRepo) ListMembershipsByClient(ctx context.Context, clientID uint) ([]Membership, error) {
	var items []Membership
	for _, m := range r.memberships {
		if m.ClientID == clientID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (r *fakeMembershipRepo) CancelActiveMemberships(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	for i := range r.memberships {
		if r.memberships[i].ClientID == clientID && r.memberships[i].Status == StatusActive {
			r.memberships[i].Status = StatusCancelled
			count++
		}
	}
	return count, nil
}

func (r *fakeMembershipRepo) CreateCancellation(ctx context.Context, cancellation *Cancellation) error {
	cancellation.ID = uint(len(r.cancellations) + 1)
	r.cancellations = append(r.cancellations, *cancellation)
	return nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMailer struct {
	messages []mailer.Message
	err      error
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.messages = append(m.messages, msg)
	return m.err
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 15, 30, 0, 0, time.UTC)
	}
}

func validInput(passType string) BuyPassInput {
	return BuyPassInput{
		FirstName: "Anna",
		LastName:  "Nowak",
		BirthDate: "1990-05-17",
		Phone:     "600100200",
		Email:     "Anna@Example.com",
		PassType:  passType,
	}
}

func TestBuyPassEndDates(t *testing.T) {
	cases := []struct {
		passType string
		wantEnd  time.Time
	}{
		{passType: "monthly", wantEnd: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{passType: "yearly", wantEnd: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		repo := &fakeMembershipRepo{}
		service := NewService(repo, Options{Now: fixedClock(2024, time.January, 1)})

		purchase, err := service.BuyPass(context.Background(), validInput(tc.passType))
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.passType, err)
		}
		wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if !purchase.Membership.StartDate.Equal(wantStart) {
			t.Fatalf("%s: expected start %v, got %v", tc.passType, wantStart, purchase.Membership.StartDate)
		}
		if !purchase.Membership.EndDate.Equal(tc.wantEnd) {
			t.Fatalf("%s: expected end %v, got %v", tc.passType, tc.wantEnd, purchase.Membership.EndDate)
		}
		if purchase.Membership.Status != StatusActive {
			t.Fatalf("expected status %q, got %q", StatusActive, purchase.Membership.Status)
		}
	}
}

func TestEndDateIgnoresLeapYears(t *testing.T) {
	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	end, err := EndDate(start, PassYearly)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("expected %v, got %v", want, end)
	}

	if _, err := EndDate(start, PassType("weekly")); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestBuyPassRecordsPaymentWithConfiguredPrice(t *testing.T) {
	repo := &fakeMembershipRepo{}
	service := NewService(repo, Options{
		Prices: Prices{MonthlyCents: 12000, YearlyCents: 99900},
		Now:    fixedClock(2024, time.March, 10),
	})

	input := validInput("yearly")
	input.PaymentMethod = "Cash"
	purchase, err := service.BuyPass(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(repo.payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(repo.payments))
	}
	payment := repo.payments[0]
	if payment.AmountCents != 99900 || payment.Method != PaymentCash {
		t.Fatalf("unexpected payment %+v", payment)
	}
	if payment.MembershipID != purchase.Membership.ID || payment.ClientID != purchase.Client.ID {
		t.Fatalf("payment not linked: %+v", payment)
	}
	if purchase.Client.Email != "anna@example.com" {
		t.Fatalf("expected normalized email, got %q", purchase.Client.Email)
	}
}

func TestBuyPassDefaultsToCard(t *testing.T) {
	repo := &fakeMembershipRepo{}
	service := NewService(repo, Options{Now: fixedClock(2024, time.March, 10)})

	if _, err := service.BuyPass(context.Background(), validInput("monthly")); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if repo.payments[0].Method != PaymentCard {
		t.Fatalf("expected card, got %q", repo.payments[0].Method)
	}
}

func TestBuyPassValidation(t *testing.T) {
	cases := map[string]func(*BuyPassInput){
		"bad birth date":  func(in *BuyPassInput) { in.BirthDate = "17.05.1990" },
		"future birth":    func(in *BuyPassInput) { in.BirthDate = "2030-01-01" },
		"unknown type":    func(in *BuyPassInput) { in.PassType = "weekly" },
		"missing name":    func(in *BuyPassInput) { in.FirstName = " " },
		"missing surname": func(in *BuyPassInput) { in.LastName = "" },
		"missing phone":   func(in *BuyPassInput) { in.Phone = "" },
		"bad email":       func(in *BuyPassInput) { in.Email = "nope" },
		"bad method":      func(in *BuyPassInput) { in.PaymentMethod = "crypto" },
	}

	for name, mutate := range cases {
		repo := &fakeMembershipRepo{}
		service := NewService(repo, Options{Now: fixedClock(2024, time.January, 1)})

		input := validInput("monthly")
		mutate(&input)
		_, err := service.BuyPass(context.Background(), input)

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
		if len(repo.clients) != 0 || len(repo.memberships) != 0 {
			t.Fatalf("%s: expected nothing persisted", name)
		}
	}
}

func TestBuyPassDuplicateEmail(t *testing.T) {
	repo := &fakeMembershipRepo{}
	publisher := &recordingPublisher{}
	service := NewService(repo, Options{Publisher: publisher, Now: fixedClock(2024, time.January, 1)})

	if _, err := service.BuyPass(context.Background(), validInput("monthly")); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	_, err := service.BuyPass(context.Background(), validInput("yearly"))
	if !errors.Is(err, clientdomain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected only the first purchase to be published, got %d", len(publisher.events))
	}
}

func TestBuyPassSideEffectFailuresAreNotSurfaced(t *testing.T) {
	repo := &fakeMembershipRepo{}
	publisher := &recordingPublisher{err: errors.New("kafka down")}
	mail := &recordingMailer{err: errors.New("resend down")}
	service := NewService(repo, Options{Publisher: publisher, Mailer: mail, Now: fixedClock(2024, time.January, 1)})

	if _, err := service.BuyPass(context.Background(), validInput("monthly")); err != nil {
		t.Fatalf("expected purchase to succeed, got %v", err)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != events.MembershipPurchased {
		t.Fatalf("expected purchase event, got %+v", publisher.events)
	}
	if len(mail.messages) != 1 || mail.messages[0].To[0] != "anna@example.com" {
		t.Fatalf("expected confirmation email, got %+v", mail.messages)
	}
}

func TestBuyPassRepositoryErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	repo := &fakeMembershipRepo{createErr: boom}
	service := NewService(repo, Options{Now: fixedClock(2024, time.January, 1)})

	if _, err := service.BuyPass(context.Background(), validInput("monthly")); !errors.Is(err, boom) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestCancelMembership(t *testing.T) {
	repo := &fakeMembershipRepo{
		memberships: []Membership{
			{ID: 1, ClientID: 5, Status: StatusActive},
			{ID: 2, ClientID: 5, Status: StatusCancelled},
			{ID: 3, ClientID: 6, Status: StatusActive},
		},
	}
	service := NewService(repo, Options{})

	if _, err := service.CancelMembership(context.Background(), 5, "   "); err == nil {
		t.Fatalf("expected error for blank reason")
	}

	count, err := service.CancelMembership(context.Background(), 5, " moving away ")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cancelled membership, got %d", count)
	}
	if repo.memberships[2].Status != StatusActive {
		t.Fatalf("other client's membership must stay active")
	}
	if len(repo.cancellations) != 1 || repo.cancellations[0].Reason != "moving away" {
		t.Fatalf("unexpected cancellations %+v", repo.cancellations)
	}
}

func TestMembershipIsActiveOn(t *testing.T) {
	m := Membership{
		Status:  StatusActive,
		EndDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if !m.IsActiveOn(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected active on the end date")
	}
	if m.IsActiveOn(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected expired after the end date")
	}
	m.Status = StatusCancelled
	if m.IsActiveOn(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("cancelled membership is never active")
	}
}

func TestOffersUsePrices(t *testing.T) {
	service := NewService(&fakeMembershipRepo{}, Options{Prices: Prices{MonthlyCents: 100, YearlyCents: 1000}})

	offers := service.Offers()
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	if offers[0].Type != PassMonthly || offers[0].DurationDays != 30 || offers[0].PriceCents != 100 {
		t.Fatalf("unexpected monthly offer %+v", offers[0])
	}
	if offers[1].Type != PassYearly || offers[1].DurationDays != 365 || offers[1].PriceCents != 1000 {
		t.Fatalf("unexpected yearly offer %+v", offers[1])
	}
}
