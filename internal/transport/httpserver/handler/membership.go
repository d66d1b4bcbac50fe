package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	membershipdomain "gym-app-go/internal/domain/membership"
	"gym-app-go/internal/mailer"
)

type passOfferResponse struct {
	Type         string `json:"type"`
	DurationDays int    `json:"duration_days"`
	PriceCents   int64  `json:"price_cents"`
	Price        string `json:"price"`
}

type buyPassFormResponse struct {
	Offers         []passOfferResponse `json:"offers"`
	PaymentMethods []string            `json:"payment_methods"`
	CSRFToken      string              `json:"csrf_token"`
}

type membershipResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	Active    bool   `json:"active"`
}

func toMembershipResponse(m membershipdomain.Membership, today time.Time) membershipResponse {
	return membershipResponse{
		ID:        m.ID,
		Type:      string(m.Type),
		StartDate: formatDate(m.StartDate),
		EndDate:   formatDate(m.EndDate),
		Status:    m.Status,
		Active:    m.IsActiveOn(today),
	}
}

func (h *Handlers) BuyPassForm(w http.ResponseWriter, r *http.Request) {
	offers := h.Memberships.Offers()
	response := buyPassFormResponse{
		Offers:         make([]passOfferResponse, 0, len(offers)),
		PaymentMethods: make([]string, 0, len(membershipdomain.PaymentMethods())),
		CSRFToken:      csrf.Token(r),
	}
	for _, offer := range offers {
		response.Offers = append(response.Offers, passOfferResponse{
			Type:         string(offer.Type),
			DurationDays: offer.DurationDays,
			PriceCents:   offer.PriceCents,
			Price:        mailer.FormatAmount(offer.PriceCents),
		})
	}
	for _, method := range membershipdomain.PaymentMethods() {
		response.PaymentMethods = append(response.PaymentMethods, string(method))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) BuyPass(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		invalidRequest(w, "invalid form body")
		return
	}

	purchase, err := h.Memberships.BuyPass(r.Context(), membershipdomain.BuyPassInput{
		FirstName:     r.PostForm.Get("name"),
		LastName:      r.PostForm.Get("surname"),
		BirthDate:     r.PostForm.Get("birth_date"),
		Phone:         r.PostForm.Get("phone"),
		Email:         r.PostForm.Get("email"),
		PassType:      r.PostForm.Get("pass_type"),
		PaymentMethod: r.PostForm.Get("payment_method"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Metrics.ObservePurchase(string(purchase.Membership.Type))
	h.log.Info("membership: purchased",
		"client_id", purchase.Client.ID,
		"membership_id", purchase.Membership.ID,
		"type", purchase.Membership.Type,
	)
	redirect(w, r, "/success")
}

func (h *Handlers) Success(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Karnet został zakupiony. Potwierdzenie wysłaliśmy na podany adres e-mail.",
		"login":   "/index",
	})
}

func (h *Handlers) CancelMembership(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		invalidRequest(w, "invalid form body")
		return
	}

	cancelled, err := h.Memberships.CancelMembership(r.Context(), client.ID, r.PostForm.Get("reason"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.Info("membership: cancelled", "client_id", client.ID, "count", cancelled)
	redirect(w, r, "/dashboard")
}
