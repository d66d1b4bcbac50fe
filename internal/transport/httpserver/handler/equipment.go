package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	equipmentdomain "gym-app-go/internal/domain/equipment"
)

type equipmentResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Condition    string `json:"condition"`
	PurchaseDate string `json:"purchase_date"`
	Location     string `json:"location"`
}

type reservationResponse struct {
	ID              uint      `json:"id"`
	EquipmentID     uint      `json:"equipment_id"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

type reservationFormResponse struct {
	Equipment    []equipmentResponse   `json:"equipment"`
	Reservations []reservationResponse `json:"reservations"`
	StartFormat  string                `json:"start_format"`
	CSRFToken    string                `json:"csrf_token"`
}

func toEquipmentResponses(items []equipmentdomain.Equipment) []equipmentResponse {
	response := make([]equipmentResponse, 0, len(items))
	for _, item := range items {
		response = append(response, equipmentResponse{
			ID:           item.ID,
			Name:         item.Name,
			Type:         item.Type,
			Condition:    item.Condition,
			PurchaseDate: formatDate(item.PurchaseDate),
			Location:     item.Location,
		})
	}
	return response
}

func toReservationResponses(items []equipmentdomain.Reservation) []reservationResponse {
	response := make([]reservationResponse, 0, len(items))
	for _, item := range items {
		response = append(response, reservationResponse{
			ID:              item.ID,
			EquipmentID:     item.EquipmentID,
			StartsAt:        item.StartsAt,
			EndsAt:          item.EndsAt(),
			DurationMinutes: item.DurationMinutes,
		})
	}
	return response
}

func (h *Handlers) ReservationForm(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}

	equipment, err := h.Equipment.ListEquipment(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	reservations, err := h.Equipment.ListReservations(r.Context(), client.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reservationFormResponse{
		Equipment:    toEquipmentResponses(equipment),
		Reservations: toReservationResponses(reservations),
		StartFormat:  "YYYY-MM-DD HH:MM",
		CSRFToken:    csrf.Token(r),
	})
}

func (h *Handlers) Reserve(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		invalidRequest(w, "invalid form body")
		return
	}

	equipmentID, err := parseID(r.PostForm.Get("equipment_id"))
	if err != nil {
		invalidRequest(w, "invalid equipment_id")
		return
	}
	duration, err := parseIntField(r.PostForm.Get("duration"))
	if err != nil {
		invalidRequest(w, "duration must be a whole number of minutes")
		return
	}

	reservation, err := h.Equipment.Reserve(r.Context(), equipmentdomain.ReserveInput{
		ClientID:        client.ID,
		EquipmentID:     equipmentID,
		Start:           r.PostForm.Get("start"),
		DurationMinutes: duration,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Metrics.ObserveReservation()
	h.log.Info("equipment: reserved",
		"client_id", client.ID,
		"equipment_id", reservation.EquipmentID,
		"ends_at", reservation.EndsAt(),
	)
	redirect(w, r, "/dashboard")
}

func (h *Handlers) CancelReservation(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}
	removed, err := h.Equipment.CancelReservation(r.Context(), client.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.Info("equipment: reservation cancelled", "client_id", client.ID, "reservation_id", removed.ID)
	redirect(w, r, "/dashboard")
}
