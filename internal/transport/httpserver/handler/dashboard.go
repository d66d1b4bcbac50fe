package handler

import (
	"net/http"

	"github.com/gorilla/csrf"
)

type clientResponse struct {
	ID           uint   `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BirthDate    string `json:"birth_date"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}

type dashboardResponse struct {
	Client       clientResponse         `json:"client"`
	Memberships  []membershipResponse   `json:"memberships"`
	CurrentClass *enrolledClassResponse `json:"current_class"`
	Reservations []reservationResponse  `json:"reservations"`
	Classes      []classResponse        `json:"classes"`
	Equipment    []equipmentResponse    `json:"equipment"`
	CSRFToken    string                 `json:"csrf_token"`
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	memberships, err := h.Memberships.ListMemberships(ctx, client.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	current, err := h.Classes.CurrentClass(ctx, client.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	reservations, err := h.Equipment.ListReservations(ctx, client.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	classes, err := h.Classes.ListClasses(ctx)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	equipment, err := h.Equipment.ListEquipment(ctx)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	today := h.now().UTC()
	response := dashboardResponse{
		Client: clientResponse{
			ID:           client.ID,
			FirstName:    client.FirstName,
			LastName:     client.LastName,
			BirthDate:    formatDate(client.BirthDate),
			Phone:        client.Phone,
			Email:        client.Email,
			RegisteredAt: formatDate(client.RegisteredAt),
		},
		Memberships:  make([]membershipResponse, 0, len(memberships)),
		CurrentClass: toEnrolledClassResponse(current),
		Reservations: toReservationResponses(reservations),
		Classes:      toClassList(classes).Items,
		Equipment:    toEquipmentResponses(equipment),
		CSRFToken:    csrf.Token(r),
	}
	for _, membership := range memberships {
		response.Memberships = append(response.Memberships, toMembershipResponse(membership, today))
	}
	writeJSON(w, http.StatusOK, response)
}
