package handler

import (
	"net/http"
	"time"

	staffdomain "gym-app-go/internal/domain/staff"
)

type instructorResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Certificates   string  `json:"certificates"`
	AverageScore   float64 `json:"average_score"`
	RatingCount    int64   `json:"rating_count"`
}

type scheduleEntryResponse struct {
	ID        uint   `json:"id"`
	StaffID   uint   `json:"staff_id"`
	StaffName string `json:"staff_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type scheduleResponse struct {
	Date  string                  `json:"date"`
	Items []scheduleEntryResponse `json:"items"`
}

func (h *Handlers) ListInstructors(w http.ResponseWriter, r *http.Request) {
	items, err := h.Staff.ListInstructors(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	response := make([]instructorResponse, 0, len(items))
	for _, item := range items {
		response = append(response, instructorResponse{
			ID:             item.StaffID,
			Name:           item.FirstName + " " + item.LastName,
			Specialization: item.Specialization,
			Certificates:   item.Certificates,
			AverageScore:   item.AverageScore,
			RatingCount:    item.RatingCount,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) RateInstructor(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		invalidRequest(w, "invalid form body")
		return
	}

	instructorID, err := parseID(r.PostForm.Get("instructor_id"))
	if err != nil {
		invalidRequest(w, "invalid instructor_id")
		return
	}
	score, err := parseIntField(r.PostForm.Get("score"))
	if err != nil {
		invalidRequest(w, "score must be a number")
		return
	}

	if _, err := h.Staff.RateInstructor(r.Context(), staffdomain.RateInput{
		ClientID:     client.ID,
		InstructorID: instructorID,
		Score:        score,
		Comment:      r.PostForm.Get("comment"),
	}); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	redirect(w, r, "/dashboard")
}

func (h *Handlers) Schedule(w http.ResponseWriter, r *http.Request) {
	day := h.now().UTC()
	parsed, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		invalidRequest(w, "date must be in YYYY-MM-DD format")
		return
	}
	if parsed != nil {
		day = *parsed
	}

	entries, err := h.Staff.ScheduleFor(r.Context(), day)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	response := scheduleResponse{
		Date:  day.Format(time.DateOnly),
		Items: make([]scheduleEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Items = append(response.Items, scheduleEntryResponse{
			ID:        entry.ID,
			StaffID:   entry.StaffID,
			StaffName: entry.StaffName,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
