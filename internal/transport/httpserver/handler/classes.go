package handler

import (
	"net/http"
	"time"

	classesdomain "gym-app-go/internal/domain/classes"
)

type classResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	StartsAt       time.Time `json:"starts_at"`
	Location       string    `json:"location"`
	Capacity       int       `json:"capacity"`
	Enrolled       int64     `json:"enrolled"`
	Full           bool      `json:"full"`
	InstructorID   uint      `json:"instructor_id"`
	InstructorName string    `json:"instructor_name"`
}

type classListResponse struct {
	Items []classResponse `json:"items"`
	Total int             `json:"total"`
}

type enrolledClassResponse struct {
	EnrollmentID uint      `json:"enrollment_id"`
	EnrolledAt   time.Time `json:"enrolled_at"`
	ClassID      uint      `json:"class_id"`
	Name         string    `json:"name"`
	StartsAt     time.Time `json:"starts_at"`
	Location     string    `json:"location"`
}

func toClassResponse(class classesdomain.ClassSummary) classResponse {
	return classResponse{
		ID:             class.ID,
		Name:           class.Name,
		StartsAt:       class.StartsAt,
		Location:       class.Location,
		Capacity:       class.Capacity,
		Enrolled:       class.Enrolled,
		Full:           class.Full(),
		InstructorID:   class.InstructorID,
		InstructorName: class.InstructorName,
	}
}

func toClassList(items []classesdomain.ClassSummary) classListResponse {
	response := make([]classResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toClassResponse(item))
	}
	return classListResponse{Items: response, Total: len(response)}
}

func toEnrolledClassResponse(enrolled *classesdomain.EnrolledClass) *enrolledClassResponse {
	if enrolled == nil {
		return nil
	}
	return &enrolledClassResponse{
		EnrollmentID: enrolled.EnrollmentID,
		EnrolledAt:   enrolled.EnrolledAt,
		ClassID:      enrolled.Class.ID,
		Name:         enrolled.Class.Name,
		StartsAt:     enrolled.Class.StartsAt,
		Location:     enrolled.Class.Location,
	}
}

func (h *Handlers) ListClasses(w http.ResponseWriter, r *http.Request) {
	items, err := h.Classes.ListClasses(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClassList(items))
}

func (h *Handlers) SearchClasses(w http.ResponseWriter, r *http.Request) {
	items, err := h.Classes.SearchClasses(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClassList(items))
}

func (h *Handlers) Enroll(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		invalidRequest(w, "invalid form body")
		return
	}
	classID, err := parseID(r.PostForm.Get("class_id"))
	if err != nil {
		invalidRequest(w, "invalid class_id")
		return
	}

	enrollment, err := h.Classes.Enroll(r.Context(), client.ID, classID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Metrics.ObserveEnrollment()
	h.log.Info("classes: enrolled", "client_id", client.ID, "class_id", enrollment.ClassID)
	redirect(w, r, "/dashboard")
}

func (h *Handlers) Unenroll(w http.ResponseWriter, r *http.Request) {
	client, ok := h.currentClient(w, r)
	if !ok {
		return
	}
	if err := h.Classes.Unenroll(r.Context(), client.ID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	redirect(w, r, "/dashboard")
}
