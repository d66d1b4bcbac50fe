package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	clientdomain "gym-app-go/internal/domain/client"
	"gym-app-go/internal/transport/httpserver/middleware"
)

const errInvalidCredentials = "invalid_credentials"

type indexResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
	CSRFToken     string `json:"csrf_token"`
}

func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/buy_pass")
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	_, authenticated := middleware.ClientIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, indexResponse{
		Authenticated: authenticated,
		Error:         strings.TrimSpace(r.URL.Query().Get("error")),
		CSRFToken:     csrf.Token(r),
	})
}

// Login matches phone and email against registered clients. A failed match
// sends the browser back to the landing page without a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		invalidRequest(w, "invalid form body")
		return
	}

	client, err := h.Clients.Login(r.Context(), clientdomain.Credentials{
		Phone: r.PostForm.Get("phone"),
		Email: r.PostForm.Get("email"),
	})
	if err != nil {
		if errors.Is(err, clientdomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth: login rejected", err)
			redirect(w, r, "/index?error="+errInvalidCredentials)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	if err := h.Sessions.Start(w, r, client.ID); err != nil {
		h.internalError(w, r, err)
		return
	}
	h.log.Info("auth: login", "client_id", client.ID)
	redirect(w, r, "/dashboard")
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(w, r); err != nil {
		h.log.InternalError("auth: end session failed", err)
	}
	redirect(w, r, "/index")
}

// currentClient resolves the session's client. It writes the 401 itself when
// the session is missing or the client no longer exists.
func (h *Handlers) currentClient(w http.ResponseWriter, r *http.Request) (*clientdomain.Client, bool) {
	clientID, ok := middleware.ClientIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "login required")
		return nil, false
	}
	client, err := h.Clients.GetClient(r.Context(), clientID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return nil, false
	}
	return client, true
}
