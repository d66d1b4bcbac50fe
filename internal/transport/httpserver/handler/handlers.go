package handler

import (
	"context"
	"net/http"
	"time"

	classesdomain "gym-app-go/internal/domain/classes"
	clientdomain "gym-app-go/internal/domain/client"
	equipmentdomain "gym-app-go/internal/domain/equipment"
	membershipdomain "gym-app-go/internal/domain/membership"
	"gym-app-go/internal/domain/report"
	staffdomain "gym-app-go/internal/domain/staff"
	"gym-app-go/internal/monitoring"
	"gym-app-go/pkg/logger"
)

// SessionManager opens and closes browser sessions for a client.
type SessionManager interface {
	Start(w http.ResponseWriter, r *http.Request, clientID uint) error
	End(w http.ResponseWriter, r *http.Request) error
}

type Deps struct {
	Clients     *clientdomain.Service
	Memberships *membershipdomain.Service
	Classes     *classesdomain.Service
	Equipment   *equipmentdomain.Service
	Staff       *staffdomain.Service
	Reports     *report.Builder
	Sessions    SessionManager
	Metrics     *monitoring.Metrics
	Ping        func(ctx context.Context) error
	Log         logger.Logger
}

type Handlers struct {
	Clients     *clientdomain.Service
	Memberships *membershipdomain.Service
	Classes     *classesdomain.Service
	Equipment   *equipmentdomain.Service
	Staff       *staffdomain.Service
	Reports     *report.Builder
	Sessions    SessionManager
	Metrics     *monitoring.Metrics
	ping        func(ctx context.Context) error
	log         logger.Logger
	now         func() time.Time
}

func New(deps Deps) *Handlers {
	return &Handlers{
		Clients:     deps.Clients,
		Memberships: deps.Memberships,
		Classes:     deps.Classes,
		Equipment:   deps.Equipment,
		Staff:       deps.Staff,
		Reports:     deps.Reports,
		Sessions:    deps.Sessions,
		Metrics:     deps.Metrics,
		ping:        deps.Ping,
		log:         logger.OrNop(deps.Log),
		now:         time.Now,
	}
}
