package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gym-app-go/internal/config"
	"gym-app-go/internal/db"
	"gym-app-go/internal/db/dbtest"
	classesdomain "gym-app-go/internal/domain/classes"
	clientdomain "gym-app-go/internal/domain/client"
	equipmentdomain "gym-app-go/internal/domain/equipment"
	membershipdomain "gym-app-go/internal/domain/membership"
	"gym-app-go/internal/domain/report"
	staffdomain "gym-app-go/internal/domain/staff"
	"gym-app-go/internal/monitoring"
	classesrepo "gym-app-go/internal/repository/classes"
	clientrepo "gym-app-go/internal/repository/client"
	equipmentrepo "gym-app-go/internal/repository/equipment"
	membershiprepo "gym-app-go/internal/repository/membership"
	staffrepo "gym-app-go/internal/repository/staff"
	"gym-app-go/internal/seed"
	"gym-app-go/internal/session"
	"gym-app-go/internal/transport/httpserver"
	"gym-app-go/internal/transport/httpserver/handler"
	authmw "gym-app-go/internal/transport/httpserver/middleware"
	"gym-app-go/pkg/logger"
)

const reportBaseURL = "http://reports.local/ReportServer/Pages/ReportViewer.aspx"

type testApp struct {
	server *httptest.Server
	db     *gorm.DB
	seeded seed.Result
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gormDB := dbtest.Open(t)
	log := logger.NewNop()
	ctx := context.Background()

	staff := staffdomain.NewService(staffrepo.NewPostgres(gormDB), nil, log)
	classes := classesdomain.NewService(classesrepo.NewPostgres(gormDB), classesdomain.Options{Log: log})
	equipment := equipmentdomain.NewService(equipmentrepo.NewPostgres(gormDB), nil, log)

	seeded, err := seed.Demo(ctx, seed.Services{Staff: staff, Classes: classes, Equipment: equipment}, time.Now(), log)
	require.NoError(t, err)

	cfg := config.Config{
		Session: config.SessionConfig{TTL: time.Hour},
		CSRF:    config.CSRFConfig{Enabled: false},
	}
	auth := authmw.NewSessionAuth(session.NewMemoryStore(time.Hour), bytes.Repeat([]byte("s"), 32), cfg.Session, log)

	handlers := handler.New(handler.Deps{
		Clients: clientdomain.NewService(clientrepo.NewPostgres(gormDB)),
		Memberships: membershipdomain.NewService(membershiprepo.NewPostgres(gormDB), membershipdomain.Options{
			Prices: membershipdomain.Prices{MonthlyCents: 15000, YearlyCents: 150000},
			Log:    log,
		}),
		Classes:   classes,
		Equipment: equipment,
		Staff:     staff,
		Reports:   report.NewBuilder(reportBaseURL, "/GymReports"),
		Sessions:  auth,
		Metrics:   monitoring.NewMetrics(),
		Ping:      func(ctx context.Context) error { return db.Ping(ctx, gormDB) },
		Log:       log,
	})

	server := httptest.NewServer(httpserver.NewRouter(cfg, handlers, auth, nil))
	t.Cleanup(server.Close)

	return &testApp{server: server, db: gormDB, seeded: seeded}
}

// newClient returns a browser-like client that keeps cookies and does not
// follow redirects, so tests can assert on 303 responses.
func (a *testApp) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, client *http.Client, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(a.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (a *testApp) post(t *testing.T, client *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func passForm(email, passType string) url.Values {
	return url.Values{
		"name":       {"Anna"},
		"surname":    {"Kowalska"},
		"birth_date": {"1990-04-12"},
		"phone":      {"600700800"},
		"email":      {email},
		"pass_type":  {passType},
	}
}

func (a *testApp) buyAndLogin(t *testing.T, email string) *http.Client {
	t.Helper()
	client := a.newClient(t)

	resp := a.post(t, client, "/buy_pass", passForm(email, "monthly"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = a.post(t, client, "/login", url.Values{"phone": {"600700800"}, "email": {email}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	return client
}

type dashboardPayload struct {
	Client struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"client"`
	Memberships []struct {
		Type      string `json:"type"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Status    string `json:"status"`
		Active    bool   `json:"active"`
	} `json:"memberships"`
	CurrentClass *struct {
		ClassID uint `json:"class_id"`
	} `json:"current_class"`
	Reservations []struct {
		ID          uint `json:"id"`
		EquipmentID uint `json:"equipment_id"`
	} `json:"reservations"`
}

func (a *testApp) dashboard(t *testing.T, client *http.Client) dashboardPayload {
	t.Helper()
	resp := a.get(t, client, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload dashboardPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Error.Code
}

func TestRootRedirectsToBuyPass(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, app.newClient(t), "/")

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/buy_pass", resp.Header.Get("Location"))
}

func TestBuyPassFormListsOffers(t *testing.T) {
	app := newTestApp(t)
	resp := app.get(t, app.newClient(t), "/buy_pass")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Offers []struct {
			Type         string `json:"type"`
			DurationDays int    `json:"duration_days"`
			Price        string `json:"price"`
		} `json:"offers"`
		PaymentMethods []string `json:"payment_methods"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Offers, 2)
	assert.Equal(t, "monthly", payload.Offers[0].Type)
	assert.Equal(t, 30, payload.Offers[0].DurationDays)
	assert.Equal(t, "150.00 PLN", payload.Offers[0].Price)
	assert.Equal(t, 365, payload.Offers[1].DurationDays)
	assert.Contains(t, payload.PaymentMethods, "card")
}

func TestBuyPassLoginAndDashboard(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)

	resp := app.post(t, client, "/buy_pass", passForm("anna@example.com", "monthly"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/success", resp.Header.Get("Location"))

	resp = app.post(t, client, "/login", url.Values{"phone": {"600700800"}, "email": {"ANNA@example.com "}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	payload := app.dashboard(t, client)
	assert.Equal(t, "anna@example.com", payload.Client.Email)
	require.Len(t, payload.Memberships, 1)

	membership := payload.Memberships[0]
	assert.Equal(t, "monthly", membership.Type)
	assert.Equal(t, membershipdomain.StatusActive, membership.Status)
	assert.True(t, membership.Active)

	start, err := time.Parse("2006-01-02", membership.StartDate)
	require.NoError(t, err)
	end, err := time.Parse("2006-01-02", membership.EndDate)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, end.Sub(start))

	var payments int64
	require.NoError(t, app.db.Model(&membershipdomain.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)
}

func TestLoginWithUnknownCredentials(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)
	app.post(t, client, "/buy_pass", passForm("anna@example.com", "yearly"))

	resp := app.post(t, client, "/login", url.Values{"phone": {"111222333"}, "email": {"anna@example.com"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/index?error=invalid_credentials", resp.Header.Get("Location"))
	assert.Empty(t, resp.Cookies())

	resp = app.get(t, client, "/dashboard")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", errorCode(t, resp))

	resp = app.get(t, client, "/index?error=invalid_credentials")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var index struct {
		Authenticated bool   `json:"authenticated"`
		Error         string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&index))
	assert.False(t, index.Authenticated)
	assert.Equal(t, "invalid_credentials", index.Error)
}

func TestBuyPassRejectsInvalidInput(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)

	badDate := passForm("a@example.com", "monthly")
	badDate.Set("birth_date", "12.04.1990")
	resp := app.post(t, client, "/buy_pass", badDate)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.post(t, client, "/buy_pass", passForm("a@example.com", "weekly"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	missing := passForm("a@example.com", "monthly")
	missing.Del("surname")
	resp = app.post(t, client, "/buy_pass", missing)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var clients int64
	require.NoError(t, app.db.Model(&clientdomain.Client{}).Count(&clients).Error)
	assert.Zero(t, clients)
}

func TestBuyPassDuplicateEmailRollsBack(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)

	resp := app.post(t, client, "/buy_pass", passForm("dup@example.com", "monthly"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.post(t, client, "/buy_pass", passForm("dup@example.com", "yearly"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email_taken", errorCode(t, resp))

	var clients, memberships, payments int64
	require.NoError(t, app.db.Model(&clientdomain.Client{}).Count(&clients).Error)
	require.NoError(t, app.db.Model(&membershipdomain.Membership{}).Count(&memberships).Error)
	require.NoError(t, app.db.Model(&membershipdomain.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(1), clients)
	assert.Equal(t, int64(1), memberships)
	assert.Equal(t, int64(1), payments)
}

func TestEnrollReplacesPreviousClass(t *testing.T) {
	app := newTestApp(t)
	client := app.buyAndLogin(t, "enroll@example.com")
	first, second := app.seeded.Classes[0], app.seeded.Classes[1]

	resp := app.post(t, client, "/zapisz_sie_na_zajecia", url.Values{"class_id": {strconv.Itoa(int(first))}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp = app.post(t, client, "/zapisz_sie_na_zajecia", url.Values{"class_id": {strconv.Itoa(int(second))}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	payload := app.dashboard(t, client)
	require.NotNil(t, payload.CurrentClass)
	assert.Equal(t, second, payload.CurrentClass.ClassID)

	var active int64
	require.NoError(t, app.db.Model(&classesdomain.Enrollment{}).
		Where("client_id = ? AND status = ?", payload.Client.ID, classesdomain.EnrollmentActive).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)

	resp = app.post(t, client, "/zapisz_sie_na_zajecia", url.Values{"class_id": {"9999"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.post(t, client, "/zapisz_sie_na_zajecia", url.Values{"class_id": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.get(t, client, "/wypisz_sie")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Nil(t, app.dashboard(t, client).CurrentClass)

	resp = app.get(t, client, "/wypisz_sie")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestEnrollIntoFullClass(t *testing.T) {
	app := newTestApp(t)
	full, other := app.seeded.Classes[0], app.seeded.Classes[1]
	require.NoError(t, app.db.Model(&classesdomain.Class{}).Where("id = ?", full).Update("capacity", 1).Error)

	first := app.buyAndLogin(t, "first@example.com")
	resp := app.post(t, first, "/zapisz_sie_na_zajecia", url.Values{"class_id": {strconv.Itoa(int(full))}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	second := app.buyAndLogin(t, "second@example.com")
	resp = app.post(t, second, "/zapisz_sie_na_zajecia", url.Values{"class_id": {strconv.Itoa(int(other))}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.post(t, second, "/zapisz_sie_na_zajecia", url.Values{"class_id": {strconv.Itoa(int(full))}})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "class_full", errorCode(t, resp))

	payload := app.dashboard(t, second)
	require.NotNil(t, payload.CurrentClass)
	assert.Equal(t, other, payload.CurrentClass.ClassID)
}

func TestReservationFlow(t *testing.T) {
	app := newTestApp(t)
	owner := app.buyAndLogin(t, "owner@example.com")
	other := app.buyAndLogin(t, "other@example.com")
	equipmentID := strconv.Itoa(int(app.seeded.Equipment[0]))

	resp := app.post(t, owner, "/rezerwacja_sprzetu", url.Values{"equipment_id": {equipmentID}, "start": {"2024-06-03T10:00"}, "duration": {"60"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.post(t, owner, "/rezerwacja_sprzetu", url.Values{"equipment_id": {equipmentID}, "start": {"2024-06-03 10:00"}, "duration": {"0"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.post(t, owner, "/rezerwacja_sprzetu", url.Values{"equipment_id": {"9999"}, "start": {"2024-06-03 10:00"}, "duration": {"60"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.post(t, other, "/rezerwacja_sprzetu", url.Values{"equipment_id": {equipmentID}, "start": {"2024-06-03 10:00"}, "duration": {"30"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.post(t, owner, "/rezerwacja_sprzetu", url.Values{"equipment_id": {equipmentID}, "start": {"2024-06-03 10:00"}, "duration": {"45"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = app.get(t, owner, "/rezerwacja_sprzetu")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var form struct {
		Equipment    []struct{ ID uint } `json:"equipment"`
		Reservations []struct {
			StartsAt time.Time `json:"starts_at"`
			EndsAt   time.Time `json:"ends_at"`
		} `json:"reservations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&form))
	assert.Len(t, form.Equipment, 4)
	require.Len(t, form.Reservations, 1)
	assert.Equal(t, 45*time.Minute, form.Reservations[0].EndsAt.Sub(form.Reservations[0].StartsAt))

	resp = app.get(t, owner, "/cancel_rezerwacja")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.get(t, owner, "/cancel_rezerwacja")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Len(t, app.dashboard(t, other).Reservations, 1)
}

func TestRateInstructor(t *testing.T) {
	app := newTestApp(t)
	client := app.buyAndLogin(t, "rater@example.com")
	instructorID := strconv.Itoa(int(app.seeded.Instructors[0]))

	resp := app.post(t, client, "/ocena_instruktora", url.Values{"instructor_id": {instructorID}, "score": {"6"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.post(t, client, "/ocena_instruktora", url.Values{"instructor_id": {"9999"}, "score": {"4"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.post(t, client, "/ocena_instruktora", url.Values{"instructor_id": {instructorID}, "score": {"4"}, "comment": {"Świetne zajęcia"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.get(t, client, "/instruktorzy")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Items []struct {
			ID           uint    `json:"id"`
			AverageScore float64 `json:"average_score"`
			RatingCount  int64   `json:"rating_count"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	for _, item := range payload.Items {
		if strconv.Itoa(int(item.ID)) == instructorID {
			assert.Equal(t, 4.0, item.AverageScore)
			assert.Equal(t, int64(1), item.RatingCount)
		}
	}
}

func TestCancelMembership(t *testing.T) {
	app := newTestApp(t)
	client := app.buyAndLogin(t, "quit@example.com")

	resp := app.post(t, client, "/rezygnacja", url.Values{"reason": {"  "}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.post(t, client, "/rezygnacja", url.Values{"reason": {"przeprowadzka"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	payload := app.dashboard(t, client)
	require.Len(t, payload.Memberships, 1)
	assert.Equal(t, membershipdomain.StatusCancelled, payload.Memberships[0].Status)
	assert.False(t, payload.Memberships[0].Active)
}

func TestClassSearchAndSchedule(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)

	resp := app.get(t, client, "/zajecia/szukaj?q=joga")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var search struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&search))
	require.Equal(t, 1, search.Total)
	assert.Equal(t, "Joga poranna", search.Items[0].Name)

	resp = app.get(t, client, "/zajecia")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.get(t, client, "/grafik?date=bad")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.get(t, client, "/grafik")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var schedule struct {
		Items []struct {
			StaffName string `json:"staff_name"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&schedule))
	assert.Len(t, schedule.Items, 3)
}

func TestReportRedirects(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)

	resp := app.get(t, client, "/raport/platnosci?date_from=2024-01-01&date_to=2024-01-31")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t,
		reportBaseURL+"?Rpt=%2FGymReports%2FPlatnosci&rs%3ACommand=Render&rs%3AFormat=HTML4.0&DateFrom=2024-01-01&DateTo=2024-01-31",
		resp.Header.Get("Location"))

	resp = app.post(t, client, "/raport/klient", url.Values{"client_id": {"12"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "&ClientId=12"))

	resp = app.get(t, client, "/raport/klient?client_id=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.get(t, client, "/raport/nieznany")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	client := app.buyAndLogin(t, "bye@example.com")
	app.dashboard(t, client)

	resp := app.get(t, client, "/logout")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/index", resp.Header.Get("Location"))

	resp = app.get(t, client, "/dashboard")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)

	resp := app.get(t, client, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app.post(t, client, "/buy_pass", passForm("metrics@example.com", "yearly"))

	resp = app.get(t, client, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `gym_membership_purchases_total{type="yearly"} 1`)
	assert.Contains(t, body.String(), `route="/buy_pass"`)
}
