//go:build e2e

package bootstrap_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"vehicle-reservation/cmd/bootstrap"
	"vehicle-reservation/cmd/bootstrap/components"
	resdto "vehicle-reservation/internal/handler/dto/response"
	"vehicle-reservation/internal/infra/payment"
	"vehicle-reservation/internal/infra/seed"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/testutil/httptest"
	"vehicle-reservation/internal/testutil/pgtest"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

const (
	loginURL        = "/api/auth/login"
	refreshURL      = "/api/auth/refresh"
	meURL           = "/api/auth/me"
	reservationsURL = "/api/reservations"
)

type appSuite struct {
	suite.Suite
	router    *gin.Engine
	pool      *pgxpool.Pool
	vehicleID uuid.UUID
	pickup    time.Time
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(appSuite))
}

func (s *appSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	dbConfig, pool := pgtest.NewDatabase(s.T())
	s.pool = pool

	cfg := config.NewTestConfig()
	cfg.Storage.Driver = config.StorageDriverPostgres
	cfg.Storage.SeedDemoData = true
	cfg.DB = dbConfig
	cfg.DB.AutoMigrate = true

	app := fx.New(
		fx.Provide(func() config.Config { return cfg }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.AdapterModule,
		components.UseCaseModule,
		components.HandlerModule,
		components.JobsModule,
		fx.Populate(&s.router),
		fx.NopLogger,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(app.Start(ctx))
	s.T().Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	})

	s.Require().NoError(pool.QueryRow(context.Background(),
		"SELECT id FROM vehicles ORDER BY id LIMIT 1").Scan(&s.vehicleID))
	s.pickup = time.Now().UTC().Add(96 * time.Hour).Truncate(time.Hour)
}

func (s *appSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE reservations, refresh_tokens")
	s.Require().NoError(err)
}

func (s *appSuite) login() resdto.LoginResponse {
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, loginURL,
		map[string]any{"email": seed.DemoEmail, "password": seed.DemoPassword}, "")
	var resp resdto.LoginResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
	s.Require().NotEmpty(resp.AccessToken)
	return resp
}

func (s *appSuite) reservationBody(start time.Time, days int, instrument string) map[string]any {
	return map[string]any{
		"vehicle_id":         s.vehicleID.String(),
		"pickup_at":          start.Format(time.RFC3339),
		"dropoff_at":         start.Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339),
		"pickup_location":    "Haneda Airport T3",
		"dropoff_location":   "Shinagawa Station",
		"payment_instrument": instrument,
	}
}

func (s *appSuite) availability(token string, start, end time.Time) queries.AvailabilityView {
	q := url.Values{}
	q.Set("start", start.Format(time.RFC3339))
	q.Set("end", end.Format(time.RFC3339))
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
		"/api/vehicles/"+s.vehicleID.String()+"/availability?"+q.Encode(), nil, token)
	var view queries.AvailabilityView
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
	return view
}

func (s *appSuite) TestBookingLifecycle() {
	token := s.login().AccessToken
	end := s.pickup.Add(72 * time.Hour)

	s.True(s.availability(token, s.pickup, end).Available)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, reservationsURL,
		s.reservationBody(s.pickup, 3, "pm_card_visa"), token)
	var created resdto.CommitResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &created)
	s.Require().NotNil(created.Reservation)
	s.Equal("confirmed", created.Reservation.Status)
	s.Equal("paid", created.Reservation.PaymentStatus)
	s.Positive(created.Reservation.Total)

	view := s.availability(token, s.pickup.Add(24*time.Hour), end.Add(24*time.Hour))
	s.False(view.Available)
	s.Len(view.Conflicts, 1)

	rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, reservationsURL,
		s.reservationBody(s.pickup.Add(24*time.Hour), 2, "pm_card_visa"), token)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, string(errs.KindConflict))

	rec = httptest.PerformRequest(s.T(), s.router, http.MethodGet, reservationsURL, nil, token)
	var list resdto.ReservationListResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &list)
	s.Len(list.Reservations, 1)

	rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost,
		reservationsURL+"/"+created.Reservation.ID.String()+"/cancel", nil, token)
	var cancelled resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &cancelled)
	s.Equal("cancelled", cancelled.Status)
	s.Equal("refunded", cancelled.PaymentStatus)

	s.True(s.availability(token, s.pickup, end).Available)
}

func (s *appSuite) TestCommitFailures() {
	token := s.login().AccessToken

	s.Run("declined card", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, reservationsURL,
			s.reservationBody(s.pickup, 2, payment.SandboxDeclinedInstrument), token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, string(errs.KindPaymentDeclined))
	})

	s.Run("pickup in the past", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, reservationsURL,
			s.reservationBody(time.Now().UTC().Add(-48*time.Hour).Truncate(time.Hour), 1, "pm_card_visa"), token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, string(errs.KindValidation))
	})

	s.Run("no token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, reservationsURL,
			s.reservationBody(s.pickup, 2, "pm_card_visa"), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, string(errs.KindAuth))
	})

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, reservationsURL, nil, token)
	var list resdto.ReservationListResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &list)
	s.Empty(list.Reservations)
}

func (s *appSuite) TestRefreshRotation() {
	login := s.login()

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, refreshURL,
		map[string]any{"refresh_token": login.RefreshToken}, "")
	var rotated resdto.TokenResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &rotated)
	s.NotEqual(login.RefreshToken, rotated.RefreshToken)

	rec = httptest.PerformRequest(s.T(), s.router, http.MethodGet, meURL, nil, rotated.AccessToken)
	var me queries.UserView
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &me)
	s.Equal(seed.DemoEmail, me.Email)

	// replaying the old token revokes the family, so the successor dies too
	rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, refreshURL,
		map[string]any{"refresh_token": login.RefreshToken}, "")
	httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, string(errs.KindAuth))

	rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, refreshURL,
		map[string]any{"refresh_token": rotated.RefreshToken}, "")
	httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, string(errs.KindAuth))
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()

	var router *gin.Engine
	app := fx.New(
		fx.Provide(func() config.Config { return cfg }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.AdapterModule,
		components.UseCaseModule,
		components.HandlerModule,
		components.JobsModule,
		fx.Populate(&router),
		fx.NopLogger,
	)
	require.NoError(t, app.Start(context.Background()))
	defer func() { _ = app.Stop(context.Background()) }()

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
