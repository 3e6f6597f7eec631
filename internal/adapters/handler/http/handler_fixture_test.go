package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/valedagnoli/daypulse/internal/adapters/handler/http"
	"github.com/valedagnoli/daypulse/internal/adapters/handler/http/middleware"
	"github.com/valedagnoli/daypulse/internal/adapters/repository"
	"github.com/valedagnoli/daypulse/internal/core/analytics"
	"github.com/valedagnoli/daypulse/internal/core/domain"
	"github.com/valedagnoli/daypulse/internal/core/services"
	"github.com/valedagnoli/daypulse/internal/core/workers"
)

// testEnv wires every handler over the in-memory repositories, replacing
// the JWT middleware with a header-based stand-in so tests can act as any
// user directly.
type testEnv struct {
	router *gin.Engine

	userRepo    *repository.InMemoryUserRepository
	habitRepo   *repository.InMemoryHabitRepository
	entryRepo   *repository.InMemoryEntryRepository
	routineRepo *repository.InMemoryRoutineRepository
	tradeRepo   *repository.InMemoryTradeRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		userRepo:    repository.NewInMemoryUserRepository(),
		habitRepo:   repository.NewInMemoryHabitRepository(),
		entryRepo:   repository.NewInMemoryEntryRepository(),
		routineRepo: repository.NewInMemoryRoutineRepository(),
		tradeRepo:   repository.NewInMemoryTradeRepository(),
	}

	worker := workers.NewStreakWorker(env.habitRepo, env.entryRepo)

	tokenService := services.NewTokenService("test-secret", "test-issuer", 1*time.Hour, env.userRepo)
	authService := services.NewAuthService(env.userRepo, tokenService)
	habitService := services.NewHabitService(env.habitRepo)
	entryService := services.NewEntryService(env.entryRepo, env.habitRepo, worker)
	routineService := services.NewRoutineService(env.routineRepo, env.habitRepo, env.entryRepo)
	tradeService := services.NewTradeService(env.tradeRepo)
	statsService := services.NewStatsService(env.habitRepo, env.entryRepo)
	reportService := services.NewReportService(env.tradeRepo, env.userRepo, fixedRenderer{}, "DayPulse")

	r := gin.New()
	apiV1 := r.Group("/api/v1")

	adapterHTTP.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	{
		adapterHTTP.NewHabitHandler(habitService).RegisterRoutes(protected)
		adapterHTTP.NewEntryHandler(entryService).RegisterRoutes(protected)
		adapterHTTP.NewRoutineHandler(routineService).RegisterRoutes(protected)
		adapterHTTP.NewTradeHandler(tradeService).RegisterRoutes(protected)
		adapterHTTP.NewStatsHandler(statsService).RegisterRoutes(protected)
		adapterHTTP.NewReportHandler(reportService).RegisterRoutes(protected)
	}

	env.router = r
	return env
}

type fixedRenderer struct{}

func (fixedRenderer) Render(_ analytics.TradingAnalytics, _ services.ReportMeta) ([]byte, error) {
	return []byte("%PDF-test"), nil
}

func (env *testEnv) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) seedUser(t *testing.T, id, email, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(id, email, username)
	require.NoError(t, err)
	require.NoError(t, env.userRepo.Create(context.Background(), user))
	return user
}

func (env *testEnv) seedHabit(t *testing.T, userID, title string) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabit(userID, title, "", "", "", "", "", 0)
	require.NoError(t, err)
	require.NoError(t, env.habitRepo.Create(context.Background(), habit))
	return habit
}
