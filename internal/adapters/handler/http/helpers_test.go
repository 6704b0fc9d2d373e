package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/lifecommander/internal/adapters/handler/http"
	"github.com/comitanigiacomo/lifecommander/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/lifecommander/internal/adapters/repository"
	"github.com/comitanigiacomo/lifecommander/internal/core/services"

	_ "time/tzdata"
)

type recordingQueue struct {
	mu  sync.Mutex
	ids []string
}

func (q *recordingQueue) Enqueue(habitID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, habitID)
}

func (q *recordingQueue) Enqueued() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.ids...)
}

type testEnv struct {
	router  *gin.Engine
	habits  *repository.InMemoryHabitRepository
	entries *repository.InMemoryEntryRepository
	timers  *repository.InMemoryTimerRepository
	queue   *recordingQueue
}

// fakeAuth trusts X-User-ID so handler tests do not need tokens.
func fakeAuth(c *gin.Context) {
	if id := c.GetHeader("X-User-ID"); id != "" {
		c.Set(middleware.ContextUserIDKey, id)
	}
	c.Next()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		habits:  repository.NewInMemoryHabitRepository(),
		entries: repository.NewInMemoryEntryRepository(),
		timers:  repository.NewInMemoryTimerRepository(),
		queue:   &recordingQueue{},
	}

	habitSvc := services.NewHabitService(env.habits, env.queue)
	entrySvc := services.NewEntryService(env.entries, env.habits, env.queue)
	timerSvc := services.NewTimerService(env.timers, nil)
	dashSvc := services.NewDashboardService(env.habits, env.timers)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(fakeAuth)
	adapterHTTP.NewHabitHandler(habitSvc, log).RegisterRoutes(api)
	adapterHTTP.NewEntryHandler(entrySvc, log).RegisterRoutes(api)
	adapterHTTP.NewTimerHandler(timerSvc, log).RegisterRoutes(api)
	adapterHTTP.NewDashboardHandler(dashSvc, log).RegisterRoutes(api)

	env.router = r
	return env
}

func (e *testEnv) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (e *testEnv) createHabit(t *testing.T, userID, title, freq string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/habits", userID, map[string]interface{}{
		"title":     title,
		"frequency": freq,
		"anchor_at": "2024-03-11T08:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		ID string `json:"id"`
	}
	decode(t, w, &out)
	return out.ID
}
