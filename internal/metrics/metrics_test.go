package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t)
	assert.Contains(t, body, `lifecommander_http_requests_total{method="GET",path="/items/:id",status="418"} 2`)
	assert.Contains(t, body, `path="unmatched",status="404"`)
	assert.Contains(t, body, "lifecommander_http_request_duration_seconds_bucket")
}

func TestWorkerCounters(t *testing.T) {
	RecordTimersCompleted(0)
	RecordTimersCompleted(3)
	RecordTimerCheck(true)
	RecordTimerCheck(false)
	RecordCompletionJob("dropped")

	body := scrape(t)
	assert.Contains(t, body, "lifecommander_timers_completed_total 3")
	assert.Contains(t, body, `lifecommander_timers_check_runs_total{success="false"} 1`)
	assert.Contains(t, body, `lifecommander_habits_completion_jobs_total{outcome="dropped"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
