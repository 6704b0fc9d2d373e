package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lifecommander/internal/config"
	"github.com/comitanigiacomo/lifecommander/internal/core/services"
)

const e2eSecret = "e2e-secret"

type e2eClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *e2eClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func e2eConfig(driver string) *config.Config {
	return &config.Config{
		StorageDriver:  driver,
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "lifecommander"),
		DBPassword:     getEnv("DB_PASSWORD", "secret"),
		DBName:         getEnv("DB_NAME", "lifecommander_test"),
		JWTSecret:      e2eSecret,
		JWTIssuer:      "lifecommander",
		RateLimit:      1000,
		TimerCheckSpec: "@every 1s",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func startApplication(t *testing.T, cfg *config.Config) *e2eClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		cancel()
		if cfg.StorageDriver == config.StoragePostgres {
			t.Skipf("Skipping end-to-end test: %v", err)
		}
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		cancel()
		app.Close()
	})

	for _, start := range app.workers {
		require.NoError(t, start(ctx))
	}

	token, err := services.NewTokenService(e2eSecret, "lifecommander", time.Hour).GenerateToken(
		"e2e-" + time.Now().Format("150405.000000"))
	require.NoError(t, err)

	return &e2eClient{t: t, router: app.router, token: token}
}

func TestEndToEnd_Memory(t *testing.T) {
	runLifecycle(t, startApplication(t, e2eConfig(config.StorageMemory)))
}

func TestEndToEnd_Postgres(t *testing.T) {
	runLifecycle(t, startApplication(t, e2eConfig(config.StoragePostgres)))
}

func runLifecycle(t *testing.T, c *e2eClient) {
	var habitID string

	t.Run("1. Create Habit", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/habits",
			`{"title": "Morning Run", "frequency": "daily", "anchor_at": "2023-10-27T08:00:00Z"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.ID)
		habitID = resp.ID
	})

	t.Run("2. Complete it and wait for the streak", func(t *testing.T) {
		require.NotEmpty(t, habitID)

		w := c.do(http.MethodPost, "/api/v1/entries", `{"habit_id": "`+habitID+`"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		require.Eventually(t, func() bool {
			w := c.do(http.MethodGet, "/api/v1/habits", "")
			var list []struct {
				ID            string `json:"id"`
				CurrentStreak int    `json:"current_streak"`
				DoneThisCycle bool   `json:"done_this_cycle"`
			}
			if json.Unmarshal(w.Body.Bytes(), &list) != nil || len(list) != 1 {
				return false
			}
			return list[0].CurrentStreak == 1 && list[0].DoneThisCycle
		}, 5*time.Second, 50*time.Millisecond)
	})

	t.Run("3. Done habits are neither overdue nor next", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/v1/dashboard?tz=UTC", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"overdue_habits":[]`)
		assert.Contains(t, w.Body.String(), `"next_habit":null`)
	})

	t.Run("4. Timer checker completes a running timer", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/timers", `{"label": "Quick", "duration_ms": 300}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created struct {
			Timer struct {
				ID string `json:"id"`
			} `json:"timer"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		w = c.do(http.MethodPost, "/api/v1/timers/"+created.Timer.ID+"/start", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Eventually(t, func() bool {
			w := c.do(http.MethodGet, "/api/v1/timers/"+created.Timer.ID, "")
			var view struct {
				Timer struct {
					State string `json:"state"`
				} `json:"timer"`
				RemainingSeconds int64 `json:"remaining_seconds"`
			}
			if json.Unmarshal(w.Body.Bytes(), &view) != nil {
				return false
			}
			return view.Timer.State == "COMPLETED" && view.RemainingSeconds == 0
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("5. Delete Habit", func(t *testing.T) {
		w := c.do(http.MethodDelete, "/api/v1/habits/"+habitID, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = c.do(http.MethodGet, "/api/v1/habits", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), habitID)
	})

	t.Run("6. Validation Error", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/v1/habits", `{"frequency": "daily"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("7. Auth Error", func(t *testing.T) {
		anonymous := &e2eClient{t: t, router: c.router}
		w := anonymous.do(http.MethodGet, "/api/v1/habits", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
