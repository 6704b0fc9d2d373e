package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/core/calculator"
	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
	"github.com/comitanigiacomo/lifecommander/internal/core/services"
)

type TimerHandler struct {
	svc *services.TimerService
	log logrus.FieldLogger
	now func() time.Time
}

func NewTimerHandler(svc *services.TimerService, log logrus.FieldLogger) *TimerHandler {
	return &TimerHandler{
		svc: svc,
		log: withLogger(log),
		now: time.Now,
	}
}

type createTimerRequest struct {
	Label      string `json:"label" binding:"required"`
	DurationMs int64  `json:"duration_ms" binding:"required,min=1,max=604800000"`
}

func (h *TimerHandler) RegisterRoutes(router *gin.RouterGroup) {
	timers := router.Group("/timers")
	{
		timers.POST("", h.Create)
		timers.GET("", h.List)
		timers.GET("/:id", h.Get)
		timers.DELETE("/:id", h.Delete)
		timers.POST("/:id/start", h.transition(h.svc.Start))
		timers.POST("/:id/pause", h.transition(h.svc.Pause))
		timers.POST("/:id/resume", h.transition(h.svc.Resume))
		timers.POST("/:id/stop", h.transition(h.svc.Stop))
	}
}

func (h *TimerHandler) view(t *domain.Timer) domain.TimerView {
	snap := t.Snapshot()
	now := h.now()
	return domain.TimerView{
		Timer:            t,
		ElapsedMs:        calculator.ElapsedMs(snap, now),
		RemainingSeconds: calculator.RemainingSeconds(snap, now),
		ShouldComplete:   calculator.ShouldComplete(snap, now),
	}
}

// Create godoc
// @Summary  Create a stopped countdown timer
// @Tags     timers
// @Accept   json
// @Produce  json
// @Param    timer  body      createTimerRequest  true  "Timer"
// @Success  201    {object}  domain.TimerView
// @Failure  400    {object}  errorResponse
// @Security BearerAuth
// @Router   /timers [post]
func (h *TimerHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	timer, err := h.svc.Create(c.Request.Context(), services.CreateTimerInput{
		UserID:   userID,
		Label:    req.Label,
		Duration: time.Duration(req.DurationMs) * time.Millisecond,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, h.view(timer))
}

// List godoc
// @Summary  List timers with their elapsed and remaining time
// @Tags     timers
// @Produce  json
// @Success  200  {array}  domain.TimerView
// @Security BearerAuth
// @Router   /timers [get]
func (h *TimerHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	timers, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	out := make([]domain.TimerView, 0, len(timers))
	for _, t := range timers {
		out = append(out, h.view(t))
	}

	c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary  Get one timer
// @Tags     timers
// @Produce  json
// @Param    id   path      string  true  "Timer id"
// @Success  200  {object}  domain.TimerView
// @Failure  404  {object}  errorResponse
// @Security BearerAuth
// @Router   /timers/{id} [get]
func (h *TimerHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	timer, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, h.view(timer))
}

// Delete godoc
// @Summary  Delete a timer
// @Tags     timers
// @Param    id   path  string  true  "Timer id"
// @Success  204
// @Failure  404  {object}  errorResponse
// @Security BearerAuth
// @Router   /timers/{id} [delete]
func (h *TimerHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// transition serves start, pause, resume and stop.
// @Summary  Change timer state
// @Tags     timers
// @Produce  json
// @Param    id      path      string  true  "Timer id"
// @Param    action  path      string  true  "start | pause | resume | stop"
// @Success  200     {object}  domain.TimerView
// @Failure  404     {object}  errorResponse
// @Failure  409     {object}  errorResponse
// @Security BearerAuth
// @Router   /timers/{id}/{action} [post]
func (h *TimerHandler) transition(op func(ctx context.Context, id, userID string) (*domain.Timer, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		timer, err := op(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			handleError(c, h.log, err)
			return
		}

		c.JSON(http.StatusOK, h.view(timer))
	}
}
