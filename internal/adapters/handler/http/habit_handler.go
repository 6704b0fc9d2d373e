package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/core/calculator"
	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
	"github.com/comitanigiacomo/lifecommander/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
	log logrus.FieldLogger
	now func() time.Time
}

func NewHabitHandler(svc *services.HabitService, log logrus.FieldLogger) *HabitHandler {
	return &HabitHandler{
		svc: svc,
		log: withLogger(log),
		now: time.Now,
	}
}

type createHabitRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Frequency   string    `json:"frequency" binding:"required"`
	AnchorAt    time.Time `json:"anchor_at" binding:"required"`
}

type updateHabitRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Frequency   string    `json:"frequency"`
	AnchorAt    time.Time `json:"anchor_at"`
	SortOrder   *int      `json:"sort_order"`
	Version     int       `json:"version"`
}

// habitResponse decorates a habit with its occurrence state at request time.
type habitResponse struct {
	*domain.Habit
	NextOccurrenceAt time.Time `json:"next_occurrence_at"`
	IsOverdue        bool      `json:"is_overdue"`
	DoneThisCycle    bool      `json:"done_this_cycle"`
}

type syncResponse struct {
	Changes   []*domain.Habit `json:"changes"`
	Timestamp time.Time       `json:"timestamp"`
}

func newHabitResponse(h *domain.Habit, now time.Time) habitResponse {
	occ := h.Occurrence()
	return habitResponse{
		Habit:            h,
		NextOccurrenceAt: calculator.NextOccurrence(occ, now),
		IsOverdue:        calculator.IsOverdue(occ, now),
		DoneThisCycle:    calculator.IsDone(occ, now),
	}
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/sync", h.Sync)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Create a habit
// @Description  A client-supplied id makes the call idempotent for the same user.
// @Tags         habits
// @Accept       json
// @Produce      json
// @Param        habit  body      createHabitRequest  true  "Habit definition"
// @Param        tz     query     string              false "IANA time zone used for occurrence state"
// @Success      201    {object}  habitResponse
// @Failure      400    {object}  errorResponse
// @Failure      409    {object}  errorResponse
// @Security     BearerAuth
// @Router       /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	loc, err := parseLocation(c.Query("tz"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		ID:          req.ID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Frequency:   req.Frequency,
		AnchorAt:    req.AnchorAt,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, newHabitResponse(habit, h.now().In(loc)))
}

// List godoc
// @Summary  List active habits
// @Tags     habits
// @Produce  json
// @Param    tz   query     string  false  "IANA time zone used for occurrence state"
// @Success  200  {array}   habitResponse
// @Failure  400  {object}  errorResponse
// @Security BearerAuth
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	loc, err := parseLocation(c.Query("tz"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	now := h.now().In(loc)
	out := make([]habitResponse, 0, len(list))
	for _, habit := range list {
		out = append(out, newHabitResponse(habit, now))
	}

	c.JSON(http.StatusOK, out)
}

// Sync godoc
// @Summary  Habits changed since the last sync, deletions included
// @Tags     habits
// @Produce  json
// @Param    last_sync  query     string  false  "RFC3339 instant"
// @Success  200        {object}  syncResponse
// @Failure  400        {object}  errorResponse
// @Security BearerAuth
// @Router   /habits/sync [get]
func (h *HabitHandler) Sync(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var lastSync time.Time
	if raw := c.Query("last_sync"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid last_sync format, use RFC3339"})
			return
		}
		lastSync = parsed
	}

	// Taken before the read so nothing written meanwhile is skipped next time.
	timestamp := h.now().UTC()

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if deltas == nil {
		deltas = []*domain.Habit{}
	}

	c.JSON(http.StatusOK, syncResponse{Changes: deltas, Timestamp: timestamp})
}

// Update godoc
// @Summary  Update a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    id     path      string              true  "Habit id"
// @Param    habit  body      updateHabitRequest  true  "Changed fields"
// @Param    tz     query     string              false "IANA time zone used for occurrence state"
// @Success  200    {object}  habitResponse
// @Failure  400    {object}  errorResponse
// @Failure  404    {object}  errorResponse
// @Failure  409    {object}  errorResponse
// @Security BearerAuth
// @Router   /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	loc, err := parseLocation(c.Query("tz"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Frequency:   req.Frequency,
		AnchorAt:    req.AnchorAt,
		SortOrder:   req.SortOrder,
		Version:     req.Version,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, newHabitResponse(habit, h.now().In(loc)))
}

// Delete godoc
// @Summary  Soft-delete a habit
// @Tags     habits
// @Param    id   path  string  true  "Habit id"
// @Success  204
// @Failure  404  {object}  errorResponse
// @Security BearerAuth
// @Router   /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
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

func parseLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid tz %q", name)
	}
	return loc, nil
}
