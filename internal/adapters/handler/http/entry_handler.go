package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/core/services"
)

// defaultEntryWindow bounds GET /habits/:id/entries when from is omitted.
const defaultEntryWindow = 30 * 24 * time.Hour

type EntryHandler struct {
	svc *services.EntryService
	log logrus.FieldLogger
}

func NewEntryHandler(svc *services.EntryService, log logrus.FieldLogger) *EntryHandler {
	return &EntryHandler{
		svc: svc,
		log: withLogger(log),
	}
}

type createEntryRequest struct {
	HabitID        string    `json:"habit_id" binding:"required"`
	CompletionDate time.Time `json:"completion_date"`
	Value          int       `json:"value"`
	Notes          string    `json:"notes"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.POST("", h.Create)
		entries.GET("/:id", h.Get)
		entries.DELETE("/:id", h.Delete)
	}
	router.GET("/habits/:id/entries", h.ListByHabit)
}

// Create godoc
// @Summary      Record a habit completion
// @Description  completion_date defaults to now and value to 1.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        entry  body      createEntryRequest  true  "Completion"
// @Success      201    {object}  domain.HabitEntry
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Security     BearerAuth
// @Router       /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), services.CreateEntryInput{
		HabitID:        req.HabitID,
		UserID:         userID,
		CompletionDate: req.CompletionDate,
		Value:          req.Value,
		Notes:          req.Notes,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Get godoc
// @Summary  Get one entry
// @Tags     entries
// @Produce  json
// @Param    id   path      string  true  "Entry id"
// @Success  200  {object}  domain.HabitEntry
// @Failure  403  {object}  errorResponse
// @Failure  404  {object}  errorResponse
// @Security BearerAuth
// @Router   /entries/{id} [get]
func (h *EntryHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary  Delete an entry
// @Tags     entries
// @Param    id   path  string  true  "Entry id"
// @Success  204
// @Failure  403  {object}  errorResponse
// @Failure  404  {object}  errorResponse
// @Security BearerAuth
// @Router   /entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
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

// ListByHabit godoc
// @Summary  List entries of a habit, newest first
// @Tags     entries
// @Produce  json
// @Param    id    path      string  true   "Habit id"
// @Param    from  query     string  false  "RFC3339, defaults to 30 days before to"
// @Param    to    query     string  false  "RFC3339, defaults to now"
// @Success  200   {array}   domain.HabitEntry
// @Failure  400   {object}  errorResponse
// @Failure  403   {object}  errorResponse
// @Failure  404   {object}  errorResponse
// @Security BearerAuth
// @Router   /habits/{id}/entries [get]
func (h *EntryHandler) ListByHabit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	to := time.Now().UTC()
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid to format, use RFC3339"})
			return
		}
		to = parsed
	}

	from := to.Add(-defaultEntryWindow)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid from format, use RFC3339"})
			return
		}
		from = parsed
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "from must not be after to"})
		return
	}

	list, err := h.svc.ListByHabitID(c.Request.Context(), c.Param("id"), userID, from, to)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
