package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
	"github.com/comitanigiacomo/lifecommander/internal/core/services"
)

type DashboardHandler struct {
	svc *services.DashboardService
	log logrus.FieldLogger
	now func() time.Time
}

func NewDashboardHandler(svc *services.DashboardService, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
		log: withLogger(log),
		now: time.Now,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.Get)
}

// Get godoc
// @Summary      Overdue habits, the next habit and live timers
// @Description  Habit cycles are evaluated in tz (default UTC).
// @Tags         dashboard
// @Produce      json
// @Param        tz   query     string  false  "IANA time zone, e.g. Europe/Rome"
// @Success      200  {object}  domain.Dashboard
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	loc, err := parseLocation(c.Query("tz"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	dashboard, err := h.svc.GetDashboard(c.Request.Context(), domain.DashboardInput{
		UserID:   userID,
		Now:      h.now(),
		Location: loc,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
