package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"unitdrive/internal/middleware"
	"unitdrive/internal/model"
	"unitdrive/internal/service"
	"unitdrive/pkg/response"
)

type VisitorHandler struct {
	visitorService service.VisitorService
}

// NewVisitorHandler sets up the routing dependencies for visitor endpoints
func NewVisitorHandler(visitorService service.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitorService: visitorService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *VisitorHandler) RegisterRoutes(router *gin.RouterGroup) {
	// The registration form is public: families submit without an account
	router.POST("/visits", h.RegisterVisit)

	staff := middleware.RequireRole(string(model.RoleAdmin), string(model.RoleStaff))
	router.GET("/visits", staff, h.ListVisits)
	router.PUT("/visits/:id/approve", staff, h.ApproveVisit)
}

// parseMonth resolves the month query param (YYYY-MM), defaulting to the
// current month.
func parseMonth(c *gin.Context) (time.Time, bool) {
	monthStr := c.Query("month")
	if monthStr == "" {
		return time.Now(), true
	}
	month, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return time.Time{}, false
	}
	return month, true
}

// RegisterVisit handles POST /visits from the public registration form
// @Summary      Register a visit
// @Description  Appends a pending visitor record to the unit/month document matching the visit date
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterVisitRequest  true  "Visit Registration Payload"
// @Success      201      {object}  response.Response{data=model.VisitorRecord}
// @Failure      400      {object}  response.Response
// @Router       /visits [post]
func (h *VisitorHandler) RegisterVisit(c *gin.Context) {
	var req service.RegisterVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.visitorService.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// ListVisits handles GET /visits for staff dashboards
// @Summary      List visits
// @Description  Returns the visitor records of one unit and month. Staff default to their own unit.
// @Tags         visits
// @Produce      json
// @Security     BearerAuth
// @Param        unit   query     string  false  "Unit (defaults to the caller's unit)"
// @Param        month  query     string  false  "Month as YYYY-MM (defaults to current)"
// @Success      200    {object}  response.Response{data=[]model.VisitorRecord}
// @Failure      400    {object}  response.Response
// @Router       /visits [get]
func (h *VisitorHandler) ListVisits(c *gin.Context) {
	unit := c.Query("unit")
	if unit == "" {
		if u, ok := c.Get("userUnit"); ok {
			unit, _ = u.(string)
		}
	}
	if unit == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "unit is required"))
		return
	}

	month, ok := parseMonth(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "month must be formatted as YYYY-MM"))
		return
	}

	records, err := h.visitorService.List(c.Request.Context(), unit, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch visits"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// ApproveVisit handles PUT /visits/:id/approve
// @Summary      Approve a visit
// @Description  Flips a pending visitor record to approved in its persisted document
// @Tags         visits
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Visitor Record ID"
// @Param        unit   query     string  false  "Unit (defaults to the caller's unit)"
// @Param        month  query     string  false  "Month as YYYY-MM (defaults to current)"
// @Success      200    {object}  response.Response{data=model.VisitorRecord}
// @Failure      400    {object}  response.Response
// @Router       /visits/{id}/approve [put]
func (h *VisitorHandler) ApproveVisit(c *gin.Context) {
	id := c.Param("id")

	unit := c.Query("unit")
	if unit == "" {
		if u, ok := c.Get("userUnit"); ok {
			unit, _ = u.(string)
		}
	}
	if unit == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "unit is required"))
		return
	}

	month, ok := parseMonth(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "month must be formatted as YYYY-MM"))
		return
	}

	record, err := h.visitorService.Approve(c.Request.Context(), unit, month, id)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}
