package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unitdrive/internal/middleware"
	"unitdrive/internal/model"
	"unitdrive/internal/service"
	"unitdrive/pkg/response"
)

type ConfigHandler struct {
	configService service.ConfigService
}

// NewConfigHandler sets up the routing dependencies for branding endpoints
func NewConfigHandler(configService service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ConfigHandler) RegisterRoutes(router *gin.RouterGroup) {
	// The config is public: the login screen needs branding before any auth
	router.GET("/config", h.GetConfig)
	router.PUT("/config", middleware.RequireRole(string(model.RoleAdmin)), h.UpdateConfig)
}

// GetConfig handles GET /config
// @Summary      Get system config
// @Description  Returns the branding document (app name, logo, theme color)
// @Tags         config
// @Produce      json
// @Success      200  {object}  response.Response{data=model.SystemConfig}
// @Router       /config [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	cfg := h.configService.Get(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cfg))
}

// UpdateConfig handles PUT /config
// @Summary      Update system config
// @Description  Saves the branding document and refreshes the local cache
// @Tags         config
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateConfigRequest  true  "Config Payload"
// @Success      200      {object}  response.Response{data=model.SystemConfig}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /config [put]
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var req service.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cfg, err := h.configService.Update(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cfg))
}
