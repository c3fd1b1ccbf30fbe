package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"unitdrive/internal/graph"
)

type TokenHandler struct {
	tokens graph.TokenSource
}

// NewTokenHandler sets up the routing dependencies for the token endpoint
func NewTokenHandler(tokens graph.TokenSource) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// RegisterRoutes binds the endpoint to the gin Engine or RouterGroup
func (h *TokenHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/token", h.GetToken)
}

// tokenError is the error body of the token endpoint: {error, details?, advice?}.
type tokenError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Advice  string `json:"advice,omitempty"`
}

// GetToken exchanges the stored refresh credential for a bearer token
// @Summary      Get access token
// @Description  Exchanges the server's refresh credential for a short-lived bearer token
// @Tags         token
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  handler.tokenError
// @Failure      500  {object}  handler.tokenError
// @Router       /api/token [get]
func (h *TokenHandler) GetToken(c *gin.Context) {
	token, err := h.tokens.AccessToken(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"accessToken": token})
		return
	}

	switch {
	case errors.Is(err, graph.ErrMisconfigured):
		c.JSON(http.StatusInternalServerError, tokenError{
			Error:   "server_misconfigured",
			Details: "one or more credential fields are missing",
			Advice:  "Set GRAPH_CLIENT_ID, GRAPH_CLIENT_SECRET, GRAPH_REFRESH_TOKEN and GRAPH_TENANT_ID and redeploy.",
		})
	case errors.Is(err, graph.ErrInvalidGrant):
		c.JSON(http.StatusBadRequest, tokenError{
			Error:   "invalid_grant",
			Details: err.Error(),
			Advice:  "The refresh token has expired or been revoked. Re-authorize the application manually and deploy the new refresh token.",
		})
	case errors.Is(err, graph.ErrInvalidClient):
		c.JSON(http.StatusBadRequest, tokenError{
			Error:   "invalid_client",
			Details: err.Error(),
			Advice:  "Verify the client secret has not expired.",
		})
	case errors.Is(err, graph.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, tokenError{
			Error:   "invalid_request",
			Details: err.Error(),
		})
	case errors.Is(err, graph.ErrEndpointNotFound):
		c.JSON(http.StatusInternalServerError, tokenError{
			Error:   "token_endpoint_unreachable",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, tokenError{
			Error:   "token_exchange_failed",
			Details: err.Error(),
		})
	}
}
