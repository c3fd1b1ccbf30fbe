package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"unitdrive/internal/middleware"
	"unitdrive/internal/model"
	"unitdrive/internal/service"
	"unitdrive/pkg/response"
)

// maxUploadSize bounds a single media upload (32 MiB).
const maxUploadSize = 32 << 20

type MediaHandler struct {
	mediaService service.MediaService
}

// shareRequest carries the optional display name recorded in the QR log.
type shareRequest struct {
	ItemName string `json:"itemName"`
}

// NewMediaHandler sets up the routing dependencies for gallery endpoints
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MediaHandler) RegisterRoutes(router *gin.RouterGroup) {
	media := router.Group("/media", middleware.RequireRole(string(model.RoleAdmin), string(model.RoleStaff)))
	{
		media.GET("", h.Browse)
		media.POST("/upload", h.Upload)
		media.GET("/recent", h.Recent)
		media.POST("/:id/share", h.ShareItem)
		media.DELETE("/:id", h.DeleteItem)
	}
	router.GET("/media/qrcodes", middleware.RequireRole(string(model.RoleAdmin)), h.ListQRCodes)
}

// Browse handles GET /media to list a gallery folder
// @Summary      Browse gallery
// @Description  Lists a folder, folders before files; system folders are hidden from staff
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        path  query     string  false  "Folder path relative to the drive root"
// @Success      200   {object}  response.Response{data=[]model.CloudItem}
// @Failure      500   {object}  response.Response
// @Router       /media [get]
func (h *MediaHandler) Browse(c *gin.Context) {
	role := model.RoleStaff
	if r, ok := c.Get("userRole"); ok {
		if rs, ok := r.(string); ok {
			role = model.Role(rs)
		}
	}

	items, err := h.mediaService.Browse(c.Request.Context(), c.Query("path"), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list folder"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// Upload handles POST /media/upload (multipart form, field "file")
// @Summary      Upload media
// @Description  Stores a photo or video under the caller's per-month folder
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Media file"
// @Success      201   {object}  response.Response{data=model.CloudItem}
// @Failure      400   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Router       /media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Username not found in context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file field is required"))
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file exceeds the 32 MiB upload limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to read upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to read upload"))
		return
	}

	item, err := h.mediaService.Upload(c.Request.Context(), username, fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// Recent handles GET /media/recent for the caller's current-month uploads
// @Summary      Recent uploads
// @Description  Lists the caller's uploads for the current month; failures degrade to an empty list
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.CloudItem}
// @Router       /media/recent [get]
func (h *MediaHandler) Recent(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Username not found in context"))
		return
	}

	items := h.mediaService.Recent(c.Request.Context(), username)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// ShareItem handles POST /media/:id/share
// @Summary      Share an item
// @Description  Creates an anonymous share link for an item by its stable ID and returns it with a QR code
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true   "Item ID"
// @Param        payload  body      handler.shareRequest  false  "Display name for the QR log"
// @Success      200      {object}  response.Response{data=service.ShareLinkResponse}
// @Failure      500      {object}  response.Response
// @Router       /media/{id}/share [post]
func (h *MediaHandler) ShareItem(c *gin.Context) {
	id := c.Param("id")
	username := c.GetString("username")

	var body shareRequest
	_ = c.ShouldBindJSON(&body) // name is optional

	link, err := h.mediaService.ShareLink(c.Request.Context(), id, body.ItemName, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, link))
}

// ListQRCodes handles GET /media/qrcodes (admin)
// @Summary      List QR code log
// @Description  Returns the log of generated share-link QR codes
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.QRCodeEntry}
// @Failure      500  {object}  response.Response
// @Router       /media/qrcodes [get]
func (h *MediaHandler) ListQRCodes(c *gin.Context) {
	entries, err := h.mediaService.QRCodes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch QR log"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// DeleteItem handles DELETE /media/:id
// @Summary      Delete item
// @Description  Removes an item from the drive by its stable ID
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /media/{id} [delete]
func (h *MediaHandler) DeleteItem(c *gin.Context) {
	err := h.mediaService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted successfully"))
}
