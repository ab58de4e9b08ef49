package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shaqyru-backend/internal/i18n"
	"shaqyru-backend/internal/media"
	"shaqyru-backend/internal/models"
)

type MediaHandler struct {
	pipeline *media.Pipeline
}

func NewMediaHandler(pipeline *media.Pipeline) *MediaHandler {
	return &MediaHandler{pipeline: pipeline}
}

func imageResponse(img *models.InvitationImage) models.UploadImageResponse {
	return models.UploadImageResponse{
		ImageID:    img.ID.String(),
		Stage:      img.Stage,
		StorageURL: img.StorageURL,
		BgRemoved:  img.BgRemoved,
	}
}

func siteIDParam(c *gin.Context) (uuid.UUID, bool) {
	siteID, err := uuid.Parse(c.Param("siteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid site id"})
		return uuid.Nil, false
	}
	return siteID, true
}

// UploadImage accepts a multipart upload with an "image" file and a "crop"
// JSON form value, crops the image, and uploads the result as the site's
// provisional invitation image.
func (h *MediaHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	siteID, ok := siteIDParam(c)
	if !ok {
		return
	}
	lang := requestLang(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "image file is required"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if err := media.ValidateUpload(mimeType, fileHeader.Size); err != nil {
		code := "unsupported_type"
		if errors.Is(err, media.ErrTooLarge) {
			code = "file_too_large"
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   i18n.T(lang, "media."+code),
			Code:    code,
			Message: err.Error(),
		})
		return
	}

	var req models.CropRequest
	if err := json.Unmarshal([]byte(c.PostForm("crop")), &req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid crop parameters"})
		return
	}
	if req.Width <= 0 || req.Height <= 0 || req.DisplayWidth <= 0 || req.DisplayHeight <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid crop parameters"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to read upload"})
		return
	}
	defer file.Close()

	src, err := io.ReadAll(io.LimitReader(file, media.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to read upload"})
		return
	}
	if int64(len(src)) > media.MaxUploadSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: i18n.T(lang, "media.file_too_large"),
			Code:  "file_too_large",
		})
		return
	}

	rect := media.Rect{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
	img, err := h.pipeline.CropAndUpload(c.Request.Context(), userID, siteID, src, rect, req.DisplayWidth, req.DisplayHeight)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to process image",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, imageResponse(img))
}

// RemoveBackground produces a background-removed candidate for the site's
// current image. The candidate does not replace the final image until
// confirmed.
func (h *MediaHandler) RemoveBackground(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	siteID, ok := siteIDParam(c)
	if !ok {
		return
	}

	img, err := h.pipeline.RemoveBackground(c.Request.Context(), userID, siteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to remove background",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, imageResponse(img))
}

// ConfirmImage promotes the background-removed candidate to the final
// image.
func (h *MediaHandler) ConfirmImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	siteID, ok := siteIDParam(c)
	if !ok {
		return
	}

	img, err := h.pipeline.Confirm(c.Request.Context(), userID, siteID)
	if err != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "no candidate to confirm",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, imageResponse(img))
}

// DiscardImage throws the candidate away and keeps the cropped original.
func (h *MediaHandler) DiscardImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	siteID, ok := siteIDParam(c)
	if !ok {
		return
	}

	img, err := h.pipeline.Discard(c.Request.Context(), userID, siteID)
	if err != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "no candidate to discard",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, imageResponse(img))
}
