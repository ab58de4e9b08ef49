package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shaqyru-backend/internal/canva"
	"shaqyru-backend/internal/models"
	"shaqyru-backend/internal/render"
	"shaqyru-backend/internal/storage"
)

// renderDeadline bounds one full autofill+export run. Jobs still pending
// after this are marked failed by the transport error path.
const renderDeadline = 15 * time.Minute

type RenderHandler struct {
	dbClient *storage.DatabaseClient
	runner   *render.Runner
}

func NewRenderHandler(dbClient *storage.DatabaseClient, runner *render.Runner) *RenderHandler {
	return &RenderHandler{dbClient: dbClient, runner: runner}
}

// CreateRender starts the autofill flow for a template and returns the
// render id for status polling. The export phase is chained automatically
// once autofill reports success.
func (h *RenderHandler) CreateRender(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid template id"})
		return
	}

	var req models.AutofillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	template, err := h.dbClient.GetTemplate(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "template not found"})
		return
	}

	designType := req.DesignType
	if designType == "" {
		designType = template.TemplateType
	}

	title := req.Title
	if title == "" {
		title = template.TemplateName
	}

	data := make(map[string]canva.AutofillField, len(req.Values))
	for name, text := range req.Values {
		data[name] = canva.AutofillField{Text: text, Type: "text"}
	}

	job := &models.RenderJob{
		ID:         uuid.New(),
		UserID:     userID,
		TemplateID: template.ID,
		Phase:      string(render.PhaseAutofill),
		Status:     string(render.StateSubmitting),
		DesignType: designType,
	}
	if err := h.dbClient.CreateRenderJob(job); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create render job",
			Message: err.Error(),
		})
		return
	}

	// The run outlives the request, so it gets its own context.
	ctx, cancel := context.WithTimeout(context.Background(), renderDeadline)
	go func() {
		defer cancel()
		h.runner.Run(ctx, job.ID, canva.AutofillRequest{
			BrandTemplateID: template.CanvaID,
			Data:            data,
			Title:           title,
		}, canva.ExportRequest{
			DesignType: designType,
			TemplateID: template.CanvaID,
			Format:     canva.ExportFormat{Type: designType},
		})
	}()

	c.JSON(http.StatusAccepted, models.RenderResponse{
		RenderID: job.ID.String(),
		Phase:    job.Phase,
		Status:   job.Status,
	})
}

// GetRenderStatus reports the current snapshot of a render run.
func (h *RenderHandler) GetRenderStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	renderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid render id"})
		return
	}

	job, err := h.dbClient.GetRenderJob(renderID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "render job not found"})
		return
	}

	var urls []string
	if len(job.ExportURLs) > 0 {
		_ = json.Unmarshal(job.ExportURLs, &urls)
	}

	c.JSON(http.StatusOK, models.RenderStatusResponse{
		RenderID:  job.ID.String(),
		Phase:     job.Phase,
		Status:    job.Status,
		DesignID:  job.DesignID.String,
		ViewURL:   job.ViewURL.String,
		EditURL:   job.EditURL.String,
		Thumbnail: job.Thumbnail.String,
		URLs:      urls,
		Video:     job.DesignType == "mp4",
		Error:     job.ErrorMessage.String,
		UpdatedAt: job.UpdatedAt,
	})
}
