package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shaqyru-backend/internal/models"
	"shaqyru-backend/internal/storage"
)

type TemplatesHandler struct {
	dbClient *storage.DatabaseClient
}

func NewTemplatesHandler(dbClient *storage.DatabaseClient) *TemplatesHandler {
	return &TemplatesHandler{dbClient: dbClient}
}

// GetTemplate returns one template with its dataset fields in stable
// (ascending id) order.
func (h *TemplatesHandler) GetTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid template id"})
		return
	}

	template, err := h.dbClient.GetTemplate(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "template not found"})
		return
	}

	fields := make([]models.DatasetFieldResponse, 0, len(template.DatasetFields))
	for _, f := range template.DatasetFields {
		fields = append(fields, models.DatasetFieldResponse{
			ID:          f.ID,
			FieldName:   f.FieldName,
			FieldNameKZ: f.FieldNameKZ,
			HintTextKZ:  f.HintTextKZ.String,
		})
	}

	c.JSON(http.StatusOK, models.TemplateResponse{
		ID:            template.ID.String(),
		CanvaID:       template.CanvaID,
		TemplateName:  template.TemplateName,
		TemplateType:  template.TemplateType,
		PreviewURL:    template.PreviewURL.String,
		AudioURL:      template.AudioURL.String,
		DatasetFields: fields,
	})
}
