package handler

import (
	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/transport/http/response"
)

type ResourceHandler struct {
	resources *app.ResourceService
}

func NewResourceHandler(resources *app.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// Curate lists resources for ?topic= ordered for the session's learning style.
func (h *ResourceHandler) Curate(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	sections, err := h.resources.Curate(c.Request.Context(), c.Query("topic"), session.View().LearningStyle)
	if err != nil {
		writeError(c, err, "curate resources failed")
		return
	}
	response.OK(c, gin.H{"topic": c.Query("topic"), "sections": sections})
}
