package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/transport/http/middleware"
	"edumate/internal/transport/http/response"
)

type HistoryHandler struct {
	history *app.HistoryService
}

type RenameRequest struct {
	Title string `json:"title" binding:"required,max=256"`
}

func NewHistoryHandler(history *app.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns the pinned/recent view, or only pinned records with ?pinned=true.
func (h *HistoryHandler) List(c *gin.Context) {
	query := c.Query("search")
	pinnedOnly, _ := strconv.ParseBool(c.DefaultQuery("pinned", "false"))

	if pinnedOnly {
		records, err := h.history.List(c.Request.Context(), query, true)
		if err != nil {
			writeError(c, err, "list history failed")
			return
		}
		response.OK(c, gin.H{"pinned": records})
		return
	}

	view, err := h.history.View(c.Request.Context(), query)
	if err != nil {
		writeError(c, err, "list history failed")
		return
	}
	response.OK(c, view)
}

func (h *HistoryHandler) Get(c *gin.Context) {
	record, err := h.history.Get(c.Param("id"))
	if err != nil {
		writeError(c, err, "get chat record failed")
		return
	}
	response.OK(c, record)
}

func (h *HistoryHandler) Open(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	record, err := h.history.Open(session, c.Param("id"))
	if err != nil {
		writeError(c, err, "open chat record failed")
		return
	}
	response.OK(c, record)
}

func (h *HistoryHandler) Rename(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(c, app.ErrInvalidInput, "")
		return
	}
	record, err := h.history.Rename(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		writeError(c, err, "rename chat record failed")
		return
	}
	response.OK(c, record)
}

func (h *HistoryHandler) TogglePin(c *gin.Context) {
	record, err := h.history.TogglePin(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "toggle pin failed")
		return
	}
	response.OK(c, record)
}

func (h *HistoryHandler) Patch(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}
	record, err := h.history.Patch(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		writeError(c, err, "update chat record failed")
		return
	}
	response.OK(c, record)
}

func (h *HistoryHandler) Delete(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	id := c.Param("id")
	if err := h.history.Delete(c.Request.Context(), session, id); err != nil {
		writeError(c, err, "delete chat record failed")
		return
	}
	response.OK(c, gin.H{"deleted_record_id": id})
}
