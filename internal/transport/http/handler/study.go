package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/extract"
	"edumate/internal/transport/http/response"
)

const maxUploadBytes = 20 << 20

type StudyHandler struct {
	study *app.StudyService
}

type AskRequest struct {
	Question   string `json:"question" binding:"required"`
	UseContext bool   `json:"use_context"`
}

type SummarizeRequest struct {
	Text string `json:"text"`
}

type SuggestionRequest struct {
	Suggestion string `json:"suggestion" binding:"required"`
}

func NewStudyHandler(study *app.StudyService) *StudyHandler {
	return &StudyHandler{study: study}
}

func (h *StudyHandler) Ask(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	record, err := h.study.AnswerAndRecord(c.Request.Context(), session, req.Question, req.UseContext)
	if err != nil {
		writeError(c, err, "answer question failed")
		return
	}
	response.OK(c, record)
}

// UploadDocument accepts a multipart "file" field holding a PDF or an image.
func (h *StudyHandler) UploadDocument(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	kind, err := extract.KindFromMIME(fileHeader.Header.Get("Content-Type"))
	if err != nil {
		kind, err = extract.KindFromMIME(mime.TypeByExtension(filepath.Ext(fileHeader.Filename)))
	}
	if err != nil {
		writeError(c, err, "")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err, "read upload failed")
		return
	}
	defer file.Close()

	result, err := h.study.IngestDocument(c.Request.Context(), session, file, kind)
	if err != nil {
		writeError(c, err, "extract document text failed")
		return
	}
	response.OK(c, result)
}

func (h *StudyHandler) Summarize(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	record, created, err := h.study.SummarizeAndRecord(c.Request.Context(), session, req.Text)
	if err != nil {
		writeError(c, err, "summarize document failed")
		return
	}
	response.OK(c, gin.H{"record": record, "created": created})
}

func (h *StudyHandler) Suggestions(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	response.OK(c, gin.H{"suggestions": h.study.SuggestionsFor(session)})
}

func (h *StudyHandler) AskSuggestion(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	record, err := h.study.AskSuggestion(c.Request.Context(), session, req.Suggestion)
	if err != nil {
		writeError(c, err, "answer suggestion failed")
		return
	}
	response.OK(c, record)
}

func (h *StudyHandler) Active(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	record, err := h.study.ActiveRecord(session)
	if err != nil {
		writeError(c, err, "load active record failed")
		return
	}
	response.OK(c, gin.H{"record": record})
}
