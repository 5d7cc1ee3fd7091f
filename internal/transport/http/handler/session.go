package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/pkg/jwtutil"
	"edumate/internal/transport/http/response"
)

type SessionHandler struct {
	sessions *app.SessionStore
	secret   string
	tokenTTL time.Duration
}

type SessionSettingsRequest struct {
	EducationLevel *string `json:"education_level"`
	LearningStyle  *string `json:"learning_style"`
}

func NewSessionHandler(sessions *app.SessionStore, secret string, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{sessions: sessions, secret: secret, tokenTTL: tokenTTL}
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req SessionSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	session, err := h.sessions.Create(app.SessionSettings{
		EducationLevel: req.EducationLevel,
		LearningStyle:  req.LearningStyle,
	})
	if err != nil {
		writeError(c, err, "create session failed")
		return
	}

	token, err := jwtutil.IssueToken(h.secret, session.ID, h.tokenTTL)
	if err != nil {
		h.sessions.Delete(session.ID)
		writeError(c, err, "issue session token failed")
		return
	}

	response.Created(c, gin.H{
		"token":   token,
		"session": session.View(),
	})
}

func (h *SessionHandler) Current(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	response.OK(c, session.View())
}

func (h *SessionHandler) Update(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var req SessionSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}
	if err := h.sessions.Update(session, app.SessionSettings{
		EducationLevel: req.EducationLevel,
		LearningStyle:  req.LearningStyle,
	}); err != nil {
		writeError(c, err, "update session failed")
		return
	}
	response.OK(c, session.View())
}
