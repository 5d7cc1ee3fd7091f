package handler

import (
	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/transport/http/response"
)

type QuizHandler struct {
	quizzes *app.QuizService
}

type CreateQuizRequest struct {
	Topic     string `json:"topic" binding:"required"`
	Questions int    `json:"questions"`
}

type SubmitQuizRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

func NewQuizHandler(quizzes *app.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

func (h *QuizHandler) Create(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}
	if req.Questions == 0 {
		req.Questions = app.AllowedQuizSizes[0]
	}

	quiz, err := h.quizzes.Generate(c.Request.Context(), session, req.Topic, req.Questions)
	if err != nil {
		writeError(c, err, "generate quiz failed")
		return
	}
	response.OK(c, quiz)
}

func (h *QuizHandler) Submit(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	result, err := h.quizzes.Submit(c.Request.Context(), session, req.Answers)
	if err != nil {
		writeError(c, err, "submit quiz failed")
		return
	}
	response.OK(c, result)
}

func (h *QuizHandler) Progress(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	report, err := h.quizzes.Progress(session)
	if err != nil {
		writeError(c, err, "load progress failed")
		return
	}
	response.OK(c, report)
}
