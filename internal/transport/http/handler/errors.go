package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/extract"
	"edumate/internal/repository"
	"edumate/internal/transport/http/middleware"
	"edumate/internal/transport/http/response"
)

// writeError maps service errors to HTTP status and envelope code. fallback
// is shown for unexpected failures.
func writeError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	var persistErr *repository.PersistenceError
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, repository.ErrEmptyPatch):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, repository.ErrImmutableField):
		response.Error(c, http.StatusBadRequest, response.CodeImmutableField, err.Error())
	case errors.Is(err, repository.ErrUnknownField):
		response.Error(c, http.StatusBadRequest, response.CodeUnknownField, err.Error())
	case errors.Is(err, repository.ErrInvalidPatchValue):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidPatchValue, err.Error())
	case errors.Is(err, app.ErrNoContext):
		response.Error(c, http.StatusBadRequest, response.CodeNoContext, "upload a document first")
	case errors.Is(err, extract.ErrUnsupportedKind):
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedDocument, "only PDF and image uploads are supported")
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, repository.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, response.CodeRecordNotFound, "chat record not found")
	case errors.Is(err, app.ErrNoPlan):
		response.Error(c, http.StatusNotFound, response.CodeNoPlan, err.Error())
	case errors.Is(err, app.ErrNoQuiz):
		response.Error(c, http.StatusNotFound, response.CodeNoQuiz, err.Error())
	case errors.Is(err, app.ErrQuizSubmitted):
		response.Error(c, http.StatusConflict, response.CodeQuizSubmitted, err.Error())
	case errors.As(err, &persistErr):
		response.Error(c, http.StatusInternalServerError, response.CodePersistence, "could not save your history, please try again")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func mustSession(c *gin.Context) (*app.StudySession, bool) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing session")
		return nil, false
	}
	return session, true
}
