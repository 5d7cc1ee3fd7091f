package response

import "github.com/gin-gonic/gin"

const (
	CodeOK                  = 0
	CodeBadRequest          = 40000
	CodeImmutableField      = 40001
	CodeUnknownField        = 40002
	CodeInvalidPatchValue   = 40003
	CodeNoContext           = 40004
	CodeUnsupportedDocument = 40005
	CodeUnauthorized        = 40100
	CodeSessionNotFound     = 40401
	CodeRecordNotFound      = 40402
	CodeNoPlan              = 40403
	CodeNoQuiz              = 40404
	CodeQuizSubmitted       = 40901
	CodeInternalServer      = 50000
	CodePersistence         = 50001
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, APIResponse{
		Code:    CodeOK,
		Message: "created",
		Data:    data,
	})
}
