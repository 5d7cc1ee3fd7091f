package http

import (
	"github.com/gin-gonic/gin"

	"edumate/internal/bootstrap"
	"edumate/internal/transport/http/handler"
	"edumate/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Log), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	sessionHandler := handler.NewSessionHandler(app.Sessions, app.Config.Auth.SessionSecret, app.Config.SessionTokenTTL())
	historyHandler := handler.NewHistoryHandler(app.History)
	studyHandler := handler.NewStudyHandler(app.Study)
	planHandler := handler.NewPlanHandler(app.Plans)
	quizHandler := handler.NewQuizHandler(app.Quizzes)
	resourceHandler := handler.NewResourceHandler(app.Resources)

	v1 := router.Group("/api/v1")
	v1.POST("/sessions", sessionHandler.Create)

	authed := v1.Group("")
	authed.Use(middleware.RequireSession(app.Config.Auth.SessionSecret, app.Sessions))
	authed.GET("/sessions/current", sessionHandler.Current)
	authed.PATCH("/sessions/current", sessionHandler.Update)

	historyGroup := authed.Group("/history")
	historyGroup.GET("", historyHandler.List)
	historyGroup.GET("/:id", historyHandler.Get)
	historyGroup.PATCH("/:id", historyHandler.Patch)
	historyGroup.DELETE("/:id", historyHandler.Delete)
	historyGroup.PUT("/:id/title", historyHandler.Rename)
	historyGroup.POST("/:id/pin", historyHandler.TogglePin)
	historyGroup.POST("/:id/open", historyHandler.Open)

	studyGroup := authed.Group("/study")
	studyGroup.POST("/ask", studyHandler.Ask)
	studyGroup.POST("/documents", studyHandler.UploadDocument)
	studyGroup.POST("/summarize", studyHandler.Summarize)
	studyGroup.GET("/suggestions", studyHandler.Suggestions)
	studyGroup.POST("/suggestions", studyHandler.AskSuggestion)
	studyGroup.GET("/active", studyHandler.Active)

	planGroup := authed.Group("/plans")
	planGroup.POST("", planHandler.Create)
	planGroup.GET("/current", planHandler.Current)
	planGroup.POST("/current/steps/:index/toggle", planHandler.ToggleStep)

	authed.POST("/quizzes", quizHandler.Create)
	authed.POST("/quizzes/current/answers", quizHandler.Submit)
	authed.GET("/progress", quizHandler.Progress)

	authed.GET("/resources", resourceHandler.Curate)

	return router
}
