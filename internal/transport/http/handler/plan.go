package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/transport/http/response"
)

type PlanHandler struct {
	plans *app.PlanService
}

type CreatePlanRequest struct {
	Goal  string `json:"goal" binding:"required"`
	Weeks int    `json:"weeks" binding:"required,min=1,max=52"`
}

func NewPlanHandler(plans *app.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

func (h *PlanHandler) Create(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	plan, err := h.plans.Generate(c.Request.Context(), session, req.Goal, req.Weeks)
	if err != nil {
		writeError(c, err, "generate study plan failed")
		return
	}
	response.OK(c, plan)
}

func (h *PlanHandler) Current(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	plan, err := h.plans.Current(session)
	if err != nil {
		writeError(c, err, "load study plan failed")
		return
	}
	response.OK(c, plan)
}

func (h *PlanHandler) ToggleStep(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeError(c, app.ErrInvalidInput, "")
		return
	}

	plan, err := h.plans.ToggleStep(session, index)
	if err != nil {
		writeError(c, err, "toggle study step failed")
		return
	}
	response.OK(c, plan)
}
