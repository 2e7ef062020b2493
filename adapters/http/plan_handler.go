package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/application/usecase/planning"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type PlanHandler struct {
	generateUC *planning.GeneratePlanUseCase
	queryUC    *planning.PlanQueryUseCase
}

func NewPlanHandler(generateUC *planning.GeneratePlanUseCase, queryUC *planning.PlanQueryUseCase) *PlanHandler {
	return &PlanHandler{generateUC: generateUC, queryUC: queryUC}
}

func (h *PlanHandler) Generate(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid plan request payload", err))
		return
	}

	p, err := h.generateUC.Execute(c.Request.Context(), planning.GeneratePlanInput{
		OwnerID: ownerID,
		GoalID:  req.GoalID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToPlanDTO(p))
}

func (h *PlanHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid plan id", err))
		return
	}

	p, err := h.queryUC.ExecuteGet(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToPlanDTO(p))
}

func (h *PlanHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	limit, offset := paginationParams(c)
	items, err := h.queryUC.ExecuteList(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]PlanDTO, 0, len(items))
	for _, p := range items {
		dtos = append(dtos, ToPlanDTO(p))
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (h *PlanHandler) ListExecutions(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid plan id", err))
		return
	}

	items, err := h.queryUC.ExecuteListExecutions(c.Request.Context(), planID, ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]PlanExecutionDTO, 0, len(items))
	for _, ex := range items {
		dtos = append(dtos, ToPlanExecutionDTO(ex))
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (h *PlanHandler) CompleteWeek(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid plan id", err))
		return
	}
	executionID, err := uuid.Parse(c.Param("executionId"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid execution id", err))
		return
	}

	if err := h.queryUC.ExecuteCompleteWeek(c.Request.Context(), planID, ownerID, executionID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
