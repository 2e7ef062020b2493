package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/application/usecase/goalmgmt"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type GoalHandler struct {
	goalUC *goalmgmt.GoalUseCase
}

func NewGoalHandler(uc *goalmgmt.GoalUseCase) *GoalHandler {
	return &GoalHandler{goalUC: uc}
}

func (h *GoalHandler) bindInput(c *gin.Context, id uuid.UUID, ownerID uuid.UUID) (goalmgmt.GoalInput, bool) {
	var req CreateOrUpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid goal payload", err))
		return goalmgmt.GoalInput{}, false
	}
	target, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		c.Error(apperror.NewInvalidInput("target_date must be an ISO date (YYYY-MM-DD)", err))
		return goalmgmt.GoalInput{}, false
	}
	return goalmgmt.GoalInput{
		ID:          id,
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  target,
		Priority:    req.Priority,
		Status:      req.Status,
	}, true
}

func (h *GoalHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	input, ok := h.bindInput(c, uuid.Nil, ownerID)
	if !ok {
		return
	}

	g, err := h.goalUC.ExecuteCreate(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToGoalDTO(g))
}

func (h *GoalHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid goal id", err))
		return
	}

	input, ok := h.bindInput(c, id, ownerID)
	if !ok {
		return
	}

	g, err := h.goalUC.ExecuteUpdate(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToGoalDTO(g))
}

func (h *GoalHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid goal id", err))
		return
	}

	g, err := h.goalUC.ExecuteGet(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToGoalDTO(g))
}

func (h *GoalHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	limit, offset := paginationParams(c)
	items, err := h.goalUC.ExecuteList(c.Request.Context(), ownerID, c.Query("status"), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]GoalDTO, 0, len(items))
	for _, g := range items {
		dtos = append(dtos, ToGoalDTO(g))
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid goal id", err))
		return
	}

	if err := h.goalUC.ExecuteDelete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
