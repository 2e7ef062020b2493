package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/application/usecase/experiencemgmt"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type ExperienceHandler struct {
	expUC *experiencemgmt.ExperienceUseCase
}

func NewExperienceHandler(uc *experiencemgmt.ExperienceUseCase) *ExperienceHandler {
	return &ExperienceHandler{expUC: uc}
}

func (h *ExperienceHandler) bindInput(c *gin.Context, id uuid.UUID, ownerID uuid.UUID) (experiencemgmt.ExperienceInput, bool) {
	var req CreateOrUpdateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid work experience payload", err))
		return experiencemgmt.ExperienceInput{}, false
	}
	start, end, err := req.Dates()
	if err != nil {
		c.Error(err)
		return experiencemgmt.ExperienceInput{}, false
	}
	return experiencemgmt.ExperienceInput{
		ID:           id,
		OwnerID:      ownerID,
		Company:      req.Company,
		Position:     req.Position,
		StartDate:    start,
		EndDate:      end,
		IsCurrent:    req.IsCurrent,
		Description:  req.Description,
		Achievements: req.Achievements,
	}, true
}

func (h *ExperienceHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	input, ok := h.bindInput(c, uuid.Nil, ownerID)
	if !ok {
		return
	}

	we, err := h.expUC.ExecuteCreate(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToExperienceDTO(we))
}

func (h *ExperienceHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid work experience id", err))
		return
	}

	input, ok := h.bindInput(c, id, ownerID)
	if !ok {
		return
	}

	we, err := h.expUC.ExecuteUpdate(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToExperienceDTO(we))
}

func (h *ExperienceHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid work experience id", err))
		return
	}

	we, err := h.expUC.ExecuteGet(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToExperienceDTO(we))
}

func (h *ExperienceHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	limit, offset := paginationParams(c)
	items, err := h.expUC.ExecuteList(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]ExperienceDTO, 0, len(items))
	for _, we := range items {
		dtos = append(dtos, ToExperienceDTO(we))
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (h *ExperienceHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid work experience id", err))
		return
	}

	if err := h.expUC.ExecuteDelete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
