package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/application/usecase/educationmgmt"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type EducationHandler struct {
	eduUC *educationmgmt.EducationUseCase
}

func NewEducationHandler(uc *educationmgmt.EducationUseCase) *EducationHandler {
	return &EducationHandler{eduUC: uc}
}

func (h *EducationHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	var req CreateOrUpdateEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid education payload", err))
		return
	}
	start, end, err := req.Dates()
	if err != nil {
		c.Error(err)
		return
	}

	e, err := h.eduUC.ExecuteCreate(c.Request.Context(), educationmgmt.CreateEducationInput{
		OwnerID:      ownerID,
		Institution:  req.Institution,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		StartDate:    start,
		EndDate:      end,
		GPA:          req.GPA,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToEducationDTO(e))
}

func (h *EducationHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education id", err))
		return
	}

	var req CreateOrUpdateEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid education payload", err))
		return
	}
	start, end, err := req.Dates()
	if err != nil {
		c.Error(err)
		return
	}

	e, err := h.eduUC.ExecuteUpdate(c.Request.Context(), educationmgmt.UpdateEducationInput{
		ID:           id,
		OwnerID:      ownerID,
		Institution:  req.Institution,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		StartDate:    start,
		EndDate:      end,
		GPA:          req.GPA,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToEducationDTO(e))
}

func (h *EducationHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education id", err))
		return
	}

	e, err := h.eduUC.ExecuteGet(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToEducationDTO(e))
}

func (h *EducationHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	limit, offset := paginationParams(c)
	items, err := h.eduUC.ExecuteList(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]EducationDTO, 0, len(items))
	for _, e := range items {
		dtos = append(dtos, ToEducationDTO(e))
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (h *EducationHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education id", err))
		return
	}

	if err := h.eduUC.ExecuteDelete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
