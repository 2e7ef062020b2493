package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/application/usecase/skillmgmt"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type SkillHandler struct {
	skillUC *skillmgmt.SkillUseCase
}

func NewSkillHandler(uc *skillmgmt.SkillUseCase) *SkillHandler {
	return &SkillHandler{skillUC: uc}
}

func (h *SkillHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	var req CreateOrUpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill payload", err))
		return
	}

	s, err := h.skillUC.ExecuteCreate(c.Request.Context(), skillmgmt.CreateSkillInput{
		OwnerID:           ownerID,
		SkillName:         req.SkillName,
		Category:          req.Category,
		ProficiencyLevel:  req.ProficiencyLevel,
		YearsOfExperience: req.YearsOfExperience,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToSkillDTO(s))
}

func (h *SkillHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill id", err))
		return
	}

	var req CreateOrUpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill payload", err))
		return
	}

	s, err := h.skillUC.ExecuteUpdate(c.Request.Context(), skillmgmt.UpdateSkillInput{
		ID:                id,
		OwnerID:           ownerID,
		SkillName:         req.SkillName,
		Category:          req.Category,
		ProficiencyLevel:  req.ProficiencyLevel,
		YearsOfExperience: req.YearsOfExperience,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToSkillDTO(s))
}

func (h *SkillHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill id", err))
		return
	}

	s, err := h.skillUC.ExecuteGet(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToSkillDTO(s))
}

func (h *SkillHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	limit, offset := paginationParams(c)
	items, err := h.skillUC.ExecuteList(c.Request.Context(), ownerID, c.Query("category"), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]SkillDTO, 0, len(items))
	for _, s := range items {
		dtos = append(dtos, ToSkillDTO(s))
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (h *SkillHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid skill id", err))
		return
	}

	if err := h.skillUC.ExecuteDelete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func paginationParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
