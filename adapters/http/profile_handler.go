package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/career-planner/internal/application/usecase/profilemgmt"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type ProfileHandler struct {
	profileUC *profilemgmt.ProfileUseCase
}

func NewProfileHandler(uc *profilemgmt.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUC: uc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	p, err := h.profileUC.ExecuteGet(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid profile payload", err))
		return
	}

	p, err := h.profileUC.ExecuteUpdate(c.Request.Context(), profilemgmt.UpdateProfileInput{
		OwnerID:           ownerID,
		Phone:             req.Phone,
		CurrentPosition:   req.CurrentPosition,
		YearsOfExperience: req.YearsOfExperience,
		CurrentSalary:     req.CurrentSalary,
		DesiredSalary:     req.DesiredSalary,
		Location:          req.Location,
		LinkedinURL:       req.LinkedinURL,
		GithubURL:         req.GithubURL,
		PortfolioURL:      req.PortfolioURL,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(p))
}
