package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authuc "github.com/khoahotran/career-planner/internal/application/usecase/auth"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

type AuthHandler struct {
	loginUC *authuc.LoginUseCase
}

func NewAuthHandler(loginUC *authuc.LoginUseCase) *AuthHandler {
	return &AuthHandler{loginUC: loginUC}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid login payload", err))
		return
	}

	out, err := h.loginUC.Execute(c.Request.Context(), authuc.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{AccessToken: out.AccessToken})
}
