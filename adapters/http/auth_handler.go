package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/careerhub/careerhub-api/internal/application/usecase/auth"
	"github.com/careerhub/careerhub-api/pkg/apperror"
)

type AuthHandler struct {
	loginUseCase   *authUC.LoginUseCase
	refreshUseCase *authUC.RefreshUseCase
	logoutUseCase  *authUC.LogoutUseCase
}

func NewAuthHandler(loginUC *authUC.LoginUseCase, refreshUC *authUC.RefreshUseCase, logoutUC *authUC.LogoutUseCase) *AuthHandler {
	return &AuthHandler{
		loginUseCase:   loginUC,
		refreshUseCase: refreshUC,
		logoutUseCase:  logoutUC,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for login", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for token refresh", err))
		return
	}

	output, err := h.refreshUseCase.Execute(c.Request.Context(), authUC.RefreshInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	// body is optional, the access token alone is enough to revoke
	_ = c.ShouldBindJSON(&req)

	accessToken, _ := bearerToken(c)

	h.logoutUseCase.Execute(c.Request.Context(), authUC.LogoutInput{
		AccessToken:  accessToken,
		RefreshToken: req.RefreshToken,
	})

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
