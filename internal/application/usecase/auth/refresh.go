package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/auth"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type RefreshUseCase struct {
	jwtSvc    *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    logger.Logger
}

func NewRefreshUseCase(jwtSvc *auth.JWTService, blacklist auth.TokenBlacklist, log logger.Logger) *RefreshUseCase {
	return &RefreshUseCase{
		jwtSvc:    jwtSvc,
		blacklist: blacklist,
		logger:    log,
	}
}

type RefreshInput struct {
	RefreshToken string
}

type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// Execute rotates a refresh token: the presented token is revoked and a
// fresh access/refresh pair is issued.
func (uc *RefreshUseCase) Execute(ctx context.Context, input RefreshInput) (*RefreshOutput, error) {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	claims, err := uc.jwtSvc.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid refresh token", err)
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, apperror.NewUnauthorized("token is not a refresh token", nil)
	}
	if uc.blacklist.IsRevoked(ctx, input.RefreshToken) {
		return nil, apperror.NewUnauthorized("refresh token has been revoked", nil)
	}

	accessToken, err := uc.jwtSvc.GenerateAccessToken(claims.UserID)
	if err != nil {
		uc.logger.Error("Failed to generate access token", err, zap.String("user_id", claims.UserID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	refreshToken, err := uc.jwtSvc.GenerateRefreshToken(claims.UserID)
	if err != nil {
		uc.logger.Error("Failed to generate refresh token", err, zap.String("user_id", claims.UserID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	uc.blacklist.Add(ctx, input.RefreshToken)

	return &RefreshOutput{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
