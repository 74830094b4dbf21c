package auth

import (
	"context"

	"github.com/careerhub/careerhub-api/pkg/auth"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type LogoutUseCase struct {
	blacklist auth.TokenBlacklist
	logger    logger.Logger
}

func NewLogoutUseCase(blacklist auth.TokenBlacklist, log logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{blacklist: blacklist, logger: log}
}

type LogoutInput struct {
	AccessToken  string
	RefreshToken string
}

// Execute revokes the caller's tokens. Revocation is best-effort, so
// logout always succeeds from the client's point of view.
func (uc *LogoutUseCase) Execute(ctx context.Context, input LogoutInput) {
	ctx, span := tracer.Start(ctx, "Logout")
	defer span.End()

	if input.AccessToken != "" {
		uc.blacklist.Add(ctx, input.AccessToken)
	}
	if input.RefreshToken != "" {
		uc.blacklist.Add(ctx, input.RefreshToken)
	}
}
