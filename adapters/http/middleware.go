package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/auth"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", false
	}
	return tokenString, true
}

// AuthMiddleware requires a valid, unrevoked access token.
func AuthMiddleware(jwtSvc *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if claims.TokenType != auth.TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type"})
			return
		}
		if blacklist.IsRevoked(c.Request.Context(), tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		c.Set(GinContextKeyUserID, claims.UserID)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller's identity when a valid
// token is present and stays anonymous otherwise. Visibility checks
// downstream decide what the viewer may see.
func OptionalAuthMiddleware(jwtSvc *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err == nil && claims.TokenType == auth.TokenTypeAccess &&
			!blacklist.IsRevoked(c.Request.Context(), tokenString) {
			c.Set(GinContextKeyUserID, claims.UserID)
		}

		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return userID, true
}

// viewerID adapts the optional identity to the usecases' nil-means-anonymous convention.
func viewerID(c *gin.Context) *uuid.UUID {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		return nil
	}
	return &userID
}

// ErrorMiddleware converts errors pushed via c.Error into JSON
// responses. Unrecognized errors become opaque 500s.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unhandled error", err)
		}

		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", appErr,
				zap.String("path", c.FullPath()),
				zap.String("method", c.Request.Method),
			)
		}

		c.JSON(status, appErr.ToJSON())
	}
}
