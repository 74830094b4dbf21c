package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/careerhub/careerhub-api/adapters/persistence"
	authUC "github.com/careerhub/careerhub-api/internal/application/usecase/auth"
	"github.com/careerhub/careerhub-api/internal/config"
	"github.com/careerhub/careerhub-api/internal/domain/user"
	"github.com/careerhub/careerhub-api/pkg/auth"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

type AuthE2ETestSuite struct {
	suite.Suite
	Router   *gin.Engine
	testUser user.User
	testPass string
}

func (s *AuthE2ETestSuite) SetupSuite() {

	cfg, err := config.LoadConfig("../..")
	if err != nil {
		s.T().Fatalf("Failed to load config for E2E test: %v", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect postgres: %v", err)
	}

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect redis: %v", err)
	}

	appLogger := logger.NewZapLogger("development")

	s.testPass = "e2e_test_password_123"
	hash, _ := auth.HashPassword(s.testPass)
	name := "E2E Tester"
	s.testUser = user.User{
		ID:           uuid.New(),
		Email:        "e2e_test@example.com",
		Name:         &name,
		PasswordHash: hash,
	}
	query := `INSERT INTO users (id, email, name, password_hash) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO UPDATE SET password_hash = $4`
	_, err = dbPool.Exec(context.Background(), query, s.testUser.ID, s.testUser.Email, s.testUser.Name, s.testUser.PasswordHash)
	if err != nil {
		s.T().Fatalf("E2E test failed to seed user: %v", err)
	}

	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessLifespan, cfg.Auth.RefreshLifespan)
	blacklist := auth.NewRedisTokenBlacklist(redisClient, appLogger)

	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	refreshUseCase := authUC.NewRefreshUseCase(jwtSvc, blacklist, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(blacklist, appLogger)
	authHandler := NewAuthHandler(loginUseCase, refreshUseCase, logoutUseCase)
	authMiddleware := AuthMiddleware(jwtSvc, blacklist)
	errorMiddleware := ErrorMiddleware(appLogger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(errorMiddleware)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.POST("/auth/logout", authHandler.Logout)
			private.GET("/health-auth", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "OK"})
			})
		}
	}

	s.Router = router
}

func (s *AuthE2ETestSuite) TearDownSuite() {}

func TestAuthE2E(t *testing.T) {

	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("Skipping E2E tests. Set E2E_TESTS=1 to run.")
	}
	suite.Run(t, new(AuthE2ETestSuite))
}

func (s *AuthE2ETestSuite) postJSON(path string, body gin.H, headers map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *AuthE2ETestSuite) Test_Login_Refresh_Logout_Flow() {

	rrBad := s.postJSON("/api/v1/auth/login", gin.H{"email": s.testUser.Email, "password": "wrongpassword"}, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, rrBad.Code)

	rrGood := s.postJSON("/api/v1/auth/login", gin.H{"email": s.testUser.Email, "password": s.testPass}, nil)
	assert.Equal(s.T(), http.StatusOK, rrGood.Code)

	var tokens map[string]string
	json.Unmarshal(rrGood.Body.Bytes(), &tokens)
	accessToken := tokens["accessToken"]
	refreshToken := tokens["refreshToken"]
	assert.NotEmpty(s.T(), accessToken)
	assert.NotEmpty(s.T(), refreshToken)

	reqAuth := httptest.NewRequest(http.MethodGet, "/api/v1/health-auth", nil)
	reqAuth.Header.Set("Authorization", "Bearer "+accessToken)
	rrAuth := httptest.NewRecorder()
	s.Router.ServeHTTP(rrAuth, reqAuth)
	assert.Equal(s.T(), http.StatusOK, rrAuth.Code)

	reqNoAuth := httptest.NewRequest(http.MethodGet, "/api/v1/health-auth", nil)
	rrNoAuth := httptest.NewRecorder()
	s.Router.ServeHTTP(rrNoAuth, reqNoAuth)
	assert.Equal(s.T(), http.StatusUnauthorized, rrNoAuth.Code)

	// Refresh rotates the pair and revokes the presented refresh token.
	rrRefresh := s.postJSON("/api/v1/auth/refresh", gin.H{"refreshToken": refreshToken}, nil)
	assert.Equal(s.T(), http.StatusOK, rrRefresh.Code)

	var rotated map[string]string
	json.Unmarshal(rrRefresh.Body.Bytes(), &rotated)
	assert.NotEmpty(s.T(), rotated["accessToken"])
	assert.NotEmpty(s.T(), rotated["refreshToken"])

	rrReplay := s.postJSON("/api/v1/auth/refresh", gin.H{"refreshToken": refreshToken}, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, rrReplay.Code)

	// Logout revokes the access token it was called with.
	rrLogout := s.postJSON("/api/v1/auth/logout",
		gin.H{"refreshToken": rotated["refreshToken"]},
		map[string]string{"Authorization": "Bearer " + accessToken})
	assert.Equal(s.T(), http.StatusOK, rrLogout.Code)

	reqRevoked := httptest.NewRequest(http.MethodGet, "/api/v1/health-auth", nil)
	reqRevoked.Header.Set("Authorization", "Bearer "+accessToken)
	rrRevoked := httptest.NewRecorder()
	s.Router.ServeHTTP(rrRevoked, reqRevoked)
	assert.Equal(s.T(), http.StatusUnauthorized, rrRevoked.Code)
}
