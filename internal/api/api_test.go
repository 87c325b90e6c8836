package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platefinder/platefinder-backend/internal/models"
	"github.com/platefinder/platefinder-backend/internal/service"
	"github.com/platefinder/platefinder-backend/internal/types"
)

const testJWTSecret = "test-secret-key-for-api-handler-tests"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	svcs   Services
}

func setupTestAPI(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Recipe{},
		&models.SavedRecipe{},
	))

	svcs := Services{
		Auth:    service.NewAuthService(db, testJWTSecret),
		Users:   service.NewUserService(db),
		Recipes: service.NewRecipeService(db),
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	SetupAPI(router, db, svcs, nil)

	return &testEnv{router: router, db: db, svcs: svcs}
}

// signUpAndSignIn creates an account and returns its access token.
func (e *testEnv) signUpAndSignIn(t *testing.T, email string) string {
	t.Helper()
	_, err := e.svcs.Auth.SignUp(context.Background(), &types.SignUpRequest{
		Email:       email,
		Password:    "password123",
		DisplayName: "Test User",
	})
	require.NoError(t, err)

	_, session, err := e.svcs.Auth.SignIn(context.Background(), email, "password123")
	require.NoError(t, err)
	return session.Token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
