package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/waterworks/water-service/internal/domain"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("pw1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)

	assert.NoError(t, ComparePassword(hash, "pw1"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
	assert.Error(t, ComparePassword("not-a-hash", "pw1"))
}

func TestHashPasswordAcceptsLongPasswords(t *testing.T) {
	long := strings.Repeat("p", 100)
	hash, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, long))
	// Passwords sharing the first 72 bytes must still differ.
	assert.ErrorIs(t, ComparePassword(hash, strings.Repeat("p", 72)+"q"), ErrPasswordMismatch)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, exp, err := tm.GenerateToken("root", domain.SubjectTypeAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "root", claims.Subject)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Role)
}

func TestTokenRejectsExpiredAndForeign(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.GenerateToken("root", domain.SubjectTypeAdmin)
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err)

	other := NewTokenManager("other-secret", 1)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func newProtectedApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message})
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/admin/ping", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(principal.Username)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	app := newProtectedApp(tm)

	adminToken, _, err := tm.GenerateToken("root", domain.SubjectTypeAdmin)
	require.NoError(t, err)
	otherToken, _, err := tm.GenerateToken("someone", domain.SubjectType("VISITOR"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"wrong role", "Bearer " + otherToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
