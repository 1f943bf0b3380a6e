package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Auth(nil, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})
	return r
}

// injectClaims stands in for Auth in tests of the gate middlewares.
func injectClaims(claims *helpers.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	r := authRouter(helpers.NewJWTManager("mw-secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token provided")
}

func TestAuthMalformedHeader(t *testing.T) {
	r := authRouter(helpers.NewJWTManager("mw-secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthInvalidToken(t *testing.T) {
	r := authRouter(helpers.NewJWTManager("mw-secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthValidTokenSetsUserID(t *testing.T) {
	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	r := authRouter(jwt)

	uid := primitive.NewObjectID()
	token, _, err := jwt.Generate(&entity.User{ID: uid, Username: "shopper"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uid.Hex(), w.Body.String())
}

func revocationRouter(t *testing.T, jwt *helpers.JWTManager) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.GET("/protected", Auth(rdb, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})
	return r, mr
}

func TestAuthRejectsTokenIssuedBeforeRevocationMark(t *testing.T) {
	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	r, mr := revocationRouter(t, jwt)

	uid := primitive.NewObjectID()
	token, _, err := jwt.Generate(&entity.User{ID: uid, Username: "shopper"})
	require.NoError(t, err)

	// Mark written after issuance, as account delete/demote does
	mark := time.Now().Add(time.Minute).UTC().Format(helpers.RevocationFormat)
	require.NoError(t, mr.Set(helpers.KeyRevokedTokens(uid.Hex()), mark))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has been revoked")
}

func TestAuthAcceptsTokenIssuedAfterRevocationMark(t *testing.T) {
	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	r, mr := revocationRouter(t, jwt)

	uid := primitive.NewObjectID()
	mark := time.Now().Add(-time.Hour).UTC().Format(helpers.RevocationFormat)
	require.NoError(t, mr.Set(helpers.KeyRevokedTokens(uid.Hex()), mark))

	token, _, err := jwt.Generate(&entity.User{ID: uid, Username: "shopper"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uid.Hex(), w.Body.String())
}

func TestAuthIgnoresMalformedRevocationMark(t *testing.T) {
	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	r, mr := revocationRouter(t, jwt)

	uid := primitive.NewObjectID()
	require.NoError(t, mr.Set(helpers.KeyRevokedTokens(uid.Hex()), "not-a-timestamp"))

	token, _, err := jwt.Generate(&entity.User{ID: uid, Username: "shopper"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	// An unparseable mark fails open rather than locking the account out
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnly(t *testing.T) {
	cases := []struct {
		name   string
		claims *helpers.Claims
		want   int
	}{
		{"admin passes", &helpers.Claims{UserID: "u1", Admin: true}, http.StatusOK},
		{"non-admin forbidden", &helpers.Claims{UserID: "u1"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", injectClaims(tc.claims), AdminOnly(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAdminOnlyWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSelfOrAdmin(t *testing.T) {
	cases := []struct {
		name   string
		claims *helpers.Claims
		path   string
		want   int
	}{
		{"owner passes", &helpers.Claims{UserID: "u1"}, "/users/u1", http.StatusOK},
		{"admin passes for other id", &helpers.Claims{UserID: "u2", Admin: true}, "/users/u1", http.StatusOK},
		{"other user forbidden", &helpers.Claims{UserID: "u2"}, "/users/u1", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/users/:id", injectClaims(tc.claims), SelfOrAdmin(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
