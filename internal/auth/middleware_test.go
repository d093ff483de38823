package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func token(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", Middleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	router.GET("/admin", Middleware(testSecret), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func get(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	router := setupRouter()

	valid := token(t, testSecret, jwt.MapClaims{"user_id": "u1", "role": RoleCustomer})

	if w := get(router, "/whoami", valid); w.Code != http.StatusOK {
		t.Fatalf("valid token: status %d", w.Code)
	}
	if w := get(router, "/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d", w.Code)
	}
	if w := get(router, "/whoami", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("malformed token: status %d", w.Code)
	}

	wrongKey := token(t, "other-secret", jwt.MapClaims{"user_id": "u1", "role": RoleCustomer})
	if w := get(router, "/whoami", wrongKey); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status %d", w.Code)
	}

	noRole := token(t, testSecret, jwt.MapClaims{"user_id": "u1"})
	if w := get(router, "/whoami", noRole); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing role claim: status %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	router := setupRouter()

	admin := token(t, testSecret, jwt.MapClaims{"user_id": "a1", "role": RoleAdmin})
	customer := token(t, testSecret, jwt.MapClaims{"user_id": "u1", "role": RoleCustomer})

	if w := get(router, "/admin", admin); w.Code != http.StatusOK {
		t.Fatalf("admin: status %d", w.Code)
	}
	if w := get(router, "/admin", customer); w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: status %d", w.Code)
	}
}
