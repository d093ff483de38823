package auth

import "github.com/gin-gonic/gin"

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

func GetUserID(c *gin.Context) string {
	if val, ok := c.Get(ctxUserID); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

func GetRole(c *gin.Context) string {
	if val, ok := c.Get(ctxRole); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// SetIdentity is used by the JWT middleware and by tests that need to fake a
// caller.
func SetIdentity(c *gin.Context, userID, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}
