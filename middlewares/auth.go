package middlewares

import (
	"strings"

	"restopos/pkg/resp"
	"restopos/utils"

	"github.com/gin-gonic/gin"
)

// Staff roles carried in the token.
const (
	RoleAdmin     = "admin"
	RoleCashier   = "cashier"
	RoleBartender = "bartender"
)

// ใช้ตรวจ token และ (ถ้ามี) บังคับ role
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}
		authorize(c, strings.TrimPrefix(h, "Bearer "), secret, requiredRoles)
	}
}

func authorize(c *gin.Context, tokenStr, secret string, requiredRoles []string) {
	claims, err := utils.ParseToken(tokenStr, secret)
	if err != nil {
		resp.Unauthorized(c, "invalid token")
		c.Abort()
		return
	}

	c.Set("userId", claims.UserID)
	c.Set("role", claims.Role)

	if len(requiredRoles) > 0 {
		allowed := false
		for _, r := range requiredRoles {
			if claims.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			resp.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
	}

	c.Next()
}
