// middlewares/ws_auth.go
package middlewares

import (
	"strings"

	"restopos/pkg/resp"

	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware ใช้ตรวจสอบ JWT จากทั้ง query และ header
// (browser เปิด WebSocket / EventSource แล้วใส่ header เองไม่ได้)
func WSAuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) ลองอ่านจาก query ก่อน
		if t := c.Query("token"); t != "" {
			tokenStr = t
		} else if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			// 2) ถ้าไม่มี ลองอ่านจาก Header
			tokenStr = strings.TrimPrefix(h, "Bearer ")
		}

		if tokenStr == "" {
			resp.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		authorize(c, tokenStr, secret, requiredRoles)
	}
}
