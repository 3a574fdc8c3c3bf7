package gate

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Stormhold/internal/shared/security"
)

const playerIDKey = "player_id"

// AuthRequired 校验 Bearer Token 并把玩家 ID 注入请求上下文。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Fail("UNAUTHORIZED", "缺少认证信息"))
			return
		}
		claims, err := security.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Fail("UNAUTHORIZED", "认证失败"))
			return
		}
		c.Set(playerIDKey, claims.PlayerID)
		c.Next()
	}
}

func playerID(c *gin.Context) int64 {
	v, _ := c.Get(playerIDKey)
	id, _ := v.(int64)
	return id
}
