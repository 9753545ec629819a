package middleware

import (
	"net/http"
	"strings"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"
	"Uni_Hub/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const ContextActorKey = "actor"

// AuthMiddleware 解析 Bearer token，校验 redis 里的单点会话，
// 再查一次用户表拿最新的 staff/superuser 标志，组装 Actor 注入 context
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	userRepo := &mysql.UserRepository{DB: db}
	sessionRepo := &redis.UserRepository{}

	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			return
		}

		originToken, err := sessionRepo.GetUserToken(claims.UserID)
		if err != nil || originToken != bearerToken(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Account has been logging elsewhere"})
			return
		}

		// 校验通过后滑动续期
		if err = sessionRepo.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "user not found"})
			return
		}

		c.Set(ContextActorKey, model.Actor{
			ID:          user.ID,
			IsStaff:     user.IsStaff,
			IsSuperuser: user.IsSuperuser,
		})
		c.Next()
	}
}

// OptionalAuthMiddleware 公开读接口用：带了合法 token 就注入 Actor，没带就匿名
func OptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	userRepo := &mysql.UserRepository{DB: db}

	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := pkg.ParseAccess(token)
		if err != nil {
			c.Next()
			return
		}
		if user, err := userRepo.FindByID(claims.UserID); err == nil {
			c.Set(ContextActorKey, model.Actor{
				ID:          user.ID,
				IsStaff:     user.IsStaff,
				IsSuperuser: user.IsSuperuser,
			})
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func parseBearer(c *gin.Context) (*pkg.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
		return nil, false
	}
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
		return nil, false
	}
	claims, err := pkg.ParseAccess(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
		return nil, false
	}
	return claims, true
}
