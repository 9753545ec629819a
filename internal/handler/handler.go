package handler

import (
	"Uni_Hub/internal/middleware"
	"Uni_Hub/internal/model"

	"github.com/gin-gonic/gin"
)

// actorFrom 取中间件注入的当前用户，匿名请求得到零值 Actor
func actorFrom(c *gin.Context) model.Actor {
	v, _ := c.Get(middleware.ContextActorKey)
	actor, _ := v.(model.Actor)
	return actor
}
