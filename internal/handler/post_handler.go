package handler

import (
	"net/http"
	"strconv"

	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc     *service.PostService
	likeSvc *service.PostLikeService
}

func NewPostHandler(svc *service.PostService, likeSvc *service.PostLikeService) *PostHandler {
	return &PostHandler{svc: svc, likeSvc: likeSvc}
}

type PostCreateReq struct {
	CommunityID uint64 `json:"community_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req PostCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.Create(actorFrom(c), req.CommunityID, req.Content)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Post created", "data": post})
}

// ListByCommunity 带 last_id/last_created_at 用游标翻页，否则按页码
func (h *PostHandler) ListByCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	if lastIDStr := c.Query("last_id"); lastIDStr != "" {
		lastID, _ := strconv.ParseUint(lastIDStr, 10, 64)
		lastCreatedAt, _ := strconv.ParseInt(c.Query("last_created_at"), 10, 64)

		posts, nextID, nextCreatedAt, err := h.svc.ListByCommunityCursor(communityID, lastID, lastCreatedAt, size)
		if err != nil {
			c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"posts":           posts,
			"last_id":         nextID,
			"last_created_at": nextCreatedAt,
		}})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	posts, err := h.svc.ListByCommunity(communityID, page, size)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"posts": posts}})
}

func (h *PostHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	posts, err := h.svc.ListMine(actorFrom(c), page, size)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	post, err := h.svc.Get(id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	if err := h.svc.Delete(actorFrom(c), id); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}
	_ = h.likeSvc.Invalidate(c.Request.Context(), id)

	c.JSON(http.StatusOK, gin.H{"msg": "Post deleted"})
}

func (h *PostHandler) Like(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	created, err := h.likeSvc.Like(c.Request.Context(), actorFrom(c).ID, id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"msg": "Liked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Already liked"})
}

func (h *PostHandler) Unlike(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	removed, err := h.likeSvc.Unlike(c.Request.Context(), actorFrom(c).ID, id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	if removed {
		c.JSON(http.StatusOK, gin.H{"msg": "Unliked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Not liked"})
}

func (h *PostHandler) LikeCount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	count, err := h.likeSvc.GetCount(c.Request.Context(), actorFrom(c).ID, id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	liked, _ := h.likeSvc.IsLiked(c.Request.Context(), actorFrom(c).ID, id)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count, "liked": liked}})
}
