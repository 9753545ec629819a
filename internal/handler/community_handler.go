package handler

import (
	"net/http"
	"strconv"

	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

type CommunityCreateReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	IsPublic    *bool  `json:"is_public"`
}

type CommunityUpdateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	IsPublic    *bool   `json:"is_public"`
}

type AddMemberReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

type ChangeRoleReq struct {
	Role string `json:"role" binding:"required"`
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	community, err := h.svc.Create(actorFrom(c), req.Name, req.Description, req.Tags, isPublic)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Community created", "data": community})
}

func (h *CommunityHandler) List(c *gin.Context) {
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	communities, err := h.svc.List(search, page, size)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": communities})
}

func (h *CommunityHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	detail, err := h.svc.Get(actorFrom(c), id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"community":         detail.Community,
		"member_count":      detail.MemberCount,
		"current_user_role": detail.ActorRole,
	}})
}

func (h *CommunityHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	var req CommunityUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "nothing to update"})
		return
	}

	if err := h.svc.Update(actorFrom(c), id, fields); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Community updated"})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	if err := h.svc.Delete(actorFrom(c), id); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Community deleted"})
}

// Join 首次加入返回 201，复活旧成员返回 200
func (h *CommunityHandler) Join(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	rejoined, err := h.svc.Join(actorFrom(c), id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	if rejoined {
		c.JSON(http.StatusOK, gin.H{"msg": "Welcome back"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Joined community"})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	if err := h.svc.Leave(actorFrom(c), id); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Left community"})
}

func (h *CommunityHandler) Members(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	members, err := h.svc.Members(actorFrom(c), id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (h *CommunityHandler) AddMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	var req AddMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	member, err := h.svc.AddMember(actorFrom(c), id, req.UserID, req.Role)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Member added", "data": member})
}

func (h *CommunityHandler) ChangeRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}
	memberID, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid member id"})
		return
	}

	var req ChangeRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ChangeRole(actorFrom(c), id, memberID, req.Role); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Role updated"})
}

func (h *CommunityHandler) RemoveMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}
	memberID, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid member id"})
		return
	}

	if err := h.svc.RemoveMember(actorFrom(c), id, memberID); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Member removed"})
}
