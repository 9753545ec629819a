package handler

import (
	"net/http"
	"strconv"
	"time"

	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"
	"Uni_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type EventCreateReq struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	CommunityID     uint64    `json:"community_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
	Location        string    `json:"location"`
	MaxParticipants *uint     `json:"max_participants"`
}

type EventUpdateReq struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Location        *string    `json:"location"`
	MaxParticipants *uint      `json:"max_participants"`
}

type EventStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req EventCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	event, err := h.svc.Create(actorFrom(c), service.EventCreateInput{
		Title:           req.Title,
		Description:     req.Description,
		CommunityID:     req.CommunityID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Event created", "data": event})
}

func (h *EventHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	filter := mysql.EventFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if v := c.Query("community_id"); v != "" {
		filter.CommunityID, _ = strconv.ParseUint(v, 10, 64)
	}

	actor := actorFrom(c)
	if c.Query("my_events") == "true" {
		filter.CreatorID = actor.ID
	}
	if c.Query("my_participations") == "true" {
		filter.ParticipantID = actor.ID
	}

	events, err := h.svc.List(filter, page, size)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}

	detail, err := h.svc.Get(actorFrom(c), id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"event":          detail.Event,
		"is_participant": detail.IsParticipant,
	}})
}

func (h *EventHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}

	var req EventUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.MaxParticipants != nil {
		fields["max_participants"] = *req.MaxParticipants
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "nothing to update"})
		return
	}

	if err := h.svc.Update(actorFrom(c), id, fields); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Event updated"})
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}

	if err := h.svc.Delete(actorFrom(c), id); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Event deleted"})
}

func (h *EventHandler) ChangeStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}

	var req EventStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ChangeStatus(actorFrom(c), id, req.Status); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Status updated"})
}

func (h *EventHandler) Join(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}

	if err := h.svc.Register(c.Request.Context(), actorFrom(c), id); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Registered for event"})
}

func (h *EventHandler) Leave(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}

	if err := h.svc.Withdraw(c.Request.Context(), actorFrom(c), id); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Registration cancelled"})
}

func (h *EventHandler) MarkAttended(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	if err := h.svc.MarkAttended(actorFrom(c), id, userID); err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Attendance recorded"})
}

func (h *EventHandler) Participants(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid event id"})
		return
	}

	participants, err := h.svc.Participants(id)
	if err != nil {
		c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": participants})
}
