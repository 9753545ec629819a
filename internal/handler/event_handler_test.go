package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Uni_Hub/internal/middleware"
	"Uni_Hub/internal/model"
	"Uni_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Event{},
		&model.EventParticipant{},
		&model.Notification{},
		&model.NotificationOutbox{},
	))
	return db
}

// fakeAuth 测试里跳过 token 体系，直接按 header 注入 Actor
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			var uid uint64
			fmt.Sscanf(id, "%d", &uid)
			c.Set(middleware.ContextActorKey, model.Actor{ID: uid})
		}
		c.Next()
	}
}

func newEventTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewEventHandler(service.NewEventService(db))
	g := r.Group("/api/v1/events")
	g.Use(fakeAuth())
	{
		g.POST("/:id/join", h.Join)
		g.POST("/:id/leave", h.Leave)
		g.POST("/:id/status", h.ChangeStatus)
	}
	return r
}

func doJSON(r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEventJoinLeaveStatusCodes(t *testing.T) {
	db := newHandlerTestDB(t)
	r := newEventTestRouter(t, db)

	max := uint(1)
	e := &model.Event{
		Title:           "career fair",
		CommunityID:     1,
		CreatorID:       1,
		StartTime:       time.Now().Add(time.Hour),
		EndTime:         time.Now().Add(2 * time.Hour),
		Status:          model.EventPublished,
		MaxParticipants: &max,
	}
	require.NoError(t, db.Create(e).Error)
	path := fmt.Sprintf("/api/v1/events/%d", e.ID)

	// 报名成功 201
	w := doJSON(r, http.MethodPost, path+"/join", "10", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// 重复报名 400
	w = doJSON(r, http.MethodPost, path+"/join", "10", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 满员 400
	w = doJSON(r, http.MethodPost, path+"/join", "11", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 退出 200，之后再退 400（报名关系不存在，不是资源不存在）
	w = doJSON(r, http.MethodPost, path+"/leave", "10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, path+"/leave", "10", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 压根没报过名的退出同样 400
	w = doJSON(r, http.MethodPost, path+"/leave", "12", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 404 留给活动本身不存在
	w = doJSON(r, http.MethodPost, "/api/v1/events/999/join", "10", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPost, "/api/v1/events/999/leave", "10", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventStatusEndpoint(t *testing.T) {
	db := newHandlerTestDB(t)
	r := newEventTestRouter(t, db)

	e := &model.Event{
		Title:       "career fair",
		CommunityID: 1,
		CreatorID:   1,
		StartTime:   time.Now().Add(time.Hour),
		EndTime:     time.Now().Add(2 * time.Hour),
		Status:      model.EventDraft,
	}
	require.NoError(t, db.Create(e).Error)
	path := fmt.Sprintf("/api/v1/events/%d/status", e.ID)

	// 非创建者 403
	w := doJSON(r, http.MethodPost, path, "2", `{"status":"published"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 创建者推进 200
	w = doJSON(r, http.MethodPost, path, "1", `{"status":"published"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// 未知状态 400
	w = doJSON(r, http.MethodPost, path, "1", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 取消后任何流转都 400
	w = doJSON(r, http.MethodPost, path, "1", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, path, "1", `{"status":"ongoing"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
