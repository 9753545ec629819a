package service

import (
	"testing"
	"time"

	"Uni_Hub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func addMember(t *testing.T, db *gorm.DB, communityID, userID uint64, role string, active bool) {
	t.Helper()
	require.NoError(t, db.Create(&model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		IsActive:    active,
		JoinedAt:    time.Now(),
	}).Error)
}

func TestCanManage(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicyService(db)

	addMember(t, db, 1, 10, model.RoleAdmin, true)
	addMember(t, db, 1, 11, model.RoleLeader, true)
	addMember(t, db, 1, 12, model.RoleMember, true)
	addMember(t, db, 1, 13, model.RoleAdmin, false) // 已退出的管理员

	cases := []struct {
		name  string
		actor model.Actor
		want  bool
	}{
		{"superuser", model.Actor{ID: 99, IsSuperuser: true}, true},
		{"staff", model.Actor{ID: 98, IsStaff: true}, true},
		{"community admin", model.Actor{ID: 10}, true},
		{"community leader", model.Actor{ID: 11}, true},
		{"plain member", model.Actor{ID: 12}, false},
		{"inactive admin", model.Actor{ID: 13}, false},
		{"stranger", model.Actor{ID: 50}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := policy.CanManage(tc.actor, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestCanManageScopedToCommunity(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicyService(db)

	// 社区 1 的 admin 管不了社区 2
	addMember(t, db, 1, 10, model.RoleAdmin, true)

	ok, err := policy.CanManage(model.Actor{ID: 10}, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanCreateCommunityIsGlobal(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicyService(db)

	addMember(t, db, 1, 10, model.RoleAdmin, true)
	addMember(t, db, 2, 11, model.RoleLeader, true)
	addMember(t, db, 3, 12, model.RoleMember, true)

	// 任意社区的 admin / leader 都够格，普通成员不够
	for _, tc := range []struct {
		actor model.Actor
		want  bool
	}{
		{model.Actor{ID: 10}, true},
		{model.Actor{ID: 11}, true},
		{model.Actor{ID: 12}, false},
		{model.Actor{ID: 99, IsSuperuser: true}, true},
	} {
		ok, err := policy.CanCreateCommunity(tc.actor)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "actor %d", tc.actor.ID)
	}
}

func TestCanManageEventFallsBackToCommunity(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicyService(db)

	addMember(t, db, 1, 10, model.RoleAdmin, true)
	event := &model.Event{CommunityID: 1, CreatorID: 20}

	// 创建者直通
	ok, err := policy.CanManageEvent(model.Actor{ID: 20}, event)
	require.NoError(t, err)
	assert.True(t, ok)

	// 社区管理员兜底
	ok, err = policy.CanManageEvent(model.Actor{ID: 10}, event)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = policy.CanManageEvent(model.Actor{ID: 50}, event)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanTransitionEvent(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicyService(db)

	// 社区管理员也不能替创建者改状态
	addMember(t, db, 1, 10, model.RoleAdmin, true)
	event := &model.Event{CommunityID: 1, CreatorID: 20}

	assert.True(t, policy.CanTransitionEvent(model.Actor{ID: 20}, event))
	assert.True(t, policy.CanTransitionEvent(model.Actor{ID: 99, IsStaff: true}, event))
	assert.False(t, policy.CanTransitionEvent(model.Actor{ID: 10}, event))
}
