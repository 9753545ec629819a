package mysql

import (
	"errors"
	"testing"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinIsRejectedWhenAlreadyActive(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	rejoined, err := repo.Join(1, 10)
	require.NoError(t, err)
	assert.False(t, rejoined)

	// 重复加入既不新增行、也不改角色
	_, err = repo.Join(1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrConflict))

	var count int64
	db.Model(&model.CommunityMember{}).Where("community_id = ? AND user_id = ?", 1, 10).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRejoinReactivatesExistingRow(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	_, err := repo.Join(1, 10)
	require.NoError(t, err)

	// 管理员提过角色之后退出
	require.NoError(t, db.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", 1, 10).
		Update("role", model.RoleAdmin).Error)
	require.NoError(t, repo.Leave(1, 10))

	active, err := repo.IsActiveMember(1, 10)
	require.NoError(t, err)
	assert.False(t, active)

	rejoined, err := repo.Join(1, 10)
	require.NoError(t, err)
	assert.True(t, rejoined)

	// 还是同一行，角色回落到 member
	var rows []model.CommunityMember
	require.NoError(t, db.Where("community_id = ? AND user_id = ?", 1, 10).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsActive)
	assert.Equal(t, model.RoleMember, rows[0].Role)
}

// 没有活跃成员关系的退出是状态错误，不是 404
func TestLeaveWithoutMembership(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	err := repo.Leave(1, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrInvalidState))
}

func TestLeaveTwice(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	_, err := repo.Join(1, 10)
	require.NoError(t, err)
	require.NoError(t, repo.Leave(1, 10))

	err = repo.Leave(1, 10)
	assert.True(t, errors.Is(err, pkg.ErrInvalidState))
}

func TestChangeRoleIgnoresInactiveMember(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	_, err := repo.Join(1, 10)
	require.NoError(t, err)

	var m model.CommunityMember
	require.NoError(t, db.Where("community_id = ? AND user_id = ?", 1, 10).First(&m).Error)

	require.NoError(t, repo.Leave(1, 10))

	err = repo.ChangeRole(1, m.ID, model.RoleAdmin)
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
}

func TestHasActiveRoleScopedToCommunity(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	m, err := repo.AddWithRole(1, 10, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, m.Role)

	ok, err := repo.HasActiveRole(1, 10, model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	// 别的社区不沾光
	ok, err = repo.HasActiveRole(2, 10, model.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	// 但全局查询能看到
	ok, err = repo.HasRoleAnywhere(10, model.RoleAdmin, model.RoleLeader)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemoveByIDSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	_, err := repo.Join(1, 10)
	require.NoError(t, err)

	var m model.CommunityMember
	require.NoError(t, db.Where("community_id = ? AND user_id = ?", 1, 10).First(&m).Error)

	require.NoError(t, repo.RemoveByID(1, m.ID))

	// 行还在，只是非活跃
	var rows []model.CommunityMember
	require.NoError(t, db.Where("community_id = ?", 1).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsActive)
}

func TestJoinWritesOutboxEvent(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityMemberRepository{DB: db}

	_, err := repo.Join(1, 10)
	require.NoError(t, err)

	var ob model.NotificationOutbox
	require.NoError(t, db.Where("event_type = ?", "member_joined").First(&ob).Error)
	assert.Equal(t, uint64(10), ob.RecipientID)
	assert.Equal(t, int8(0), ob.Status)
}
