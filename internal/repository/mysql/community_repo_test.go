package mysql

import (
	"errors"
	"testing"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAlsoCreatesLeaderMembership(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityRepository{DB: db}
	memberRepo := &CommunityMemberRepository{DB: db}

	c, err := repo.Create(&model.Community{
		Name:      "CS Study Group",
		CreatorID: 7,
		IsPublic:  true,
	})
	require.NoError(t, err)
	require.NotZero(t, c.ID)

	// 创建者当场就是该社区的 leader 活跃成员
	m, err := memberRepo.FindActive(c.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, model.RoleLeader, m.Role)
	assert.True(t, m.IsActive)

	count, err := memberRepo.CountActive(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateDuplicateNameLeavesNoOrphanMembership(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityRepository{DB: db}

	_, err := repo.Create(&model.Community{Name: "Chess Club", CreatorID: 1, IsPublic: true})
	require.NoError(t, err)

	_, err = repo.Create(&model.Community{Name: "Chess Club", CreatorID: 2, IsPublic: true})
	require.Error(t, err)

	// 失败的创建不留下半截成员记录
	var count int64
	db.Model(&model.CommunityMember{}).Where("user_id = ?", 2).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestFindByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityRepository{DB: db}

	_, err := repo.FindByID(999)
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
}

func TestListOnlyPublic(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityRepository{DB: db}

	_, err := repo.Create(&model.Community{Name: "Open Club", CreatorID: 1, IsPublic: true})
	require.NoError(t, err)
	_, err = repo.Create(&model.Community{Name: "Secret Club", CreatorID: 1, IsPublic: false})
	require.NoError(t, err)

	list, err := repo.List("", 0, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Open Club", list[0].Name)
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := &CommunityRepository{DB: db}

	c, err := repo.Create(&model.Community{Name: "Doomed Club", CreatorID: 1, IsPublic: true})
	require.NoError(t, err)

	e := seedEvent(t, db, model.EventPublished, nil)
	require.NoError(t, db.Model(e).Update("community_id", c.ID).Error)
	require.NoError(t, db.Create(&model.EventParticipant{EventID: e.ID, UserID: 5}).Error)

	require.NoError(t, repo.Delete(c.ID))

	var counts [3]int64
	db.Model(&model.CommunityMember{}).Where("community_id = ?", c.ID).Count(&counts[0])
	db.Model(&model.Event{}).Where("community_id = ?", c.ID).Count(&counts[1])
	db.Model(&model.EventParticipant{}).Where("event_id = ?", e.ID).Count(&counts[2])
	assert.Equal(t, [3]int64{0, 0, 0}, counts)
}
