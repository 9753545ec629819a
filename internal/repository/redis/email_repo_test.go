package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = Client.Close() })
	return mr
}

func TestEmailCodeRoundTrip(t *testing.T) {
	setupRedis(t)
	repo := &EmailRepository{}

	require.NoError(t, repo.SetCode("register", "a@campus.edu", "123456"))

	code, err := repo.GetCode("register", "a@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	// scope 区分，reset 查不到 register 的码
	_, err = repo.GetCode("reset", "a@campus.edu")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)
}

func TestEmailCodeExpires(t *testing.T) {
	mr := setupRedis(t)
	repo := &EmailRepository{}

	require.NoError(t, repo.SetCode("register", "a@campus.edu", "123456"))

	mr.FastForward(DefaultEmailCodeTTL + time.Second)

	_, err := repo.GetCode("register", "a@campus.edu")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)
}

func TestEmailCodeDeleteIsIdempotent(t *testing.T) {
	setupRedis(t)
	repo := &EmailRepository{}

	require.NoError(t, repo.SetCode("register", "a@campus.edu", "123456"))
	require.NoError(t, repo.DeleteCode("register", "a@campus.edu"))
	require.NoError(t, repo.DeleteCode("register", "a@campus.edu"))

	_, err := repo.GetCode("register", "a@campus.edu")
	assert.ErrorIs(t, err, ErrEmailCodeNotFound)
}
