package store

import (
	"testing"
	"time"

	"plume/internal/models"
	"plume/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserWithSelfFollow(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)

	user, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Confirmed)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.Equal(t, models.RoleNameUser, user.Role.Name)

	// The self edge exists immediately after registration.
	assert.True(t, follows.IsFollowing(user, user))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")

	_, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	_, err = users.Register("alice2", "alice@example.com", "pw2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// The failed attempt must not leave partial rows behind.
	var userCount, followCount int64
	gdb.Model(&models.User{}).Count(&userCount)
	gdb.Model(&models.Follow{}).Count(&followCount)
	assert.EqualValues(t, 1, userCount)
	assert.EqualValues(t, 1, followCount)
}

func TestRegisterAdminEmailGetsAdministratorRole(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "boss@example.com")

	admin, err := users.Register("boss", "boss@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int(models.PermAdminister), admin.Role.Permissions)
	assert.True(t, admin.IsAdministrator())

	regular, err := users.Register("carol", "carol@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleNameUser, regular.Role.Name)
	assert.False(t, regular.IsAdministrator())
}

func TestAuthenticate(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")

	_, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	user, ok := users.Authenticate("alice@example.com", "pw1")
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, user.Role)

	_, ok = users.Authenticate("alice@example.com", "wrong")
	assert.False(t, ok)

	_, ok = users.Authenticate("nobody@example.com", "pw1")
	assert.False(t, ok)
}

func TestConfirmFlow(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")

	user, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	tok, err := users.IssueConfirmation(user)
	require.NoError(t, err)

	assert.True(t, users.Confirm(user, tok))
	assert.True(t, user.Confirmed)

	reloaded, err := users.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Confirmed)

	// Idempotent: confirming again succeeds without error.
	assert.True(t, users.Confirm(reloaded, tok))
	assert.True(t, reloaded.Confirmed)
}

func TestConfirmRejectsWrongUserToken(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")

	alice, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)
	bob, err := users.Register("bob", "bob@example.com", "pw2")
	require.NoError(t, err)

	tok, err := users.IssueConfirmation(alice)
	require.NoError(t, err)

	// Bob cannot confirm with Alice's token, and his state is untouched.
	assert.False(t, users.Confirm(bob, tok))
	reloaded, err := users.GetByID(bob.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Confirmed)
}

func TestConfirmRejectsExpiredAndAPIToken(t *testing.T) {
	gdb := testDB(t)
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := testCodec().WithClock(func() time.Time { return issuedAt })
	users := NewUserStore(gdb, codec, "")

	user, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	tok, err := users.IssueConfirmation(user)
	require.NoError(t, err)

	expired := NewUserStore(gdb, testCodec().WithClock(func() time.Time {
		return issuedAt.Add(token.DefaultTTL + time.Second)
	}), "")
	assert.False(t, expired.Confirm(user, tok))

	// An API bearer token is not a confirmation token.
	apiTok, err := users.IssueAPIToken(user, time.Hour)
	require.NoError(t, err)
	assert.False(t, users.Confirm(user, apiTok))
}

func TestResolveAPIToken(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")

	user, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	tok, err := users.IssueAPIToken(user, time.Hour)
	require.NoError(t, err)

	resolved, ok := users.ResolveAPIToken(tok)
	require.True(t, ok)
	assert.Equal(t, user.ID, resolved.ID)
	require.NotNil(t, resolved.Role)

	_, ok = users.ResolveAPIToken("garbage")
	assert.False(t, ok)
}

func TestTouchLastSeen(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")

	user, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	past := time.Now().Add(-24 * time.Hour)
	require.NoError(t, gdb.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("last_seen", past).Error)

	users.TouchLastSeen(user)

	reloaded, err := users.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.LastSeen.After(past.Add(time.Hour)))
}

func TestDeleteCascades(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)

	alice, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)
	bob, err := users.Register("bob", "bob@example.com", "pw2")
	require.NoError(t, err)
	require.NoError(t, follows.Follow(bob, alice))

	post := models.Post{UserID: alice.ID, Title: "t"}
	post.SetBody("body")
	require.NoError(t, gdb.Create(&post).Error)
	comment := models.Comment{PostID: post.ID, UserID: alice.ID}
	comment.SetBody("hi")
	require.NoError(t, gdb.Create(&comment).Error)

	require.NoError(t, users.Delete(alice))

	var postCount, commentCount, edgeCount int64
	gdb.Model(&models.Post{}).Where("user_id = ?", alice.ID).Count(&postCount)
	gdb.Model(&models.Comment{}).Where("user_id = ?", alice.ID).Count(&commentCount)
	gdb.Model(&models.Follow{}).
		Where("follower_id = ? OR followed_id = ?", alice.ID, alice.ID).
		Count(&edgeCount)
	assert.Zero(t, postCount)
	assert.Zero(t, commentCount)
	assert.Zero(t, edgeCount)
}
