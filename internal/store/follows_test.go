package store

import (
	"testing"
	"time"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTwo(t *testing.T, users *UserStore) (*models.User, *models.User) {
	t.Helper()
	alice, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)
	bob, err := users.Register("bob", "bob@example.com", "pw2")
	require.NoError(t, err)
	return alice, bob
}

func TestFollowIsIdempotent(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)
	alice, bob := registerTwo(t, users)

	require.NoError(t, follows.Follow(alice, bob))
	require.NoError(t, follows.Follow(alice, bob))

	var count int64
	gdb.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", alice.ID, bob.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)

	assert.True(t, follows.IsFollowing(alice, bob))
	assert.True(t, follows.IsFollowedBy(bob, alice))
	assert.False(t, follows.IsFollowing(bob, alice))
}

func TestUnfollow(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)
	alice, bob := registerTwo(t, users)

	require.NoError(t, follows.Follow(alice, bob))
	require.NoError(t, follows.Unfollow(alice, bob))
	assert.False(t, follows.IsFollowing(alice, bob))

	// Unfollowing an absent edge is a no-op, not an error.
	require.NoError(t, follows.Unfollow(alice, bob))
}

func TestUnfollowRefusesSelfEdge(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)
	alice, _ := registerTwo(t, users)

	require.NoError(t, follows.Unfollow(alice, alice))

	// The self edge survives; the feed depends on it.
	assert.True(t, follows.IsFollowing(alice, alice))
}

func TestFeedForIncludesOwnAndFollowedPosts(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)
	alice, bob := registerTwo(t, users)
	carol, err := users.Register("carol", "carol@example.com", "pw3")
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	makePost := func(author *models.User, title string, at time.Time) {
		p := models.Post{UserID: author.ID, Title: title, CreatedAt: at}
		p.SetBody(title)
		require.NoError(t, gdb.Create(&p).Error)
	}
	makePost(alice, "alice-1", base)
	makePost(bob, "bob-1", base.Add(time.Hour))
	makePost(carol, "carol-1", base.Add(2*time.Hour))

	require.NoError(t, follows.Follow(alice, bob))

	posts, total, err := follows.FeedFor(alice, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, posts, 2)

	// Newest first; carol is not followed so carol-1 is absent.
	assert.Equal(t, "bob-1", posts[0].Title)
	assert.Equal(t, "alice-1", posts[1].Title)

	// The feed is a live join: unfollowing bob drops his posts at once.
	require.NoError(t, follows.Unfollow(alice, bob))
	posts, total, err = follows.FeedFor(alice, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice-1", posts[0].Title)
}

func TestFeedForPagination(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)
	alice, err := users.Register("alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p := models.Post{UserID: alice.ID, Title: "p", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		p.SetBody("p")
		require.NoError(t, gdb.Create(&p).Error)
	}

	page1, total, err := follows.FeedFor(alice, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := follows.FeedFor(alice, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestFollowersAndFollowingListings(t *testing.T) {
	gdb := testDB(t)
	users := NewUserStore(gdb, testCodec(), "")
	follows := NewFollowStore(gdb)
	alice, bob := registerTwo(t, users)

	require.NoError(t, follows.Follow(alice, bob))

	followers, total, err := follows.Followers(bob, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total) // alice + bob's self edge
	names := []string{followers[0].User.Username, followers[1].User.Username}
	assert.Contains(t, names, "alice")
	assert.Contains(t, names, "bob")

	following, total, err := follows.Following(alice, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total) // bob + alice's self edge
	names = []string{following[0].User.Username, following[1].User.Username}
	assert.Contains(t, names, "alice")
	assert.Contains(t, names, "bob")
}
