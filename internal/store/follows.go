package store

import (
	"time"

	"plume/internal/models"

	"gorm.io/gorm"
)

type FollowStore struct {
	db *gorm.DB
}

func NewFollowStore(gdb *gorm.DB) *FollowStore {
	return &FollowStore{db: gdb}
}

// Follow inserts the edge follower→followed. Idempotent: an existing edge
// is left alone.
func (s *FollowStore) Follow(follower, followed *models.User) error {
	if s.isFollowing(follower.ID, followed.ID) {
		return nil
	}
	return s.db.Create(&models.Follow{
		FollowerID: follower.ID,
		FollowedID: followed.ID,
		CreatedAt:  time.Now(),
	}).Error
}

// Unfollow removes the edge if present; a missing edge is a no-op, not an
// error. The self edge is load-bearing (it keeps own posts in the feed) and
// is refused here rather than in every caller.
func (s *FollowStore) Unfollow(follower, followed *models.User) error {
	if follower.ID == followed.ID {
		return nil
	}
	return s.db.Where("follower_id = ? AND followed_id = ?", follower.ID, followed.ID).
		Delete(&models.Follow{}).Error
}

func (s *FollowStore) isFollowing(followerID, followedID uint) bool {
	var count int64
	s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count)
	return count > 0
}

// IsFollowing reports whether a follows b.
func (s *FollowStore) IsFollowing(a, b *models.User) bool {
	return s.isFollowing(a.ID, b.ID)
}

// IsFollowedBy reports whether b follows a.
func (s *FollowStore) IsFollowedBy(a, b *models.User) bool {
	return s.isFollowing(b.ID, a.ID)
}

// FeedFor returns posts authored by anyone the user follows, newest first.
// The self edge created at registration pulls in the user's own posts. This
// is a live join, not a cache: a follow/unfollow shows up on the next call.
func (s *FollowStore) FeedFor(user *models.User, page, perPage int) ([]models.Post, int64, error) {
	const feedJoin = "JOIN follows ON follows.followed_id = posts.user_id"

	var total int64
	if err := s.db.Model(&models.Post{}).
		Joins(feedJoin).
		Where("follows.follower_id = ?", user.ID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := s.db.Model(&models.Post{}).
		Joins(feedJoin).
		Where("follows.follower_id = ?", user.ID).
		Preload("User").
		Order("posts.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error
	return posts, total, err
}

// FollowEntry is one row of a followers/following listing.
type FollowEntry struct {
	User      models.User
	CreatedAt time.Time
}

// Followers lists who follows user, paginated.
func (s *FollowStore) Followers(user *models.User, page, perPage int) ([]FollowEntry, int64, error) {
	return s.listEdges(user, "followed_id", "follower_id", page, perPage)
}

// Following lists who user follows, paginated.
func (s *FollowStore) Following(user *models.User, page, perPage int) ([]FollowEntry, int64, error) {
	return s.listEdges(user, "follower_id", "followed_id", page, perPage)
}

func (s *FollowStore) listEdges(user *models.User, matchCol, otherCol string, page, perPage int) ([]FollowEntry, int64, error) {
	var total int64
	if err := s.db.Model(&models.Follow{}).
		Where(matchCol+" = ?", user.ID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var edges []models.Follow
	err := s.db.Preload("Follower").Preload("Followed").
		Where(matchCol+" = ?", user.ID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&edges).Error
	if err != nil {
		return nil, 0, err
	}

	entries := make([]FollowEntry, 0, len(edges))
	for _, e := range edges {
		entry := FollowEntry{CreatedAt: e.CreatedAt}
		if otherCol == "follower_id" && e.Follower != nil {
			entry.User = *e.Follower
		} else if e.Followed != nil {
			entry.User = *e.Followed
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}
