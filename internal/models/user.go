package models

import (
	"time"
)

// Permission is a single capability bit. Roles carry the OR of their bits.
type Permission int

const (
	PermFollow           Permission = 0x01 // follow other users
	PermComment          Permission = 0x02 // comment on posts
	PermWritePosts       Permission = 0x04 // author posts
	PermModerateComments Permission = 0x08 // disable/enable comments
	PermAdminister       Permission = 0xff // everything
)

// Role names seeded at startup.
const (
	RoleNameUser          = "User"
	RoleNameModerator     = "Moderator"
	RoleNameAdministrator = "Administrator"
)

type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	IsDefault   bool   `gorm:"default:false;index" json:"is_default"` // exactly one role has this set
	Permissions int    `gorm:"not null" json:"permissions"`
}

// Has reports whether the role carries every bit of p.
func (r *Role) Has(p Permission) bool {
	return r != nil && (Permission(r.Permissions)&p) == p
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	Role         *Role     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"role,omitempty"`
	Confirmed    bool      `gorm:"default:false" json:"confirmed"`
	Name         string    `gorm:"size:64" json:"name"`
	Location     string    `gorm:"size:64" json:"location"`
	AboutMe      string    `gorm:"type:text" json:"about_me"`
	MemberSince  time.Time `gorm:"autoCreateTime" json:"member_since"`
	LastSeen     time.Time `gorm:"autoCreateTime" json:"last_seen"`
	// No DeletedAt: user removal is a hard delete that cascades to posts,
	// comments and follow edges via FK constraints.
}

// Follow is an edge in the social graph. Every user gets a self edge at
// registration so the followed-posts feed includes their own posts.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"followed_id"`
	Follower   *User     `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"follower,omitempty"`
	Followed   *User     `gorm:"foreignKey:FollowedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"followed,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is what request handling code checks permissions against. It is
// either a real *User or Anonymous; callers never need a nil check.
type Identity interface {
	Can(p Permission) bool
	IsAdministrator() bool
	IsAnonymous() bool
}

// Can requires the user's Role to be loaded; the session middleware and the
// API gateway always preload it.
func (u *User) Can(p Permission) bool {
	return u != nil && u.Role.Has(p)
}

func (u *User) IsAdministrator() bool {
	return u.Can(PermAdminister)
}

func (u *User) IsAnonymous() bool { return false }

// Anonymous is the identity of an unauthenticated request. It can do
// nothing, including the zero mask: Can(0) is still false, so handlers must
// not treat "no permissions requested" as allowed.
type Anonymous struct{}

func (Anonymous) Can(Permission) bool   { return false }
func (Anonymous) IsAdministrator() bool { return false }
func (Anonymous) IsAnonymous() bool     { return true }
