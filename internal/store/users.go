// Package store holds the account-lifecycle and social-graph operations
// whose multi-step writes need explicit transaction scopes.
package store

import (
	"errors"
	"log"
	"time"

	"plume/internal/models"
	"plume/internal/token"
	"plume/internal/utils"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is the only way a registration conflict leaves this
	// package; raw constraint errors never do.
	ErrDuplicateEmail = errors.New("email already registered")

	ErrRoleMissing = errors.New("roles not seeded")
)

type UserStore struct {
	db         *gorm.DB
	codec      *token.Codec
	adminEmail string
}

func NewUserStore(gdb *gorm.DB, codec *token.Codec, adminEmail string) *UserStore {
	return &UserStore{db: gdb, codec: codec, adminEmail: adminEmail}
}

// Register creates an unconfirmed user and its self-follow edge in one
// transaction. A user without a self edge is an invariant violation, so a
// failure of either write rolls back both.
func (s *UserStore) Register(username, email, rawPassword string) (*models.User, error) {
	hash, err := utils.HashPassword(rawPassword)
	if err != nil {
		return nil, err
	}

	role, err := s.roleFor(email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		MemberSince:  now,
		LastSeen:     now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Create(&user).Error; err != nil {
			// The pre-check can lose a race; the unique index cannot.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return err
		}
		return tx.Create(&models.Follow{
			FollowerID: user.ID,
			FollowedID: user.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	user.Role = role
	return &user, nil
}

// roleFor picks the Administrator role for the configured admin address,
// the default role for everyone else.
func (s *UserStore) roleFor(email string) (*models.Role, error) {
	var role models.Role
	q := s.db.Where("is_default = ?", true)
	if s.adminEmail != "" && email == s.adminEmail {
		q = s.db.Where("permissions = ?", int(models.PermAdminister))
	}
	if err := q.First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleMissing
		}
		return nil, err
	}
	return &role, nil
}

// Authenticate resolves email+password to a user. The bool is false for an
// unknown email and for a wrong password alike.
func (s *UserStore) Authenticate(email, rawPassword string) (*models.User, bool) {
	var user models.User
	if err := s.db.Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, false
	}
	if !utils.CheckPasswordHash(rawPassword, user.PasswordHash) {
		return nil, false
	}
	return &user, true
}

// GetByID loads a user with its role.
func (s *UserStore) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername loads a user with its role.
func (s *UserStore) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IssueConfirmation signs an email-confirmation token for u.
func (s *UserStore) IssueConfirmation(u *models.User) (string, error) {
	return s.codec.Issue(u.ID, token.PurposeConfirm, token.DefaultTTL)
}

// Confirm verifies tok and flips the confirmed flag. Re-confirming an
// already confirmed user is a no-op success. Any verification failure
// returns false without touching state.
func (s *UserStore) Confirm(u *models.User, tok string) bool {
	uid, ok := s.codec.Verify(tok, token.PurposeConfirm)
	if !ok || uid != u.ID {
		return false
	}
	if u.Confirmed {
		return true
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Where("id = ?", u.ID).
			Update("confirmed", true).Error
	})
	if err != nil {
		return false
	}
	u.Confirmed = true
	return true
}

// IssueAPIToken signs a bearer token for the stateless API.
func (s *UserStore) IssueAPIToken(u *models.User, ttl time.Duration) (string, error) {
	return s.codec.Issue(u.ID, token.PurposeAPIAuth, ttl)
}

// ResolveAPIToken verifies a bearer token and loads its user.
func (s *UserStore) ResolveAPIToken(tok string) (*models.User, bool) {
	uid, ok := s.codec.Verify(tok, token.PurposeAPIAuth)
	if !ok {
		return nil, false
	}
	user, err := s.GetByID(uid)
	if err != nil {
		return nil, false
	}
	return user, true
}

// TouchLastSeen refreshes last_seen. Best effort: runs once per
// authenticated request and must never fail the request.
func (s *UserStore) TouchLastSeen(u *models.User) {
	if err := s.db.Model(&models.User{}).Where("id = ?", u.ID).
		UpdateColumn("last_seen", time.Now()).Error; err != nil {
		log.Printf("touch last_seen for user %d: %v", u.ID, err)
	}
}

// AdminProfileUpdate is the administrator-level profile edit.
type AdminProfileUpdate struct {
	Email     string
	Username  string
	Confirmed bool
	RoleID    uint
	Name      string
	Location  string
	AboutMe   string
}

// UpdateProfileAdmin applies an administrator edit to u.
func (s *UserStore) UpdateProfileAdmin(u *models.User, upd AdminProfileUpdate) error {
	err := s.db.Model(u).Updates(map[string]interface{}{
		"email":     upd.Email,
		"username":  upd.Username,
		"confirmed": upd.Confirmed,
		"role_id":   upd.RoleID,
		"name":      upd.Name,
		"location":  upd.Location,
		"about_me":  upd.AboutMe,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// Delete removes a user; posts, comments and follow edges in both
// directions go with it via the FK constraints.
func (s *UserStore) Delete(u *models.User) error {
	return s.db.Delete(&models.User{}, u.ID).Error
}

// Roles lists all roles, for the admin profile form.
func (s *UserStore) Roles() ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Order("id").Find(&roles).Error
	return roles, err
}
