// Package usermgmt manages dashboard operator accounts: authentication,
// permission lookup and account administration.
package usermgmt

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"analytics-service/internal/authz"
	"analytics-service/internal/model"
	"analytics-service/pkg/jwtutil"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so login failures are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
)

const lastLoginLayout = "2006-01-02 15:04:05"

// Manager provides account operations backed by the users table.
type Manager struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Manager {
	return &Manager{db: db, now: time.Now}
}

// LoginResult is the successful authentication payload.
type LoginResult struct {
	Success  bool   `json:"success"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// Authenticate verifies a username and password, stamps the last login time
// and issues a signed token.
func (m *Manager) Authenticate(username, password string) (*LoginResult, error) {
	var user model.SystemUser
	err := m.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	stamp := m.now().Format(lastLoginLayout)
	if err := m.db.Model(&user).Update("last_login", stamp).Error; err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(user.Username, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Success:  true,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	}, nil
}

// Permissions returns the feature flags of a user's role.
func (m *Manager) Permissions(userID uint) (authz.Permissions, error) {
	var user model.SystemUser
	err := m.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return authz.Permissions{}, ErrUserNotFound
	}
	if err != nil {
		return authz.Permissions{}, err
	}
	return authz.ForRole(user.Role), nil
}

// CreateUser registers a new account with a hashed password.
func (m *Manager) CreateUser(username, password, role string) (*model.SystemUser, error) {
	if !authz.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	var count int64
	if err := m.db.Model(&model.SystemUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.SystemUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := m.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserUpdate carries the optional fields of an account update. Nil fields
// are left unchanged.
type UserUpdate struct {
	Password *string
	Role     *string
}

// UpdateUser applies a partial update to an account.
func (m *Manager) UpdateUser(userID uint, update UserUpdate) (*model.SystemUser, error) {
	var user model.SystemUser
	err := m.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Role != nil {
		if !authz.ValidRole(*update.Role) {
			return nil, ErrInvalidRole
		}
		changes["role"] = *update.Role
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		changes["password_hash"] = string(hash)
	}
	if len(changes) == 0 {
		return &user, nil
	}

	if err := m.db.Model(&user).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account.
func (m *Manager) DeleteUser(userID uint) error {
	result := m.db.Delete(&model.SystemUser{}, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns all accounts ordered by id. Password hashes never leave
// the package through the JSON encoding of the model.
func (m *Manager) ListUsers() ([]model.SystemUser, error) {
	var users []model.SystemUser
	if err := m.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.SystemUser{}
	}
	return users, nil
}
