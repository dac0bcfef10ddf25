package service

import (
	"eco-ui/database"
	"eco-ui/database/model"
	"eco-ui/logger"
	"eco-ui/util/crypto"
	"eco-ui/util/random"

	"gorm.io/gorm"
)

const minPasswordLength = 8

// tokenEntropyBytes gives 256 bits of entropy per token.
const tokenEntropyBytes = 32

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Profile carries the optional user fields accepted at registration.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
}

// RegisterUser creates a credentialed user. The first user ever registered
// becomes admin. Fails with ErrWeakPassword or ErrDuplicateUser.
func (s *UserService) RegisterUser(username, password string, profile Profile) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Where("username = ?", username).First(&existing).Error
		if err == nil {
			return ErrDuplicateUser
		} else if !database.IsNotFound(err) {
			return err
		}

		var count int64
		if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
			return err
		}

		user := &model.User{
			Username:     username,
			PasswordHash: hash,
			IsAdmin:      count == 0,
			FirstName:    profile.FirstName,
			LastName:     profile.LastName,
			Email:        profile.Email,
		}
		return tx.Create(user).Error
	})
}

// GetOrCreateUser looks up a user by name, inserting a passwordless
// non-admin row on miss. Used by workflow operations acting on behalf of a
// TrustedActor.
func (s *UserService) GetOrCreateUser(username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Where("username = ?", username).First(user).Error
	if err == nil {
		return user, nil
	}
	if !database.IsNotFound(err) {
		return nil, err
	}
	user = &model.User{Username: username}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPassword reports whether the given credentials match. Users without
// a stored hash (implicitly created actors) never verify.
func (s *UserService) VerifyPassword(username, password string) bool {
	user := &model.User{}
	err := s.db.Where("username = ?", username).First(user).Error
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("verify password query failed:", err)
		}
		return false
	}
	if user.PasswordHash == "" {
		return false
	}
	return crypto.CheckPasswordHash(user.PasswordHash, password)
}

// GenerateToken verifies credentials and mints a bearer token bound to the
// user. Returns ErrInvalidToken on bad credentials; the failed attempt is
// logged but not otherwise recorded.
func (s *UserService) GenerateToken(username, password string) (string, error) {
	if !s.VerifyPassword(username, password) {
		logger.Warningf("failed login attempt for user '%s'", username)
		return "", ErrInvalidToken
	}

	user, err := s.GetOrCreateUser(username)
	if err != nil {
		return "", err
	}

	token := random.TokenHex(tokenEntropyBytes)
	row := &model.Token{Token: token, UserId: user.Id}
	if err := s.db.Create(row).Error; err != nil {
		return "", err
	}
	return token, nil
}

// GetUserFromToken resolves a bearer token to its owning user.
func (s *UserService) GetUserFromToken(token string) (*model.User, error) {
	row := &model.Token{}
	err := s.db.Where("token = ?", token).First(row).Error
	if database.IsNotFound(err) {
		return nil, ErrInvalidToken
	} else if err != nil {
		return nil, err
	}

	user := &model.User{}
	if err := s.db.First(user, row.UserId).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// RevokeToken deletes a token. ErrNotFound if it never existed.
func (s *UserService) RevokeToken(token string) error {
	result := s.db.Where("token = ?", token).Delete(&model.Token{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user and all of their tokens. Refuses to delete the
// last remaining admin.
func (s *UserService) DeleteUser(id int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		user := &model.User{}
		err := tx.First(user, id).Error
		if database.IsNotFound(err) {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		if user.IsAdmin {
			var adminCount int64
			if err := tx.Model(&model.User{}).Where("is_admin = ?", true).Count(&adminCount).Error; err != nil {
				return err
			}
			if adminCount <= 1 {
				logger.Warningf("attempted to delete the last admin user (id=%d)", id)
				return ErrLastAdmin
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.Token{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.User{}, id).Error; err != nil {
			return err
		}
		logger.Infof("deleted user id=%d", id)
		return nil
	})
}

func (s *UserService) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// PromoteUser grants the admin flag. A no-op if the user is already admin.
func (s *UserService) PromoteUser(username string) error {
	user := &model.User{}
	err := s.db.Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if user.IsAdmin {
		logger.Infof("user '%s' is already an admin", username)
		return nil
	}
	return s.db.Model(user).Update("is_admin", true).Error
}

// CheckHealth verifies the store answers a trivial query.
func (s *UserService) CheckHealth() bool {
	return s.db.Exec("SELECT 1").Error == nil
}
