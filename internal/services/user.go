package services

import (
	"context"
	"errors"
	"strings"

	"classengage-backend/internal/models"

	"gorm.io/gorm"
)

// UserService resolves display names to user records. Names are matched
// exactly after trimming; no case folding.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Resolve returns the user with the given display name, creating the
// record on first sighting.
func (s *UserService) Resolve(ctx context.Context, displayName string) (*models.User, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrInvalidDisplayName
	}
	return resolveUser(s.db.WithContext(ctx), name)
}

// resolveUser is the get-or-create used by the lifecycle service. A caller
// losing the create race hits the unique index on display_name and
// re-fetches the winner's row instead of surfacing the violation.
func resolveUser(db *gorm.DB, name string) (*models.User, error) {
	var user models.User
	err := db.Where("display_name = ?", name).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{DisplayName: name}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.User
			if err := db.Where("display_name = ?", name).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &user, nil
}
