// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/persistence/model"
)

// userRepository implements the adapter.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *gorm.DB) adapter.UserRepository {
	return &userRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.UserFromEntity(user)
	result := r.db.WithContext(ctx).Create(userModel)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerror.ErrEmailAlreadyExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a user by their ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userModel model.UserModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUserNotFound
		}
		return nil, result.Error
	}
	return userModel.ToEntity(), nil
}

// FindByEmail retrieves a user by their email address.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	result := r.db.WithContext(ctx).Where("email = ?", entity.NormalizeEmail(email)).First(&userModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUserNotFound
		}
		return nil, result.Error
	}
	return userModel.ToEntity(), nil
}

// Update applies the patch to an existing user.
func (r *userRepository) Update(ctx context.Context, id uuid.UUID, patch entity.UserPatch) (*entity.User, error) {
	columns := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		columns["name"] = *patch.Name
	}
	if patch.Email != nil {
		columns["email"] = entity.NormalizeEmail(*patch.Email)
	}
	if patch.PasswordHash != nil {
		columns["password_hash"] = *patch.PasswordHash
	}

	result := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, domainerror.ErrEmailAlreadyExists
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerror.ErrUserNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a user together with their assignments and the goals those reference.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var goalIDs []uuid.UUID
		if err := tx.Model(&model.AssignmentModel{}).Where("user_id = ?", id).Pluck("goal_id", &goalIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.AssignmentModel{}).Error; err != nil {
			return err
		}

		if len(goalIDs) > 0 {
			if err := tx.Where("id IN ?", goalIDs).Delete(&model.GoalModel{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&model.UserModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrUserNotFound
		}
		return nil
	})
}

// ExistsByEmail checks if a user with the given email exists.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("email = ?", entity.NormalizeEmail(email)).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
