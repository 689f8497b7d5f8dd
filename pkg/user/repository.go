package user

import (
	"context"
	"errors"

	"github.com/campus-compass/calendar-manager/internal/errdef"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, u *model.User) error {
	err := r.db.WithContext(context.WithoutCancel(ctx)).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %q already exists", u.Email)
	}
	if err != nil {
		return errdef.NewStorage("failed to create user: %w", err)
	}

	return nil
}

func (r repository) findByEmail(ctx context.Context, email string) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with email %q", email)
	}
	if err != nil {
		return nil, errdef.NewStorage("failed to find user with email %q: %w", email, err)
	}
	return u, nil
}

func (r repository) findById(ctx context.Context, id uint) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with id %d", id)
	}
	if err != nil {
		return nil, errdef.NewStorage("failed to find user with id %d: %w", id, err)
	}
	return u, nil
}

func (r repository) delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(context.WithoutCancel(ctx)).Unscoped().Delete(&model.User{}, id)
	if db.Error != nil {
		return errdef.NewStorage("failed to delete user with id %d: %w", id, db.Error)
	} else if db.RowsAffected < 1 {
		return errdef.NewNotFound("failed to find user with id %d", id)
	}

	return nil
}
