package database

import (
	"context"

	"github.com/thereayou/barber-booking/internal/models"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindProvider returns the user only if it is flagged as a provider.
func (d *Database) FindProvider(ctx context.Context, id uint) (*models.User, error) {
	user := models.User{}
	err := d.db.WithContext(ctx).
		Where("id = ? AND provider = ?", id, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) ListProviders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Where("provider = ?", true).
		Order("name ASC").
		Preload("Avatar").
		Find(&users).Error
	return users, err
}
