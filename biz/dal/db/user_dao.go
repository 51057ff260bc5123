package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeweai/media_vault/biz/dal/model"

	"gorm.io/gorm"
)

// UserDAO handles the small slice of user persistence this service needs:
// identity lookup and the credit balance.
type UserDAO struct{}

func NewUserDAO() *UserDAO { return &UserDAO{} }

func (dao *UserDAO) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	if user == nil {
		return gorm.ErrInvalidValue
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(user).Error
}

func (dao *UserDAO) GetByID(ctx context.Context, db *gorm.DB, userID string) (*model.User, error) {
	var user model.User
	if err := db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DebitCredits subtracts amount from the balance only when it is covered.
// Returns false when the balance was insufficient or the user is unknown.
func (dao *UserDAO) DebitCredits(ctx context.Context, db *gorm.DB, userID string, amount int64) (bool, error) {
	if amount <= 0 {
		return true, nil
	}
	result := db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Update("credits", gorm.Expr("credits - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CreditCredits adds amount back to the balance. Used to refund a debit when
// worker dispatch fails before the task row exists.
func (dao *UserDAO) CreditCredits(ctx context.Context, db *gorm.DB, userID string, amount int64) error {
	if amount <= 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", amount)).Error
}
