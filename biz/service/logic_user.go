package service

import (
	"context"
	"errors"

	"github.com/jeweai/media_vault/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- User Operations ---------------------

func (l *Logic) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := l.userDAO.GetByID(ctx, l.db, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (l *Logic) DebitCredits(ctx context.Context, userID string, amount int64) (bool, error) {
	return l.userDAO.DebitCredits(ctx, l.db, userID, amount)
}

func (l *Logic) RefundCredits(ctx context.Context, userID string, amount int64) error {
	return l.userDAO.CreditCredits(ctx, l.db, userID, amount)
}
