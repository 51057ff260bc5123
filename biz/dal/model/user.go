package model

import (
	"time"
)

// User owns folders, assets and tasks. Credentials are managed by the
// external auth service; only the identity and credit balance matter here.
type User struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Username  string    `gorm:"column:username" json:"username,omitempty"`
	Email     string    `gorm:"column:email" json:"email,omitempty"`
	Nickname  string    `gorm:"column:nickname" json:"nickname,omitempty"`
	Password  string    `gorm:"column:password" json:"-"`
	Salt      string    `gorm:"column:salt" json:"-"`
	Status    int       `gorm:"column:status;default:1" json:"status,omitempty"`
	Credits   int64     `gorm:"column:credits;default:0" json:"credits"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// TableName overrides gorm to use the users table.
func (User) TableName() string {
	return "users"
}
