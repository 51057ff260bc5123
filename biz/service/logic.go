package service

import (
	"errors"

	"github.com/jeweai/media_vault/biz/dal/db"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized        = errors.New("authentication required")
	ErrFolderNotFound      = errors.New("folder not found")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAssetLocked         = errors.New("asset is locked by an in-flight generation")
	ErrNameConflict        = errors.New("an entry with this name already exists here")
	ErrCyclicMove          = errors.New("a folder cannot be moved into its own subtree")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// Logic contains business rules on top of data persistence.
type Logic struct {
	db        *gorm.DB
	folderDAO *db.FolderDAO
	assetDAO  *db.AssetDAO
	taskDAO   *db.TaskDAO
	userDAO   *db.UserDAO
}

func NewLogic(dbConn *gorm.DB) *Logic {
	return &Logic{
		db:        dbConn,
		folderDAO: db.NewFolderDAO(),
		assetDAO:  db.NewAssetDAO(),
		taskDAO:   db.NewTaskDAO(),
		userDAO:   db.NewUserDAO(),
	}
}
