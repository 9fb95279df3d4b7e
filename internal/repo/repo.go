package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrSizeOutOfRange marks a persisted cart row whose size is not one of
// the bottle sizes sold. Such rows are a data-integrity fault and are
// rejected at the repository boundary instead of being priced.
var ErrSizeOutOfRange = errors.New("size out of range")

type GormRepo struct {
	DB *gorm.DB
}
