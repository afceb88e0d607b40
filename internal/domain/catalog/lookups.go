package catalog

import "github.com/library/backend/internal/domain/shared"

// Author is a weak lookup record resolved find-or-create by normalized name.
type Author struct {
	shared.BaseEntity
	Name string `gorm:"uniqueIndex;not null"`
}

// TableName returns the table name for GORM
func (Author) TableName() string {
	return "authors"
}

// Publisher is a weak lookup record resolved find-or-create by normalized name.
type Publisher struct {
	shared.BaseEntity
	Name string `gorm:"uniqueIndex;not null"`
}

// TableName returns the table name for GORM
func (Publisher) TableName() string {
	return "publishers"
}

// Category is a weak lookup record resolved find-or-create by normalized name.
type Category struct {
	shared.BaseEntity
	Name string `gorm:"uniqueIndex;not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}
