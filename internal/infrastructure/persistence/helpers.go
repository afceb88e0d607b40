package persistence

import (
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// findOrCreateAuthor returns the author with the given normalized name,
// creating it if absent. Runs on the caller's transaction so a later
// rollback removes a freshly created row too.
func findOrCreateAuthor(tx *gorm.DB, name string) (*catalog.Author, error) {
	author := catalog.Author{Name: name}
	if err := tx.Where("name = ?", name).
		Attrs(catalog.Author{BaseEntity: shared.NewBaseEntity()}).
		FirstOrCreate(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// findOrCreatePublisher returns the publisher with the given normalized
// name, creating it if absent.
func findOrCreatePublisher(tx *gorm.DB, name string) (*catalog.Publisher, error) {
	publisher := catalog.Publisher{Name: name}
	if err := tx.Where("name = ?", name).
		Attrs(catalog.Publisher{BaseEntity: shared.NewBaseEntity()}).
		FirstOrCreate(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

// findOrCreateCategory returns the category with the given normalized name,
// creating it if absent.
func findOrCreateCategory(tx *gorm.DB, name string) (*catalog.Category, error) {
	category := catalog.Category{Name: name}
	if err := tx.Where("name = ?", name).
		Attrs(catalog.Category{BaseEntity: shared.NewBaseEntity()}).
		FirstOrCreate(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// orderByIDs reorders records to match the ID order produced by the search
// strategies. IDs without a corresponding record are skipped.
func orderByIDs[T any, PT interface {
	*T
	shared.Entity
}](items []T, ids []uuid.UUID) []T {
	byID := make(map[uuid.UUID]int, len(items))
	for i := range items {
		byID[PT(&items[i]).GetID()] = i
	}
	ordered := make([]T, 0, len(items))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			ordered = append(ordered, items[i])
		}
	}
	return ordered
}
