// Package categories mirrors package authors for the category and
// book_category tables.
package categories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListNamesForBook returns the names of a book's categories in insertion order.
// An unknown book yields an empty list.
func (r *Repository) ListNamesForBook(isbn string) ([]string, error) {
	names := []string{}
	err := r.db.Model(&entities.Category{}).
		Joins("JOIN book_category ON book_category.id_category = category.id").
		Where("book_category.isbn = ?", isbn).
		Order("category.id").
		Pluck("category.name", &names).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// LinksForBook returns the id and name of every category linked to a book.
func (r *Repository) LinksForBook(isbn string) ([]entities.Link, error) {
	var links []entities.Link
	err := r.db.Model(&entities.Category{}).
		Select("category.id AS id, category.name AS name").
		Joins("JOIN book_category ON book_category.id_category = category.id").
		Where("book_category.isbn = ?", isbn).
		Order("category.id").
		Scan(&links).Error
	return links, database.TranslateError(err)
}

// FindOrCreate returns the id of the category with exactly this name (case
// sensitive), creating the category when none exists. When several categories
// share the name the lowest id wins.
func (r *Repository) FindOrCreate(name string) (uint, error) {
	var category entities.Category
	err := r.db.Where("name = ?", name).Order("id").First(&category).Error
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, database.TranslateError(err)
	}

	category = entities.Category{Name: name}
	if err := r.db.Create(&category).Error; err != nil {
		return 0, fmt.Errorf("failed to create category %q: %w", name, database.TranslateError(err))
	}
	return category.ID, nil
}

// LinkBook associates a category with a book. Linking the same pair twice,
// or referencing a missing book or category, fails with
// database.ErrConstraintViolation.
func (r *Repository) LinkBook(isbn string, categoryID uint) error {
	link := entities.BookCategory{ISBN: isbn, CategoryID: categoryID}
	if err := r.db.Create(&link).Error; err != nil {
		return fmt.Errorf("failed to link category %d to book %s: %w", categoryID, isbn, database.TranslateError(err))
	}
	return nil
}

// UnlinkBook removes the given category associations from a book.
func (r *Repository) UnlinkBook(isbn string, categoryIDs ...uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	err := r.db.Where("isbn = ? AND id_category IN ?", isbn, categoryIDs).Delete(&entities.BookCategory{}).Error
	return database.TranslateError(err)
}

// UnlinkAll removes every category association of a book.
func (r *Repository) UnlinkAll(isbn string) error {
	return database.TranslateError(r.db.Where("isbn = ?", isbn).Delete(&entities.BookCategory{}).Error)
}

// DeleteOrphans removes categories that no book references any more.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM category
		WHERE id NOT IN (SELECT id_category FROM book_category)
	`)
	if result.Error != nil {
		return 0, database.TranslateError(result.Error)
	}
	return result.RowsAffected, nil
}
