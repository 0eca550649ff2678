// Package authors provides database operations for authors and their
// book_author associations.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	id, err := repo.FindOrCreate("J.K. Rowling")
//	err = repo.LinkBook("978-2070518425", id)
//
// Inside a book transaction use WithTx so every statement joins it:
//
//	db.Transaction(func(tx *gorm.DB) error {
//		return repo.WithTx(tx).LinkBook(isbn, id)
//	})
package authors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListNamesForBook returns the names of a book's authors in insertion order.
// An unknown book yields an empty list.
func (r *Repository) ListNamesForBook(isbn string) ([]string, error) {
	names := []string{}
	err := r.db.Model(&entities.Author{}).
		Joins("JOIN book_author ON book_author.id_author = author.id").
		Where("book_author.isbn = ?", isbn).
		Order("author.id").
		Pluck("author.name", &names).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// LinksForBook returns the id and name of every author linked to a book.
func (r *Repository) LinksForBook(isbn string) ([]entities.Link, error) {
	var links []entities.Link
	err := r.db.Model(&entities.Author{}).
		Select("author.id AS id, author.name AS name").
		Joins("JOIN book_author ON book_author.id_author = author.id").
		Where("book_author.isbn = ?", isbn).
		Order("author.id").
		Scan(&links).Error
	return links, database.TranslateError(err)
}

// FindOrCreate returns the id of the author with exactly this name (case
// sensitive), creating the author when none exists. When several authors
// share the name the lowest id wins.
func (r *Repository) FindOrCreate(name string) (uint, error) {
	var author entities.Author
	err := r.db.Where("name = ?", name).Order("id").First(&author).Error
	if err == nil {
		return author.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, database.TranslateError(err)
	}

	author = entities.Author{Name: name}
	if err := r.db.Create(&author).Error; err != nil {
		return 0, fmt.Errorf("failed to create author %q: %w", name, database.TranslateError(err))
	}
	return author.ID, nil
}

// LinkBook associates an author with a book. Linking the same pair twice,
// or referencing a missing book or author, fails with
// database.ErrConstraintViolation.
func (r *Repository) LinkBook(isbn string, authorID uint) error {
	link := entities.BookAuthor{ISBN: isbn, AuthorID: authorID}
	if err := r.db.Create(&link).Error; err != nil {
		return fmt.Errorf("failed to link author %d to book %s: %w", authorID, isbn, database.TranslateError(err))
	}
	return nil
}

// UnlinkBook removes the given author associations from a book.
func (r *Repository) UnlinkBook(isbn string, authorIDs ...uint) error {
	if len(authorIDs) == 0 {
		return nil
	}
	err := r.db.Where("isbn = ? AND id_author IN ?", isbn, authorIDs).Delete(&entities.BookAuthor{}).Error
	return database.TranslateError(err)
}

// UnlinkAll removes every author association of a book.
func (r *Repository) UnlinkAll(isbn string) error {
	return database.TranslateError(r.db.Where("isbn = ?", isbn).Delete(&entities.BookAuthor{}).Error)
}

// DeleteOrphans removes authors that no book references any more.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM author
		WHERE id NOT IN (SELECT id_author FROM book_author)
	`)
	if result.Error != nil {
		return 0, database.TranslateError(result.Error)
	}
	return result.RowsAffected, nil
}
