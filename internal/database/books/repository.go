// Package books provides the catalog's book operations. A book is stored as
// one row in the book table plus junction rows towards authors and
// categories; this package composes the authors and categories
// repositories to read and write the whole record.
//
// Every write runs in a single transaction and holds a per-ISBN lock, so a
// failed create leaves no orphaned author behind and two requests on the
// same book never interleave.
//
// # Usage
//
//	repo := books.NewRepository(db.DB)
//	isbn, err := repo.Create(&entities.Book{ISBN: "978-...", Title: "..."})
//	book, err := repo.GetByISBN(isbn)
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/categories"
	"github.com/mrlokans/library/internal/entities"
)

// associations is the part of the authors and categories repositories a
// book write needs.
type associations interface {
	LinksForBook(isbn string) ([]entities.Link, error)
	FindOrCreate(name string) (uint, error)
	LinkBook(isbn string, id uint) error
	UnlinkBook(isbn string, ids ...uint) error
	UnlinkAll(isbn string) error
}

var (
	_ associations = (*authors.Repository)(nil)
	_ associations = (*categories.Repository)(nil)
)

// Repository handles all book database operations.
type Repository struct {
	db         *gorm.DB
	authors    *authors.Repository
	categories *categories.Repository
	locks      *keyLocks
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		authors:    authors.NewRepository(db),
		categories: categories.NewRepository(db),
		locks:      newKeyLocks(),
	}
}

// ListAll returns the ISBN and title of every book, ordered by title.
func (r *Repository) ListAll() ([]entities.BookSummary, error) {
	books := []entities.BookSummary{}
	err := r.db.Model(&entities.Book{}).Select("isbn, title").Order("title, isbn").Scan(&books).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return books, nil
}

// GetByISBN returns the book with its author and category names, or
// database.ErrNotFound.
func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %s: %w", isbn, database.ErrNotFound)
	}
	if err != nil {
		return nil, database.TranslateError(err)
	}

	book.Authors, err = r.authors.ListNamesForBook(isbn)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors of %s: %w", isbn, err)
	}
	book.Categories, err = r.categories.ListNamesForBook(isbn)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories of %s: %w", isbn, err)
	}
	return &book, nil
}

// Create inserts the book and associates its authors and categories,
// creating unknown ones. Names are trimmed and blank ones dropped; an empty
// ISBN or a negative page count fails with database.ErrInvalidInput.
// Returns the book's ISBN.
func (r *Repository) Create(book *entities.Book) (string, error) {
	book, err := prepare(book)
	if err != nil {
		return "", err
	}

	unlock := r.locks.Lock(book.ISBN)
	defer unlock()

	err = r.db.Transaction(func(tx *gorm.DB) error {
		return r.insert(tx, book)
	})
	if err != nil {
		return "", database.TranslateError(err)
	}
	return book.ISBN, nil
}

// Delete removes the book and its associations. Authors and categories are
// kept even when no other book references them. A missing book yields
// database.ErrNotFound.
func (r *Repository) Delete(isbn string) error {
	unlock := r.locks.Lock(isbn)
	defer unlock()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return r.remove(tx, isbn)
	})
	return database.TranslateError(err)
}

// Modify replaces the book stored under isbn with book.
//
// When the ISBN is unchanged the row is updated in place and associations
// are reconciled: links to names no longer listed are dropped, new names
// are linked, untouched links keep their ids. When book.ISBN differs the
// old book is removed and the new one inserted, which renames it. When
// nothing is stored under isbn the book is simply created.
func (r *Repository) Modify(isbn string, book *entities.Book) error {
	book, err := prepare(book)
	if err != nil {
		return err
	}

	unlock := r.locks.Lock(isbn, book.ISBN)
	defer unlock()

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if book.ISBN != isbn {
			if err := r.remove(tx, isbn); err != nil && !errors.Is(err, database.ErrNotFound) {
				return err
			}
			return r.insert(tx, book)
		}

		result := tx.Model(&entities.Book{}).Where("isbn = ?", isbn).Updates(map[string]any{
			"title":    book.Title,
			"nb_pages": book.NbPages,
			"summary":  book.Summary,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update book %s: %w", isbn, database.TranslateError(result.Error))
		}
		if result.RowsAffected == 0 {
			return r.insert(tx, book)
		}

		if err := reconcile(r.authors.WithTx(tx), isbn, book.Authors); err != nil {
			return fmt.Errorf("failed to update authors of %s: %w", isbn, err)
		}
		if err := reconcile(r.categories.WithTx(tx), isbn, book.Categories); err != nil {
			return fmt.Errorf("failed to update categories of %s: %w", isbn, err)
		}
		return nil
	})
	return database.TranslateError(err)
}

func (r *Repository) insert(tx *gorm.DB, book *entities.Book) error {
	row := entities.Book{
		ISBN:    book.ISBN,
		Title:   book.Title,
		NbPages: book.NbPages,
		Summary: book.Summary,
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert book %s: %w", book.ISBN, database.TranslateError(err))
	}
	if err := link(r.authors.WithTx(tx), book.ISBN, book.Authors); err != nil {
		return fmt.Errorf("failed to add authors to %s: %w", book.ISBN, err)
	}
	if err := link(r.categories.WithTx(tx), book.ISBN, book.Categories); err != nil {
		return fmt.Errorf("failed to add categories to %s: %w", book.ISBN, err)
	}
	return nil
}

// remove deletes junction rows before the book row; the schema has no
// cascade.
func (r *Repository) remove(tx *gorm.DB, isbn string) error {
	if err := r.authors.WithTx(tx).UnlinkAll(isbn); err != nil {
		return err
	}
	if err := r.categories.WithTx(tx).UnlinkAll(isbn); err != nil {
		return err
	}
	result := tx.Where("isbn = ?", isbn).Delete(&entities.Book{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete book %s: %w", isbn, database.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", isbn, database.ErrNotFound)
	}
	return nil
}

func link(repo associations, isbn string, names []string) error {
	for _, name := range names {
		id, err := repo.FindOrCreate(name)
		if err != nil {
			return err
		}
		if err := repo.LinkBook(isbn, id); err != nil {
			return err
		}
	}
	return nil
}

func reconcile(repo associations, isbn string, names []string) error {
	current, err := repo.LinksForBook(isbn)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	kept := make(map[string]bool, len(current))
	var stale []uint
	for _, l := range current {
		if wanted[l.Name] && !kept[l.Name] {
			kept[l.Name] = true
			continue
		}
		stale = append(stale, l.ID)
	}
	if err := repo.UnlinkBook(isbn, stale...); err != nil {
		return err
	}

	var missing []string
	for _, name := range names {
		if !kept[name] {
			missing = append(missing, name)
		}
	}
	return link(repo, isbn, missing)
}

// prepare validates a book before any write and returns a copy with
// author and category names cleaned. The caller's book is left untouched.
func prepare(book *entities.Book) (*entities.Book, error) {
	if book.ISBN == "" {
		return nil, fmt.Errorf("%w: isbn is required", database.ErrInvalidInput)
	}
	if book.NbPages < 0 {
		return nil, fmt.Errorf("%w: page count of %s is negative (%d)", database.ErrInvalidInput, book.ISBN, book.NbPages)
	}

	prepared := *book
	prepared.Authors = entities.CleanNames(book.Authors)
	prepared.Categories = entities.CleanNames(book.Categories)
	if err := checkNames(&prepared); err != nil {
		return nil, err
	}
	return &prepared, nil
}

// checkNames rejects a name listed twice for the same book: it would map to
// the same junction pair.
func checkNames(book *entities.Book) error {
	if name, ok := firstDuplicate(book.Authors); ok {
		return fmt.Errorf("%w: author %q listed twice for %s", database.ErrConstraintViolation, name, book.ISBN)
	}
	if name, ok := firstDuplicate(book.Categories); ok {
		return fmt.Errorf("%w: category %q listed twice for %s", database.ErrConstraintViolation, name, book.ISBN)
	}
	return nil
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name, true
		}
		seen[name] = true
	}
	return "", false
}
