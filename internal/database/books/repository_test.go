package books

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

const (
	harryPotterISBN = "978-2070518425"
	witcherISBN     = "978-0316452960"
)

func setupTestDB(t *testing.T) (*Repository, *database.Database, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")

	db, err := database.NewDatabase(dbPath, logger.Silent)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}
	return NewRepository(db.DB), db, cleanup
}

func countAuthorsNamed(t *testing.T, db *database.Database, name string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.DB.Model(&entities.Author{}).Where("name = ?", name).Count(&count).Error)
	return count
}

func newBook(isbn string) *entities.Book {
	return &entities.Book{
		ISBN:       isbn,
		Title:      "Title " + isbn,
		NbPages:    123,
		Summary:    "Summary of " + isbn,
		Authors:    []string{"Author " + isbn},
		Categories: []string{"roman", "policier"},
	}
}

func TestRepository_GetByISBN_SeedData(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetByISBN(harryPotterISBN)

	require.NoError(t, err)
	assert.Equal(t, harryPotterISBN, book.ISBN)
	assert.Equal(t, "Harry Potter à l'école des sorciers", book.Title)
	assert.Equal(t, 308, book.NbPages)
	assert.Equal(t, []string{"J.K. Rowling"}, book.Authors)
	assert.ElementsMatch(t, []string{"fantastique", "junior"}, book.Categories)

	witcher, err := repo.GetByISBN(witcherISBN)
	require.NoError(t, err)
	assert.Equal(t, []string{"Andrzej Sapkowski"}, witcher.Authors)
	assert.ElementsMatch(t, []string{"fantastique", "action", "adulte"}, witcher.Categories)
}

func TestRepository_GetByISBN_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetByISBN("000-0000000000")

	assert.Nil(t, book)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_ListAll(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	books, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, books, 2)
	// ordered by title
	assert.Equal(t, harryPotterISBN, books[0].ISBN)
	assert.Equal(t, witcherISBN, books[1].ISBN)

	const created = 5
	for i := 0; i < created; i++ {
		_, err := repo.Create(newBook(fmt.Sprintf("isbn-%d", i)))
		require.NoError(t, err)
	}

	books, err = repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, books, 2+created)
}

func TestRepository_ListAll_EmptyCatalog(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Delete(harryPotterISBN))
	require.NoError(t, repo.Delete(witcherISBN))

	books, err := repo.ListAll()
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestRepository_Create_RoundTrip(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	in := &entities.Book{
		ISBN:       "978-2253004226",
		Title:      "Le Tour du monde en quatre-vingts jours",
		NbPages:    256,
		Summary:    "Phileas Fogg parie qu'il fera le tour du monde en quatre-vingts jours.",
		Authors:    []string{"Jules Verne", "Léon Benett"},
		Categories: []string{"aventure", "classique", "junior"},
	}

	isbn, err := repo.Create(in)
	require.NoError(t, err)
	assert.Equal(t, in.ISBN, isbn)

	out, err := repo.GetByISBN(isbn)
	require.NoError(t, err)
	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.NbPages, out.NbPages)
	assert.Equal(t, in.Summary, out.Summary)
	assert.ElementsMatch(t, in.Authors, out.Authors)
	assert.ElementsMatch(t, in.Categories, out.Categories)
}

func TestRepository_Create_ReusesExistingAuthor(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := newBook("978-2070584628")
	book.Authors = []string{"J.K. Rowling"}
	book.Categories = []string{"fantastique"}

	_, err := repo.Create(book)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countAuthorsNamed(t, db, "J.K. Rowling"))
}

func TestRepository_Create_WithoutAssociations(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(&entities.Book{ISBN: "bare", Title: "Bare"})
	require.NoError(t, err)

	book, err := repo.GetByISBN("bare")
	require.NoError(t, err)
	assert.Empty(t, book.Authors)
	assert.Empty(t, book.Categories)
}

func TestRepository_Create_DuplicateISBN(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(newBook(harryPotterISBN))

	assert.ErrorIs(t, err, database.ErrConstraintViolation)

	// the seeded record is untouched
	book, err := repo.GetByISBN(harryPotterISBN)
	require.NoError(t, err)
	assert.Equal(t, "Harry Potter à l'école des sorciers", book.Title)
}

func TestRepository_Create_DuplicateNameFails(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := newBook("dup-author")
	book.Authors = []string{"Nouvel Auteur", "Nouvel Auteur"}

	_, err := repo.Create(book)

	assert.ErrorIs(t, err, database.ErrConstraintViolation)
	_, err = repo.GetByISBN("dup-author")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Zero(t, countAuthorsNamed(t, db, "Nouvel Auteur"))
}

func TestRepository_Create_RejectsInvalidBook(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("negative page count", func(t *testing.T) {
		book := newBook("negative-pages")
		book.NbPages = -5

		_, err := repo.Create(book)

		assert.ErrorIs(t, err, database.ErrInvalidInput)
		_, err = repo.GetByISBN("negative-pages")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("empty isbn", func(t *testing.T) {
		book := newBook("")

		_, err := repo.Create(book)

		assert.ErrorIs(t, err, database.ErrInvalidInput)
	})

	t.Run("zero pages is valid", func(t *testing.T) {
		book := newBook("zero-pages")
		book.NbPages = 0

		_, err := repo.Create(book)

		assert.NoError(t, err)
	})
}

func TestRepository_Create_CleansNames(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := newBook("padded-names")
	book.Authors = []string{"  ", "X ", ""}
	book.Categories = []string{" roman", "\t"}

	_, err := repo.Create(book)
	require.NoError(t, err)

	stored, err := repo.GetByISBN("padded-names")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, stored.Authors)
	assert.Equal(t, []string{"roman"}, stored.Categories)
	assert.Zero(t, countAuthorsNamed(t, db, "  "))
	// the caller's book is not rewritten
	assert.Equal(t, []string{"  ", "X ", ""}, book.Authors)
}

func TestRepository_Create_NamesEqualAfterTrimConflict(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book := newBook("trim-dup")
	book.Authors = []string{"X", " X "}

	_, err := repo.Create(book)

	assert.ErrorIs(t, err, database.ErrConstraintViolation)
}

func TestRepository_Modify_RejectsNegativePages(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book := newBook(harryPotterISBN)
	book.NbPages = -1

	err := repo.Modify(harryPotterISBN, book)

	assert.ErrorIs(t, err, database.ErrInvalidInput)
	stored, err := repo.GetByISBN(harryPotterISBN)
	require.NoError(t, err)
	assert.Equal(t, 308, stored.NbPages)
}

func TestRepository_Create_RollsBackOnFailure(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	// Reject the category link so the failure happens after the book row and
	// its author were written.
	require.NoError(t, db.DB.Exec(`
		CREATE TRIGGER reject_category BEFORE INSERT ON book_category
		WHEN NEW.isbn = 'rollback'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END
	`).Error)

	book := newBook("rollback")
	book.Authors = []string{"Auteur Fantôme"}
	_, err := repo.Create(book)
	require.ErrorIs(t, err, database.ErrConstraintViolation)

	_, err = repo.GetByISBN("rollback")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Zero(t, countAuthorsNamed(t, db, "Auteur Fantôme"))
}

func TestRepository_Delete(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Delete(harryPotterISBN))

	_, err := repo.GetByISBN(harryPotterISBN)
	assert.ErrorIs(t, err, database.ErrNotFound)

	var links int64
	require.NoError(t, db.DB.Model(&entities.BookAuthor{}).Where("isbn = ?", harryPotterISBN).Count(&links).Error)
	assert.Zero(t, links)
	require.NoError(t, db.DB.Model(&entities.BookCategory{}).Where("isbn = ?", harryPotterISBN).Count(&links).Error)
	assert.Zero(t, links)

	// authors outlive their last book
	assert.Equal(t, int64(1), countAuthorsNamed(t, db, "J.K. Rowling"))

	// the other seeded book keeps its shared category
	witcher, err := repo.GetByISBN(witcherISBN)
	require.NoError(t, err)
	assert.Contains(t, witcher.Categories, "fantastique")
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete("does-not-exist")

	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Modify_InPlace(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	var rowlingIDs []uint
	require.NoError(t, db.DB.Model(&entities.Author{}).Where("name = ?", "J.K. Rowling").Pluck("id", &rowlingIDs).Error)
	require.Len(t, rowlingIDs, 1)

	err := repo.Modify(harryPotterISBN, &entities.Book{
		ISBN:       harryPotterISBN,
		Title:      "Harry Potter à l'école des sorciers (édition illustrée)",
		NbPages:    320,
		Summary:    "Nouvelle édition.",
		Authors:    []string{"J.K. Rowling", "Jim Kay"},
		Categories: []string{"fantastique", "illustré"},
	})
	require.NoError(t, err)

	book, err := repo.GetByISBN(harryPotterISBN)
	require.NoError(t, err)
	assert.Equal(t, "Harry Potter à l'école des sorciers (édition illustrée)", book.Title)
	assert.Equal(t, 320, book.NbPages)
	assert.Equal(t, "Nouvelle édition.", book.Summary)
	assert.ElementsMatch(t, []string{"J.K. Rowling", "Jim Kay"}, book.Authors)
	assert.ElementsMatch(t, []string{"fantastique", "illustré"}, book.Categories)

	// the unchanged association keeps the same author row
	var linkedIDs []uint
	require.NoError(t, db.DB.Model(&entities.BookAuthor{}).Where("isbn = ?", harryPotterISBN).Pluck("id_author", &linkedIDs).Error)
	assert.Contains(t, linkedIDs, rowlingIDs[0])
}

func TestRepository_Modify_ClearsAssociations(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Modify(witcherISBN, &entities.Book{ISBN: witcherISBN, Title: "The Witcher", NbPages: 464})
	require.NoError(t, err)

	book, err := repo.GetByISBN(witcherISBN)
	require.NoError(t, err)
	assert.Empty(t, book.Authors)
	assert.Empty(t, book.Categories)
}

func TestRepository_Modify_Rename(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	renamed := newBook("978-0316438988")
	renamed.Authors = []string{"Andrzej Sapkowski"}

	require.NoError(t, repo.Modify(witcherISBN, renamed))

	_, err := repo.GetByISBN(witcherISBN)
	assert.ErrorIs(t, err, database.ErrNotFound)

	book, err := repo.GetByISBN("978-0316438988")
	require.NoError(t, err)
	assert.Equal(t, renamed.Title, book.Title)
	assert.Equal(t, []string{"Andrzej Sapkowski"}, book.Authors)
}

func TestRepository_Modify_RenameOntoExistingBook(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Modify(witcherISBN, newBook(harryPotterISBN))

	assert.ErrorIs(t, err, database.ErrConstraintViolation)

	// the whole operation rolled back
	witcher, err := repo.GetByISBN(witcherISBN)
	require.NoError(t, err)
	assert.Equal(t, []string{"Andrzej Sapkowski"}, witcher.Authors)
	hp, err := repo.GetByISBN(harryPotterISBN)
	require.NoError(t, err)
	assert.Equal(t, 308, hp.NbPages)
}

func TestRepository_Modify_MissingBookIsCreated(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Modify("new-isbn", newBook("new-isbn")))

	book, err := repo.GetByISBN("new-isbn")
	require.NoError(t, err)
	assert.Equal(t, "Title new-isbn", book.Title)
	assert.ElementsMatch(t, []string{"roman", "policier"}, book.Categories)
}

func TestRepository_Modify_DuplicateNameFails(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	book := newBook(harryPotterISBN)
	book.Categories = []string{"junior", "junior"}

	err := repo.Modify(harryPotterISBN, book)

	assert.ErrorIs(t, err, database.ErrConstraintViolation)
	hp, err := repo.GetByISBN(harryPotterISBN)
	require.NoError(t, err)
	assert.Equal(t, "Harry Potter à l'école des sorciers", hp.Title)
}

func TestRepository_ConcurrentWrites(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers*2)

	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(newBook(fmt.Sprintf("concurrent-%d", i)))
			errs <- err
		}(i)
		go func(i int) {
			defer wg.Done()
			book := newBook(harryPotterISBN)
			book.Title = fmt.Sprintf("edition %d", i)
			errs <- repo.Modify(harryPotterISBN, book)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	books, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, books, 2+writers)

	hp, err := repo.GetByISBN(harryPotterISBN)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"roman", "policier"}, hp.Categories)
}
