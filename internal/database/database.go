package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
)

// dsnOptions applies to every pooled connection: foreign keys are a
// per-connection pragma in SQLite, and immediate transactions make
// concurrent writers wait on the busy timeout instead of failing on upgrade.
const dsnOptions = "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"

var schema = []string{
	`CREATE TABLE book(
		isbn TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		nb_pages INTEGER NOT NULL,
		summary TEXT NOT NULL
	)`,
	`CREATE TABLE author(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE category(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE book_author(
		isbn TEXT,
		id_author INTEGER,
		PRIMARY KEY(isbn, id_author),
		FOREIGN KEY(isbn) REFERENCES book(isbn),
		FOREIGN KEY(id_author) REFERENCES author(id)
	)`,
	`CREATE TABLE book_category(
		isbn TEXT,
		id_category INTEGER,
		PRIMARY KEY(isbn, id_category),
		FOREIGN KEY(isbn) REFERENCES book(isbn),
		FOREIGN KEY(id_category) REFERENCES category(id)
	)`,
}

var seedAuthors = []entities.Author{
	{ID: 1, Name: "J.K. Rowling"},
	{ID: 2, Name: "Andrzej Sapkowski"},
}

var seedCategories = []entities.Category{
	{ID: 1, Name: "fantastique"},
	{ID: 2, Name: "junior"},
	{ID: 3, Name: "action"},
	{ID: 4, Name: "adulte"},
}

var seedBooks = []entities.Book{
	{
		ISBN:    "978-2070518425",
		Title:   "Harry Potter à l'école des sorciers",
		NbPages: 308,
		Summary: "Sauvé de la négligence scandaleuse de sa tante et de son oncle, un jeune garçon avec un grand destin prouve sa valeur tout en fréquentant l'école des sorciers et des sorcières de Poudlard",
	},
	{
		ISBN:    "978-0316452960",
		Title:   "The Witcher - The Tower of Swallows",
		NbPages: 464,
		Summary: "The world is at war and the prophesied savior is nowhere to be found. The Witcher, Geralt of Rivia, races to find her in the fourth novel of Andrzej Sapkowski's groundbreaking epic fantasy series that inspired the hit Netflix show and the blockbuster video games.",
	},
}

var seedBookAuthors = []entities.BookAuthor{
	{ISBN: "978-2070518425", AuthorID: 1},
	{ISBN: "978-0316452960", AuthorID: 2},
}

var seedBookCategories = []entities.BookCategory{
	{ISBN: "978-2070518425", CategoryID: 1},
	{ISBN: "978-2070518425", CategoryID: 2},
	{ISBN: "978-0316452960", CategoryID: 1},
	{ISBN: "978-0316452960", CategoryID: 3},
	{ISBN: "978-0316452960", CategoryID: 4},
}

type Database struct {
	DB   *gorm.DB
	Path string
}

// NewDatabase opens the catalog database at dbPath. When the file does not
// exist yet the schema is created and seeded in a single transaction; a
// failure there removes the partial file so the next start retries cleanly.
func NewDatabase(dbPath string, logLevel logger.LogLevel) (*Database, error) {
	_, statErr := os.Stat(dbPath)
	isNew := os.IsNotExist(statErr)

	db, err := gorm.Open(sqlite.Open(dbPath+"?"+dsnOptions), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", TranslateError(err))
	}

	database := &Database{DB: db, Path: dbPath}

	if isNew {
		if err := database.initialize(); err != nil {
			database.Close()
			removeDatabaseFiles(dbPath)
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Printf("Database created and seeded at %s", dbPath)
	} else {
		log.Printf("Database opened at %s", dbPath)
	}

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection pool is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return TranslateError(err)
	}
	return TranslateError(sqlDB.Ping())
}

func (d *Database) initialize() error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range schema {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}
		return seed(tx)
	})
}

func seed(tx *gorm.DB) error {
	authors := append([]entities.Author(nil), seedAuthors...)
	if err := tx.Create(&authors).Error; err != nil {
		return fmt.Errorf("failed to seed authors: %w", err)
	}
	categories := append([]entities.Category(nil), seedCategories...)
	if err := tx.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	books := append([]entities.Book(nil), seedBooks...)
	if err := tx.Create(&books).Error; err != nil {
		return fmt.Errorf("failed to seed books: %w", err)
	}
	bookAuthors := append([]entities.BookAuthor(nil), seedBookAuthors...)
	if err := tx.Create(&bookAuthors).Error; err != nil {
		return fmt.Errorf("failed to seed book authors: %w", err)
	}
	bookCategories := append([]entities.BookCategory(nil), seedBookCategories...)
	if err := tx.Create(&bookCategories).Error; err != nil {
		return fmt.Errorf("failed to seed book categories: %w", err)
	}
	return nil
}

func removeDatabaseFiles(dbPath string) {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			log.Printf("Could not remove %s: %v", dbPath+suffix, err)
		}
	}
}

// ParseLogLevel converts a configuration string into a gorm log level.
// Unknown values fall back to warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
