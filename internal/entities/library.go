package entities

import "strings"

// Book is the denormalized catalog record: the book row plus the names of
// its authors and categories, which live in their own tables.
type Book struct {
	ISBN       string   `gorm:"column:isbn;primaryKey" json:"isbn"`
	Title      string   `gorm:"column:title" json:"title"`
	NbPages    int      `gorm:"column:nb_pages" json:"nb_pages"`
	Summary    string   `gorm:"column:summary" json:"summary"`
	Authors    []string `gorm:"-" json:"authors"`
	Categories []string `gorm:"-" json:"categories"`
}

func (Book) TableName() string { return "book" }

// CleanNames trims author or category names and drops blank ones. A
// comma separated form field that was left empty arrives as [""].
func CleanNames(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned
}

// BookSummary is the index view of a book.
type BookSummary struct {
	ISBN  string `gorm:"column:isbn" json:"isbn"`
	Title string `gorm:"column:title" json:"title"`
}

type Author struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

func (Author) TableName() string { return "author" }

type Category struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

func (Category) TableName() string { return "category" }

// BookAuthor is one row of the book_author junction table.
type BookAuthor struct {
	ISBN     string `gorm:"column:isbn;primaryKey"`
	AuthorID uint   `gorm:"column:id_author;primaryKey;autoIncrement:false"`
}

func (BookAuthor) TableName() string { return "book_author" }

// BookCategory is one row of the book_category junction table.
type BookCategory struct {
	ISBN       string `gorm:"column:isbn;primaryKey"`
	CategoryID uint   `gorm:"column:id_category;primaryKey;autoIncrement:false"`
}

func (BookCategory) TableName() string { return "book_category" }

// Link pairs a junction target id with its name, used when reconciling a
// book's associations.
type Link struct {
	ID   uint   `gorm:"column:id"`
	Name string `gorm:"column:name"`
}
