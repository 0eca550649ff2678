package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

// PageCount accepts a JSON number or a numeric string. The home page form
// posts input values as strings.
type PageCount int

func (p *PageCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
		if len(data) == 0 {
			*p = 0
			return nil
		}
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("page count must be an integer, got %s", data)
	}
	*p = PageCount(n)
	return nil
}

// BookPayload is the book shape accepted by POST and PUT /api/book.
type BookPayload struct {
	ISBN       string    `json:"isbn" binding:"required"`
	Title      string    `json:"title"`
	NbPages    PageCount `json:"nbPages" binding:"gte=0"`
	Summary    string    `json:"summary"`
	Authors    []string  `json:"authors"`
	Categories []string  `json:"categories"`
}

func (p *BookPayload) toEntity() *entities.Book {
	return &entities.Book{
		ISBN:       p.ISBN,
		Title:      p.Title,
		NbPages:    int(p.NbPages),
		Summary:    p.Summary,
		Authors:    entities.CleanNames(p.Authors),
		Categories: entities.CleanNames(p.Categories),
	}
}

type ModifyBookRequest struct {
	ISBN string       `json:"isbn" binding:"required"`
	Book *BookPayload `json:"book" binding:"required"`
}

type DeleteBookRequest struct {
	ISBN string `json:"isbn" binding:"required"`
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{
		store: store,
	}
}

// ListBooks handles GET /api/books
func (controller *BooksController) ListBooks(c *gin.Context) {
	books, err := controller.store.ListAll()
	if err != nil {
		respondStoreError(c, err, "books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook handles GET /api/book?isbn=X
func (controller *BooksController) GetBook(c *gin.Context) {
	isbn := c.Query("isbn")
	if isbn == "" {
		respondBadRequest(c, "isbn query parameter is required", nil)
		return
	}

	book, err := controller.store.GetByISBN(isbn)
	if err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook handles POST /api/book
func (controller *BooksController) CreateBook(c *gin.Context) {
	var req BookPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := controller.store.Create(req.toEntity()); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.Status(http.StatusCreated)
}

// ModifyBook handles PUT /api/book. The body names the stored book and its
// replacement, which may carry a different isbn.
func (controller *BooksController) ModifyBook(c *gin.Context) {
	var req ModifyBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := controller.store.Modify(req.ISBN, req.Book.toEntity()); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.Status(http.StatusOK)
}

// DeleteBook handles DELETE /api/book
func (controller *BooksController) DeleteBook(c *gin.Context) {
	var req DeleteBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := controller.store.Delete(req.ISBN); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.Status(http.StatusOK)
}
