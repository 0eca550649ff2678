package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/demo"
)

const homeTitle = "Bibliothèque | Accueil"

type UIController struct {
	books BookLister
}

func NewUIController(books BookLister) *UIController {
	return &UIController{
		books: books,
	}
}

// HomePage handles GET /. The page lists every book; the form on it talks
// to the JSON API through static/js/home.js.
func (controller *UIController) HomePage(c *gin.Context) {
	books, err := controller.books.ListAll()
	if err != nil {
		log.Printf("Failed to load books for home page: %v", err)
		c.String(http.StatusInternalServerError, "Error loading books")
		return
	}

	demoMode, _ := c.Get(demo.ContextKeyDemoMode)
	isDemo, _ := demoMode.(bool)

	c.HTML(http.StatusOK, "home", gin.H{
		"Title":    homeTitle,
		"Styles":   []string{"/static/css/home.css"},
		"Scripts":  []string{"/static/js/home.js"},
		"Books":    books,
		"DemoMode": isDemo,
	})
}
