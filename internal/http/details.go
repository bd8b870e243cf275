package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/details"
	"github.com/mrlokans/bookfinder/internal/entities"
)

// DetailsController serves the expanded view of one book.
type DetailsController struct {
	pages   *pageContext
	details *details.Service
	logger  *zap.Logger
}

func NewDetailsController(pages *pageContext, svc *details.Service, logger *zap.Logger) *DetailsController {
	return &DetailsController{pages: pages, details: svc, logger: logger}
}

// Show renders the details page. Opening a book from the search results
// saves the search so that closing the details restores it.
// GET /books/details?key=...&from=search|favorites
func (dc *DetailsController) Show(c *gin.Context) {
	key := c.Query("key")
	from := c.DefaultQuery("from", fromSearch)

	var (
		book entities.Book
		ok   bool
	)
	if from == fromSearch {
		var err error
		book, ok, err = dc.pages.orchestrator(c).OpenDetails(c.Request.Context(), key)
		if err != nil {
			dc.logger.Warn("Failed to save search state", zap.Error(err))
		}
	}
	if !ok {
		book, ok = dc.pages.findBook(c, key, from)
	}
	if !ok {
		c.HTML(http.StatusNotFound, "not-found", dc.pages.page(c, "Not found", gin.H{
			"Message": "This book is no longer in your results or favorites.",
		}))
		return
	}

	summary := dc.details.Summary(book)
	c.HTML(http.StatusOK, "details", dc.pages.page(c, summary.Title, gin.H{
		"Summary": summary,
		"Card":    card.New(book, dc.pages.favorites.Contains(book.ID()), dc.pages.cover),
		"From":    from,
	}))
}

// Subjects renders the subjects fragment, fetched after the page loads.
// GET /books/subjects?key=...&from=...
func (dc *DetailsController) Subjects(c *gin.Context) {
	book, ok := dc.pages.findBook(c, c.Query("key"), c.Query("from"))
	if !ok {
		c.HTML(http.StatusOK, "subjects", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "subjects", gin.H{
		"Subjects": dc.details.Subjects(c.Request.Context(), book),
	})
}

// Close leaves the details page. Coming from search, the saved results are
// put back first.
// POST /books/close?from=...
func (dc *DetailsController) Close(c *gin.Context) {
	from := c.Query("from")
	if from != fromFavorites {
		dc.pages.orchestrator(c).CloseDetails(c.Request.Context())
	}
	redirectAfterPost(c, safeReturnPath(from))
}

// Open sends the browser to the book's OpenLibrary page.
// POST /books/open?key=...&from=...
func (dc *DetailsController) Open(c *gin.Context) {
	book, ok := dc.pages.findBook(c, c.Query("key"), c.Query("from"))
	if !ok {
		c.HTML(http.StatusNotFound, "not-found", dc.pages.page(c, "Not found", gin.H{
			"Message": "This book is no longer in your results or favorites.",
		}))
		return
	}

	target, err := dc.details.Open(c.Request.Context(), book)
	if err != nil {
		dc.logger.Warn("Failed to record visit", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, target)
}
