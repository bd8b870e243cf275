package http

import (
	"bytes"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/exporters"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/session"
	"github.com/mrlokans/bookfinder/internal/settingsstore"
)

// FavoritesController handles the favorites page and toggling.
type FavoritesController struct {
	pages    *pageContext
	settings *settingsstore.SettingsStore
	urls     openlibrary.URLs
	logger   *zap.Logger
}

func NewFavoritesController(pages *pageContext, settings *settingsstore.SettingsStore, urls openlibrary.URLs, logger *zap.Logger) *FavoritesController {
	return &FavoritesController{pages: pages, settings: settings, urls: urls, logger: logger}
}

// Page renders all favorites, newest first.
// GET /favorites
func (fc *FavoritesController) Page(c *gin.Context) {
	favs := fc.pages.favorites.List()
	cards := make([]card.Card, 0, len(favs))
	for _, f := range favs {
		cards = append(cards, card.New(f.Book(), true, fc.pages.cover))
	}

	data := gin.H{"Cards": cards}
	if fc.settings != nil {
		if at, ok := fc.settings.LastVisited(); ok {
			data["LastVisited"] = humanize.Time(at)
		}
	}
	c.HTML(http.StatusOK, "favorites", fc.pages.page(c, "Favorites", data))
}

// Toggle adds or removes the book with the posted key.
// POST /favorites/toggle
func (fc *FavoritesController) Toggle(c *gin.Context) {
	key := c.PostForm("key")
	from := c.PostForm("from")

	book, ok := fc.pages.findBook(c, key, from)
	if !ok {
		c.String(http.StatusNotFound, "Book not found")
		return
	}

	added, err := fc.pages.favorites.Toggle(book)
	if err != nil {
		fc.logger.Error("Failed to toggle favorite", zap.String("key", key), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to update favorites")
		return
	}

	if isHTMXRequest(c) {
		if from == fromFavorites && !added {
			// the card is gone from the list
			c.Header("HX-Refresh", "true")
		}
		c.HTML(http.StatusOK, "favorite-button", gin.H{
			"Card": card.New(book, added, fc.pages.cover),
			"From": from,
			"CSRF": session.CSRFField(c),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c, safeReturnPath(from)))
}

// Export downloads the favorites as YAML, JSON or a Markdown reading list.
// GET /favorites/export?format=yaml
func (fc *FavoritesController) Export(c *gin.Context) {
	format, err := exporters.ParseFormat(c.Query("format"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := exporters.Encode(&buf, format, fc.pages.favorites.List(), fc.urls); err != nil {
		respondInternalError(c, fc.logger, err, "export favorites")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="favorites`+format.Extension()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ToggleRequest is the body of POST /api/favorites/toggle. Book is needed to
// add a book that is not in the caller's current results.
type ToggleRequest struct {
	Key  string         `json:"key"`
	Book *entities.Book `json:"book"`
}

// ListAPI returns the stored favorites.
// GET /api/favorites
func (fc *FavoritesController) ListAPI(c *gin.Context) {
	favs := fc.pages.favorites.List()
	c.JSON(http.StatusOK, gin.H{
		"favorites": favs,
		"count":     len(favs),
	})
}

// ToggleAPI adds or removes a favorite.
// POST /api/favorites/toggle
func (fc *FavoritesController) ToggleAPI(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	var book entities.Book
	switch {
	case req.Book != nil:
		book = *req.Book
	case req.Key != "":
		found, ok := fc.pages.findBook(c, req.Key, "")
		if !ok {
			respondNotFound(c, "Book")
			return
		}
		book = found
	default:
		respondBadRequest(c, "key or book is required")
		return
	}

	added, err := fc.pages.favorites.Toggle(book)
	if err != nil {
		respondInternalError(c, fc.logger, err, "toggle favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":      book.ID(),
		"favorite": added,
	})
}
