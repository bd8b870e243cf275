package http

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/session"
	"github.com/mrlokans/bookfinder/internal/views"
)

// pageContext resolves the per-session view and fills the data every
// full page needs.
type pageContext struct {
	views     *views.Registry
	sessions  *session.Manager
	favorites *favorites.Store
	cover     card.CoverFunc
}

// orchestrator returns the search view of the request's session. A view
// created for a known session is restored from its saved snapshot.
func (p *pageContext) orchestrator(c *gin.Context) *search.Orchestrator {
	ctx := c.Request.Context()
	id, _ := p.sessions.ViewID(ctx)
	o, created := p.views.Get(id)
	if created {
		o.Restore(ctx)
	}
	return o
}

// page builds template data shared by all full pages.
func (p *pageContext) page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["CSRF"] = session.CSRFField(c)
	data["CSRFToken"] = session.CSRFToken(c)
	data["FavoritesCount"] = len(p.favorites.List())
	data["Analytics"] = analyticsTemplateData(c)
	if msg := c.Query("error"); msg != "" {
		data["Error"] = msg
	}
	return data
}

// findBook looks a book up by id among the open details, the current
// results and, failing that, the favorites.
func (p *pageContext) findBook(c *gin.Context, id, from string) (entities.Book, bool) {
	if from != fromFavorites {
		v := p.orchestrator(c).View()
		if v.Selected != nil && v.Selected.ID() == id {
			return *v.Selected, true
		}
		for _, b := range v.Results {
			if b.ID() == id {
				return b, true
			}
		}
	}
	if fav, ok := p.favorites.Get(id); ok {
		return fav.Book(), true
	}
	return entities.Book{}, false
}

// backTo returns the referring page when it is on this host.
func backTo(c *gin.Context, fallback string) string {
	ref, err := url.Parse(c.Request.Referer())
	if err != nil || ref.Host != c.Request.Host || ref.Path == "" {
		return fallback
	}
	return ref.RequestURI()
}
