package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/search"
)

// SearchController serves the home view.
type SearchController struct {
	pages *pageContext
}

func NewSearchController(pages *pageContext) *SearchController {
	return &SearchController{pages: pages}
}

// Home renders the search page. A q parameter runs that search first, so
// searches can be linked to.
// GET /
func (sc *SearchController) Home(c *gin.Context) {
	o := sc.pages.orchestrator(c)

	if q, ok := c.GetQuery("q"); ok {
		form := search.Form{
			Query:    q,
			Author:   c.Query("author"),
			Year:     c.Query("year"),
			Language: c.Query("language"),
		}
		if err := form.Validate(); err != nil {
			sc.render(c, http.StatusBadRequest, o.View(), err.Error())
			return
		}
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		o.SetForm(form)
		sc.render(c, http.StatusOK, o.Search(c.Request.Context(), page, false), "")
		return
	}

	sc.render(c, http.StatusOK, o.View(), "")
}

// Submit runs a new first-page search from the form.
// POST /search
func (sc *SearchController) Submit(c *gin.Context) {
	var form search.Form
	if err := c.ShouldBind(&form); err != nil {
		sc.render(c, http.StatusBadRequest, sc.pages.orchestrator(c).View(), "Invalid search form")
		return
	}
	if err := form.Validate(); err != nil {
		sc.render(c, http.StatusBadRequest, sc.pages.orchestrator(c).View(), err.Error())
		return
	}

	v := sc.pages.orchestrator(c).Submit(c.Request.Context(), form)
	sc.respond(c, v)
}

// Filters applies changed filters; a non-blank query searches again.
// POST /search/filters
func (sc *SearchController) Filters(c *gin.Context) {
	var form search.Form
	if err := c.ShouldBind(&form); err != nil {
		sc.render(c, http.StatusBadRequest, sc.pages.orchestrator(c).View(), "Invalid search form")
		return
	}
	if err := form.Validate(); err != nil {
		sc.render(c, http.StatusBadRequest, sc.pages.orchestrator(c).View(), err.Error())
		return
	}

	o := sc.pages.orchestrator(c)
	o.SetQuery(form.Query)
	sc.respond(c, o.SetFilters(c.Request.Context(), form.Filters()))
}

// Clear empties the form without searching.
// POST /search/clear
func (sc *SearchController) Clear(c *gin.Context) {
	sc.pages.orchestrator(c).Clear()
	redirectAfterPost(c, "/")
}

// Retry re-runs the failed or empty search.
// POST /search/retry
func (sc *SearchController) Retry(c *gin.Context) {
	sc.respond(c, sc.pages.orchestrator(c).Retry(c.Request.Context()))
}

// Page moves to the next or previous page.
// POST /search/page/:dir
func (sc *SearchController) Page(c *gin.Context) {
	o := sc.pages.orchestrator(c)

	var v search.View
	switch c.Param("dir") {
	case "next":
		v = o.NextPage(c.Request.Context())
	case "prev":
		v = o.PrevPage(c.Request.Context())
	default:
		c.String(http.StatusBadRequest, "Invalid page direction")
		return
	}
	sc.respond(c, v)
}

// respond renders the results fragment for HTMX and redirects home otherwise.
func (sc *SearchController) respond(c *gin.Context, v search.View) {
	if isHTMXRequest(c) {
		sc.render(c, http.StatusOK, v, "")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (sc *SearchController) render(c *gin.Context, status int, v search.View, errMsg string) {
	data := sc.pages.page(c, "", gin.H{
		"View":      v,
		"Cards":     card.List(v.Results, sc.pages.favorites.Keys(), sc.pages.cover),
		"Form":      v.Form(),
		"Languages": search.Languages,
	})
	if errMsg != "" {
		data["Error"] = errMsg
	}

	if isHTMXRequest(c) {
		c.HTML(status, "results", data)
		return
	}
	c.HTML(status, "home", data)
}
