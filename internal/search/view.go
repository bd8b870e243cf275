package search

import (
	"github.com/mrlokans/bookfinder/internal/entities"
)

// View is a consistent copy of the orchestrator state for rendering.
type View struct {
	State      State            `json:"state"`
	Notice     Notice           `json:"notice"`
	Query      string           `json:"query"`
	Filters    entities.Filters `json:"filters"`
	Results    []entities.Book  `json:"results"`
	Page       int              `json:"page"`
	NumFound   int              `json:"numFound"`
	TotalPages int              `json:"totalPages"`
	HasPrev    bool             `json:"hasPrev"`
	HasNext    bool             `json:"hasNext"`
	Selected   *entities.Book   `json:"selected,omitempty"`
}

// Searching reports whether a search is in flight.
func (v View) Searching() bool {
	return v.State == StateSearching
}

// ShowResults reports whether the result grid is visible.
func (v View) ShowResults() bool {
	return !v.Searching() && len(v.Results) > 0
}

// ShowPagination reports whether the pager is visible.
func (v View) ShowPagination() bool {
	return !v.Searching() && v.NumFound > 0
}

// Form returns the search form as currently filled in.
func (v View) Form() Form {
	return FormFromState(v.Query, v.Filters)
}

// View returns the current state.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.viewLocked()
}

func (o *Orchestrator) viewLocked() View {
	total := TotalPages(o.numFound, o.pageSize)
	v := View{
		State:      o.state,
		Notice:     o.notice,
		Query:      o.query,
		Filters:    o.filters,
		Results:    cloneBooks(o.results),
		Page:       o.page,
		NumFound:   o.numFound,
		TotalPages: total,
		HasPrev:    o.page > 1,
		HasNext:    o.page < total,
	}
	if o.selected != nil {
		b := *o.selected
		v.Selected = &b
	}
	return v
}

// TotalPages is max(1, ceil(numFound/pageSize)).
func TotalPages(numFound, pageSize int) int {
	if pageSize < 1 || numFound <= 0 {
		return 1
	}
	return (numFound + pageSize - 1) / pageSize
}
