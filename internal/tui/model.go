// Package tui is a terminal front-end over the search orchestrator and the
// favorites store.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/details"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/settingsstore"
)

type mode int

const (
	modeSearch mode = iota
	modeDetails
	modeFavorites
)

// Deps are the services the UI drives. Settings may be nil.
type Deps struct {
	Orchestrator *search.Orchestrator
	Favorites    *favorites.Store
	Settings     *settingsstore.SettingsStore
	Details      *details.Service
	Cover        card.CoverFunc
}

type searchDoneMsg struct {
	view search.View
}

type subjectsMsg struct {
	key      string
	subjects []string
}

type openedMsg struct {
	url string
	err error
}

// Model is the bubbletea model of the whole UI.
type Model struct {
	ctx  context.Context
	deps Deps

	input   textinput.Model
	spinner spinner.Model

	mode         mode
	inputFocused bool
	searching    bool

	view   search.View
	cursor int

	favCursor int

	// details
	book            entities.Book
	fromFavorites   bool
	subjects        []string
	subjectsLoading bool

	status string
	width  int
	height int
}

// New creates the model. The orchestrator's current state is shown as is.
func New(ctx context.Context, deps Deps) Model {
	in := textinput.New()
	in.Placeholder = "Search by title, author, ISBN or keywords"
	in.CharLimit = 200
	in.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	view := deps.Orchestrator.View()
	in.SetValue(view.Query)
	in.Focus()

	return Model{
		ctx:          ctx,
		deps:         deps,
		input:        in,
		spinner:      sp,
		inputFocused: true,
		view:         view,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// runSearch runs fn off the update loop and reports the resulting view.
func (m *Model) runSearch(fn func(ctx context.Context) search.View) tea.Cmd {
	m.searching = true
	m.status = ""
	ctx := m.ctx
	return func() tea.Msg {
		return searchDoneMsg{view: fn(ctx)}
	}
}

func (m *Model) loadSubjects(book entities.Book) tea.Cmd {
	m.subjects = nil
	m.subjectsLoading = true
	ctx, svc := m.ctx, m.deps.Details
	return func() tea.Msg {
		return subjectsMsg{key: book.ID(), subjects: svc.Subjects(ctx, book)}
	}
}

func (m *Model) openPage(book entities.Book) tea.Cmd {
	ctx, svc := m.ctx, m.deps.Details
	return func() tea.Msg {
		url, err := svc.Open(ctx, book)
		return openedMsg{url: url, err: err}
	}
}

func (m Model) selectedResult() (entities.Book, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Results) {
		return entities.Book{}, false
	}
	return m.view.Results[m.cursor], true
}

func (m Model) selectedFavorite() (entities.Favorite, bool) {
	favs := m.deps.Favorites.List()
	if m.favCursor < 0 || m.favCursor >= len(favs) {
		return entities.Favorite{}, false
	}
	return favs[m.favCursor], true
}

func (m *Model) toggleFavorite(book entities.Book) {
	added, err := m.deps.Favorites.Toggle(book)
	switch {
	case err != nil:
		m.status = "Failed to update favorites: " + err.Error()
	case added:
		m.status = "Added to favorites"
	default:
		m.status = "Removed from favorites"
	}
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
