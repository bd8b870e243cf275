package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookfinder/internal/search"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		// a superseded search reports the state left by the newer one
		m.view = msg.view
		m.searching = msg.view.Searching()
		m.cursor = clamp(m.cursor, len(m.view.Results))
		return m, nil

	case subjectsMsg:
		if msg.key == m.book.ID() {
			m.subjects = msg.subjects
			m.subjectsLoading = false
		}
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.status = "Opened " + msg.url + " (visit not recorded)"
		} else {
			m.status = "Opened " + msg.url
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeDetails:
			return m.updateDetails(msg)
		case modeFavorites:
			return m.updateFavorites(msg)
		}
		if m.inputFocused {
			return m.updateInput(msg)
		}
		return m.updateResults(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		form := m.view.Form()
		form.Query = m.input.Value()
		m.cursor = 0
		m.inputFocused = false
		m.input.Blur()
		cmd := m.runSearch(func(ctx context.Context) search.View {
			return m.deps.Orchestrator.Submit(ctx, form)
		})
		return m, cmd
	case tea.KeyTab, tea.KeyEsc:
		m.inputFocused = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	orch := m.deps.Orchestrator

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/", "tab":
		m.inputFocused = true
		cmd := m.input.Focus()
		return m, cmd
	case "up", "k":
		m.cursor = clamp(m.cursor-1, len(m.view.Results))
	case "down", "j":
		m.cursor = clamp(m.cursor+1, len(m.view.Results))
	case "n", "right":
		if m.view.HasNext && !m.searching {
			m.cursor = 0
			cmd := m.runSearch(orch.NextPage)
			return m, cmd
		}
	case "p", "left":
		if m.view.HasPrev && !m.searching {
			m.cursor = 0
			cmd := m.runSearch(orch.PrevPage)
			return m, cmd
		}
	case "r":
		if m.view.Notice.Retryable() && !m.searching {
			cmd := m.runSearch(orch.Retry)
			return m, cmd
		}
	case "c":
		m.view = orch.Clear()
		m.input.SetValue("")
		m.status = ""
	case "f":
		if book, ok := m.selectedResult(); ok {
			m.toggleFavorite(book)
		}
	case "v":
		m.mode = modeFavorites
		m.favCursor = 0
		m.status = ""
	case "enter":
		book, ok := m.selectedResult()
		if !ok || m.searching {
			return m, nil
		}
		selected, found, err := orch.OpenDetails(m.ctx, book.ID())
		if !found {
			return m, nil
		}
		if err != nil {
			m.status = "Search state not saved: " + err.Error()
		}
		m.mode = modeDetails
		m.book = selected
		m.fromFavorites = false
		cmd := m.loadSubjects(selected)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace", "b":
		if m.fromFavorites {
			m.mode = modeFavorites
		} else {
			m.view = m.deps.Orchestrator.CloseDetails(m.ctx)
			m.cursor = clamp(m.cursor, len(m.view.Results))
			m.input.SetValue(m.view.Query)
			m.mode = modeSearch
		}
		m.status = ""
	case "f":
		m.toggleFavorite(m.book)
	case "o":
		return m, m.openPage(m.book)
	}
	return m, nil
}

func (m Model) updateFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.deps.Favorites.List())

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "v", "backspace":
		m.mode = modeSearch
		m.status = ""
	case "up", "k":
		m.favCursor = clamp(m.favCursor-1, count)
	case "down", "j":
		m.favCursor = clamp(m.favCursor+1, count)
	case "f", "x":
		if fav, ok := m.selectedFavorite(); ok {
			m.toggleFavorite(fav.Book())
			m.favCursor = clamp(m.favCursor, count-1)
		}
	case "enter":
		fav, ok := m.selectedFavorite()
		if !ok {
			return m, nil
		}
		m.mode = modeDetails
		m.book = fav.Book()
		m.fromFavorites = true
		cmd := m.loadSubjects(m.book)
		return m, cmd
	}
	return m, nil
}
