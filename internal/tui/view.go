package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/search"
)

var (
	accentColor = lipgloss.Color("#b5651d")
	errorColor  = lipgloss.Color("#e53935")
	mutedColor  = lipgloss.Color("#8a8f98")

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f2f2f2")).Background(lipgloss.Color("#2d3a4a")).Padding(0, 1)
	accentStyle   = lipgloss.NewStyle().Foreground(accentColor)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	selectedStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	tagStyle      = lipgloss.NewStyle().Background(lipgloss.Color("#e8ecf1")).Foreground(lipgloss.Color("#222222")).Padding(0, 1)
	helpStyle     = mutedStyle
)

func (m Model) View() string {
	var b strings.Builder

	favCount := len(m.deps.Favorites.List())
	header := "Book Finder"
	if favCount > 0 {
		header += fmt.Sprintf("  ♥ %s", humanize.Comma(int64(favCount)))
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	switch m.mode {
	case modeDetails:
		m.renderDetails(&b)
	case modeFavorites:
		m.renderFavorites(&b)
	default:
		m.renderSearch(&b)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(accentStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderSearch(b *strings.Builder) {
	b.WriteString(m.input.View())
	if f := m.view.Filters; !f.IsZero() {
		var parts []string
		if f.Author != "" {
			parts = append(parts, "author: "+f.Author)
		}
		if f.Year != "" {
			parts = append(parts, "year: "+f.Year)
		}
		if f.Language != "" {
			parts = append(parts, "language: "+f.Language)
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(strings.Join(parts, " · ")))
	}
	b.WriteString("\n\n")

	if m.searching || m.view.Searching() {
		b.WriteString(m.spinner.View() + " Searching books...\n")
		return
	}

	if n := m.view.Notice; n.Kind != search.NoticeNone {
		style := noticeStyle
		if n.IsError() {
			style = errorStyle
		}
		b.WriteString(style.Render(n.Message))
		if n.Retryable() {
			b.WriteString(mutedStyle.Render("  (r to retry)"))
		}
		b.WriteString("\n\n")
	}

	if !m.view.ShowResults() {
		return
	}

	favKeys := m.deps.Favorites.Keys()
	for i, c := range card.List(m.view.Results, favKeys, m.deps.Cover) {
		writeCard(b, c, i == m.cursor && !m.inputFocused)
	}

	if m.view.ShowPagination() {
		fmt.Fprintf(b, "\nPage %d / %d · %s books found\n",
			m.view.Page, m.view.TotalPages, humanize.Comma(int64(m.view.NumFound)))
	}
}

func writeCard(b *strings.Builder, c card.Card, selected bool) {
	cursor := "  "
	title := titleStyle.Render(c.Title)
	if selected {
		cursor = selectedStyle.Render("> ")
		title = selectedStyle.Render(c.Title)
	}
	fav := " "
	if c.Favorite {
		fav = accentStyle.Render("♥")
	}
	fmt.Fprintf(b, "%s%s %s\n", cursor, fav, title)
	fmt.Fprintf(b, "     %s\n", c.Authors)
	fmt.Fprintf(b, "     %s\n", mutedStyle.Render(c.Year+" · "+c.Languages))
}

func (m Model) renderDetails(b *strings.Builder) {
	sum := m.deps.Details.Summary(m.book)

	b.WriteString(titleStyle.Render(sum.Title))
	b.WriteString("\n\n")
	fmt.Fprintf(b, "Authors:         %s\n", sum.Authors)
	fmt.Fprintf(b, "First published: %s\n", sum.FirstPublished)
	fmt.Fprintf(b, "Editions:        %s\n", sum.Editions)
	fmt.Fprintf(b, "Languages:       %s\n", sum.Languages)
	if sum.CoverURL != "" {
		fmt.Fprintf(b, "Cover:           %s\n", mutedStyle.Render(sum.CoverURL))
	}
	if m.deps.Favorites.Contains(m.book.ID()) {
		b.WriteString(accentStyle.Render("♥ In your favorites"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.subjectsLoading:
		b.WriteString(m.spinner.View() + " Loading subjects...\n")
	case len(m.subjects) == 0:
		b.WriteString(mutedStyle.Render("No subjects available."))
		b.WriteString("\n")
	default:
		tags := make([]string, 0, len(m.subjects))
		for _, s := range m.subjects {
			tags = append(tags, tagStyle.Render(s))
		}
		b.WriteString("Subjects:\n")
		b.WriteString(lipgloss.NewStyle().Width(max(m.width, 40)).Render(strings.Join(tags, " ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(sum.PageURL))
	b.WriteString("\n")
}

func (m Model) renderFavorites(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Your favorites"))
	b.WriteString("\n")
	if m.deps.Settings != nil {
		if at, ok := m.deps.Settings.LastVisited(); ok {
			b.WriteString(mutedStyle.Render("Last opened a book page " + humanize.Time(at) + "."))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	favs := m.deps.Favorites.List()
	if len(favs) == 0 {
		b.WriteString(mutedStyle.Render("No favorites yet. Search for books and add some."))
		b.WriteString("\n")
		return
	}
	for i, f := range favs {
		writeCard(b, card.New(f.Book(), true, m.deps.Cover), i == m.favCursor)
	}
}

func (m Model) help() string {
	switch m.mode {
	case modeDetails:
		return "f favorite · o open on OpenLibrary · esc back · q quit"
	case modeFavorites:
		return "↑/↓ move · enter details · x remove · esc back · q quit"
	}
	if m.inputFocused {
		return "enter search · tab results · ctrl+c quit"
	}
	return "↑/↓ move · enter details · f favorite · n/p page · r retry · c clear · v favorites · / search · q quit"
}
