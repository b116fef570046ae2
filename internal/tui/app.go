// Package tui is the terminal client for the notes service. It holds a
// three-mode switch (list, create, edit) with no history stack: leaving
// the form always lands back on the list and refetches it.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"notesvc/internal/client"
	"notesvc/internal/notes"
)

const requestTimeout = 10 * time.Second

type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
)

// Messages produced by API commands.
type notesLoadedMsg struct {
	notes []notes.Note
}

type noteSavedMsg struct {
	note    notes.Note
	created bool
}

type noteDeletedMsg struct {
	note notes.Note
}

type apiErrMsg struct {
	err error
}

// AppModel is the root bubbletea model.
type AppModel struct {
	api  *client.Client
	mode mode

	notes  []notes.Note
	cursor int

	form *formModel

	confirmingDelete bool

	status    string
	statusErr bool
	loading   bool

	width  int
	height int
}

func NewAppModel(api *client.Client) *AppModel {
	return &AppModel{api: api, loading: true}
}

func (m *AppModel) Init() tea.Cmd {
	return m.fetchNotes()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case notesLoadedMsg:
		m.loading = false
		m.notes = msg.notes
		if m.cursor >= len(m.notes) {
			m.cursor = max(0, len(m.notes)-1)
		}
		return m, nil

	case noteSavedMsg:
		m.mode = modeList
		m.form = nil
		if msg.created {
			m.setStatus(fmt.Sprintf("Created note #%d", msg.note.ID), false)
		} else {
			m.setStatus(fmt.Sprintf("Updated note #%d", msg.note.ID), false)
		}
		return m, m.fetchNotes()

	case noteDeletedMsg:
		m.setStatus(fmt.Sprintf("Deleted note #%d", msg.note.ID), false)
		return m, m.fetchNotes()

	case apiErrMsg:
		m.loading = false
		m.setStatus(msg.err.Error(), true)
		return m, nil

	case formSubmitMsg:
		if msg.id == 0 {
			return m, m.createNote(msg.fields)
		}
		return m, m.updateNote(msg.id, msg.fields)

	case formCancelMsg:
		m.mode = modeList
		m.form = nil
		return m, m.fetchNotes()

	case tea.KeyMsg:
		if m.mode == modeList {
			return m.updateList(msg)
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	if m.form != nil {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmingDelete {
		switch msg.String() {
		case "y", "Y":
			m.confirmingDelete = false
			return m, m.deleteNote(m.notes[m.cursor].ID)
		default:
			m.confirmingDelete = false
			m.setStatus("", false)
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}

	case "g":
		m.cursor = 0

	case "G":
		m.cursor = max(0, len(m.notes)-1)

	case "n":
		m.mode = modeCreate
		m.form = newCreateForm()
		return m, m.form.Init()

	case "e", "enter":
		if len(m.notes) > 0 {
			m.mode = modeEdit
			m.form = newEditForm(m.notes[m.cursor])
			return m, m.form.Init()
		}

	case "d":
		if len(m.notes) > 0 {
			m.confirmingDelete = true
			m.setStatus(fmt.Sprintf("Delete note #%d? (y/n)", m.notes[m.cursor].ID), false)
		}

	case "r":
		m.loading = true
		return m, m.fetchNotes()
	}
	return m, nil
}

func (m *AppModel) View() string {
	if m.mode != modeList && m.form != nil {
		return m.form.View() + "\n" + m.statusBar()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Notes"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(helpStyle.Render("loading..."))
		b.WriteString("\n")
	case len(m.notes) == 0:
		b.WriteString(helpStyle.Render("No notes yet. Press n to create one."))
		b.WriteString("\n")
	default:
		for i, n := range m.notes {
			b.WriteString(m.renderNote(i, n))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n: new • e/enter: edit • d: delete • r: refresh • q: quit"))
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m *AppModel) renderNote(i int, n notes.Note) string {
	cursor := "  "
	title := n.Title
	if i == m.cursor {
		cursor = cursorStyle.Render("▸ ")
		title = selectedStyle.Render(title)
	}
	meta := fmt.Sprintf("%s · %s · %s",
		categoryStyle.Render(string(n.Category)),
		priorityStyle(string(n.Priority)).Render(string(n.Priority)),
		helpStyle.Render(n.CreatedAt.Local().Format("Jan 2 15:04")),
	)
	line := fmt.Sprintf("%s%s  %s\n", cursor, title, meta)
	if i == m.cursor {
		line += "    " + descriptionStyle.Render(truncate(n.Description, 80)) + "\n"
	}
	return line
}

func (m *AppModel) statusBar() string {
	s := m.status
	if s == "" {
		s = fmt.Sprintf("%d notes", len(m.notes))
	}
	if m.statusErr {
		s = statusErrorStyle.Render(s)
	} else if m.status != "" {
		s = statusOKStyle.Render(s)
	}
	return statusBarStyle.Width(max(m.width, 20)).Render(s)
}

func (m *AppModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *AppModel) fetchNotes() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ns, err := m.api.List(ctx)
		if err != nil {
			return apiErrMsg{err}
		}
		return notesLoadedMsg{notes: ns}
	}
}

func (m *AppModel) createNote(fields notes.Fields) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		n, err := m.api.Create(ctx, fields)
		if err != nil {
			return apiErrMsg{err}
		}
		return noteSavedMsg{note: *n, created: true}
	}
}

func (m *AppModel) updateNote(id int64, fields notes.Fields) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		n, err := m.api.Update(ctx, id, fields)
		if err != nil {
			return apiErrMsg{err}
		}
		return noteSavedMsg{note: *n}
	}
}

func (m *AppModel) deleteNote(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		n, err := m.api.Delete(ctx, id)
		if err != nil {
			return apiErrMsg{err}
		}
		return noteDeletedMsg{note: *n}
	}
}

// truncate shortens s to at most n runes, never splitting a multibyte
// character, with a trailing ellipsis when anything was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
