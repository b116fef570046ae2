package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"notesvc/internal/notes"
)

const (
	fieldTitle = iota
	fieldCategory
	fieldPriority
	fieldDescription
	fieldCount
)

// formSubmitMsg is sent when the form is confirmed with valid input.
type formSubmitMsg struct {
	id     int64 // 0 when creating
	fields notes.Fields
}

// formCancelMsg is sent when the form is dismissed without saving.
type formCancelMsg struct{}

// formModel is the create/edit form. The same form serves both modes;
// editing is signalled by a non-zero note ID.
type formModel struct {
	id          int64
	title       textinput.Model
	description textinput.Model
	categoryIdx int
	priorityIdx int
	focus       int
	errors      []string
}

func newCreateForm() *formModel {
	f := newForm()
	return f
}

func newEditForm(n notes.Note) *formModel {
	f := newForm()
	f.id = n.ID
	f.title.SetValue(n.Title)
	f.description.SetValue(n.Description)
	for i, c := range notes.Categories() {
		if c == n.Category {
			f.categoryIdx = i
		}
	}
	for i, p := range notes.Priorities() {
		if p == n.Priority {
			f.priorityIdx = i
		}
	}
	return f
}

func newForm() *formModel {
	title := textinput.New()
	title.Placeholder = "Note title"
	title.CharLimit = 256
	title.Focus()

	description := textinput.New()
	description.Placeholder = "What is this note about?"
	description.CharLimit = 1024

	return &formModel{
		title:       title,
		description: description,
		// medium is the middle entry, a sensible starting point
		priorityIdx: 1,
	}
}

func (f *formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (f *formModel) Update(msg tea.Msg) (*formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return formCancelMsg{} }

		case "enter", "tab", "down":
			if msg.String() == "enter" && f.focus == fieldDescription {
				return f, f.submit()
			}
			f.setFocus((f.focus + 1) % fieldCount)
			return f, nil

		case "shift+tab", "up":
			f.setFocus((f.focus + fieldCount - 1) % fieldCount)
			return f, nil

		case "ctrl+s":
			return f, f.submit()

		case "left", "right":
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			switch f.focus {
			case fieldCategory:
				n := len(notes.Categories())
				f.categoryIdx = (f.categoryIdx + delta + n) % n
				return f, nil
			case fieldPriority:
				n := len(notes.Priorities())
				f.priorityIdx = (f.priorityIdx + delta + n) % n
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	}
	return f, cmd
}

func (f *formModel) setFocus(idx int) {
	f.focus = idx
	f.title.Blur()
	f.description.Blur()
	switch idx {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	}
}

// submit validates locally with the same rules the server applies, so
// the user sees the rule messages before a round trip.
func (f *formModel) submit() tea.Cmd {
	in := notes.Input{
		Title:       f.title.Value(),
		Category:    string(notes.Categories()[f.categoryIdx]),
		Priority:    string(notes.Priorities()[f.priorityIdx]),
		Description: f.description.Value(),
	}
	if errs := in.Validate(); len(errs) > 0 {
		f.errors = errs
		return nil
	}
	f.errors = nil
	msg := formSubmitMsg{id: f.id, fields: in.Fields()}
	return func() tea.Msg { return msg }
}

func (f *formModel) View() string {
	var b strings.Builder

	heading := "New Note"
	if f.id != 0 {
		heading = fmt.Sprintf("Edit Note #%d", f.id)
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	b.WriteString(f.labelFor(fieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")

	b.WriteString(f.labelFor(fieldCategory, "Category"))
	b.WriteString("\n")
	b.WriteString(renderChoices(categoryLabels(), f.categoryIdx, f.focus == fieldCategory))
	b.WriteString("\n\n")

	b.WriteString(f.labelFor(fieldPriority, "Priority"))
	b.WriteString("\n")
	b.WriteString(renderChoices(priorityLabels(), f.priorityIdx, f.focus == fieldPriority))
	b.WriteString("\n\n")

	b.WriteString(f.labelFor(fieldDescription, "Description"))
	b.WriteString("\n")
	b.WriteString(f.description.View())
	b.WriteString("\n")

	if len(f.errors) > 0 {
		b.WriteString("\n")
		for _, e := range f.errors {
			b.WriteString(formErrorStyle.Render("• " + e))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/↑↓: field • ←/→: choose • enter/ctrl+s: save • esc: cancel"))

	return formBoxStyle.Render(b.String())
}

func (f *formModel) labelFor(idx int, label string) string {
	if f.focus == idx {
		return formFocusedStyle.Render("▸ " + label)
	}
	return formLabelStyle.Render("  " + label)
}

func renderChoices(choices []string, selected int, focused bool) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		switch {
		case i == selected && focused:
			parts[i] = selectedStyle.Render("[" + c + "]")
		case i == selected:
			parts[i] = "[" + c + "]"
		default:
			parts[i] = helpStyle.Render(" " + c + " ")
		}
	}
	return "  " + strings.Join(parts, " ")
}

// Display labels for the closed sets, indexed in step with
// notes.Categories() and notes.Priorities().
func categoryLabels() []string {
	return []string{"Work", "Personal", "Ideas"}
}

func priorityLabels() []string {
	return []string{"High", "Medium", "Low"}
}
