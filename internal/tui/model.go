// Package tui renders the product panel as an interactive terminal page.
//
// The layout follows the web panel it replaces: a creation form on top and the
// product list below, with the product under edit shown as an inline form.
// Service calls run as tea.Cmds so the page stays responsive while they are
// outstanding; their results come back as messages.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/panel"
)

type focus int

const (
	focusForm focus = iota
	focusList
	focusEdit
)

type prompt int

const (
	promptNone prompt = iota
	promptDelete
	promptDiscard
)

var fields = []panel.Field{panel.FieldName, panel.FieldPrice, panel.FieldDescription}

// confirmed is passed to the panel once the user answered the delete prompt
var confirmed = panel.ConfirmFunc(func(string) bool { return true })

type (
	listedMsg  struct{ err error }
	createdMsg struct {
		product models.Product
		err     error
	}
	savedMsg struct {
		product models.Product
		err     error
	}
	deletedMsg struct {
		id  models.ID
		err error
	}
)

// Model is the Bubble Tea model of the product page
type Model struct {
	panel  *panel.Panel
	ctx    context.Context
	keys   keyMap
	help   help.Model
	styles Styles

	form    []textinput.Model
	formIdx int
	edit    []textinput.Model
	editIdx int

	focus  focus
	cursor int

	prompt prompt
	target models.Product

	status      string
	statusIsErr bool
	pending     int
	width       int
}

// New creates the page for p. ctx bounds the service calls the page issues.
func New(ctx context.Context, p *panel.Panel) Model {
	m := Model{
		panel:  p,
		ctx:    ctx,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: DefaultStyles(),
		form:   newInputs(),
		edit:   newInputs(),
	}
	m.syncForm()
	m.form[0].Focus()
	return m
}

func newInputs() []textinput.Model {
	placeholders := []string{"Name", "Price", "Description"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, ph := range placeholders {
		ti := textinput.New()
		ti.Placeholder = ph
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[1].CharLimit = 32
	return inputs
}

// Init loads the product list
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	p, ctx := m.panel, m.ctx
	return func() tea.Msg {
		return listedMsg{err: p.List(ctx)}
	}
}

func (m Model) createCmd(draft panel.Draft) tea.Cmd {
	p, ctx := m.panel, m.ctx
	return func() tea.Msg {
		product, err := p.Create(ctx, draft)
		return createdMsg{product: product, err: err}
	}
}

func (m Model) saveCmd() tea.Cmd {
	p, ctx := m.panel, m.ctx
	return func() tea.Msg {
		product, err := p.SaveEdit(ctx)
		return savedMsg{product: product, err: err}
	}
}

func (m Model) deleteCmd(id models.ID) tea.Cmd {
	p, ctx := m.panel, m.ctx
	return func() tea.Msg {
		return deletedMsg{id: id, err: p.Delete(ctx, id, confirmed)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case listedMsg:
		m.pending--
		m.clampCursor()
		m.report(msg.err, "")
		return m, nil

	case createdMsg:
		m.pending--
		if msg.err == nil {
			m.syncForm()
			m.report(nil, fmt.Sprintf("Added %s", msg.product.Name))
			return m, nil
		}
		m.report(msg.err, "")
		return m, nil

	case savedMsg:
		m.pending--
		if msg.err == nil {
			if _, editing := m.panel.Editing(); !editing {
				m.leaveEdit()
			}
			m.report(nil, fmt.Sprintf("Saved %s", msg.product.Name))
			return m, nil
		}
		m.report(msg.err, "")
		return m, nil

	case deletedMsg:
		m.pending--
		if _, editing := m.panel.Editing(); !editing && m.focus == focusEdit {
			m.leaveEdit()
		}
		m.clampCursor()
		m.report(msg.err, "Product deleted")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.prompt != promptNone {
		return m.handlePrompt(msg)
	}

	switch m.focus {
	case focusForm:
		return m.handleFormKey(msg)
	case focusEdit:
		return m.handleEditKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		p := m.prompt
		m.prompt = promptNone
		if p == promptDelete {
			m.pending++
			return m, m.deleteCmd(m.target.ID)
		}
		m.panel.DiscardAndEdit(m.target)
		return m.enterEdit()

	case key.Matches(msg, m.keys.No):
		m.prompt = promptNone
		m.status = ""
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.status = ""
		m.pending++
		return m, m.createCmd(m.panel.Draft())

	case key.Matches(msg, m.keys.Next):
		if m.formIdx == len(m.form)-1 {
			return m.enterList()
		}
		return m.focusForm(m.formIdx + 1)

	case key.Matches(msg, m.keys.Prev):
		if m.formIdx == 0 {
			return m.enterList()
		}
		return m.focusForm(m.formIdx - 1)
	}

	var cmd tea.Cmd
	m.form[m.formIdx], cmd = m.form[m.formIdx].Update(msg)
	m.panel.UpdateDraft(fields[m.formIdx], m.form[m.formIdx].Value())
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.panel.Products()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(products)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Reload):
		m.pending++
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Edit):
		if len(products) == 0 {
			return m, nil
		}
		target := products[m.cursor]
		if err := m.panel.BeginEdit(target); err != nil {
			if errors.Is(err, panel.ErrEditInProgress) {
				m.prompt = promptDiscard
				m.target = target
				return m, nil
			}
			m.report(err, "")
			return m, nil
		}
		return m.enterEdit()

	case key.Matches(msg, m.keys.Delete):
		if len(products) == 0 {
			return m, nil
		}
		m.prompt = promptDelete
		m.target = products[m.cursor]

	case key.Matches(msg, m.keys.Next):
		if _, editing := m.panel.Editing(); editing {
			return m.enterEdit()
		}
		return m.focusForm(0)

	case key.Matches(msg, m.keys.Prev):
		return m.focusForm(len(m.form) - 1)
	}

	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.status = ""
		m.pending++
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.Cancel):
		m.panel.CancelEdit()
		m.status = ""
		m.leaveEdit()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.edit[m.editIdx].Blur()
		m.editIdx = (m.editIdx + 1) % len(m.edit)
		return m, m.edit[m.editIdx].Focus()

	case key.Matches(msg, m.keys.Prev):
		// the buffer stays open; the list regains focus
		m.edit[m.editIdx].Blur()
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.edit[m.editIdx], cmd = m.edit[m.editIdx].Update(msg)
	if err := m.panel.UpdateEditBuffer(fields[m.editIdx], m.edit[m.editIdx].Value()); err != nil {
		m.report(err, "")
	}
	return m, cmd
}

func (m Model) focusForm(idx int) (tea.Model, tea.Cmd) {
	for i := range m.form {
		m.form[i].Blur()
	}
	m.focus = focusForm
	m.formIdx = idx
	return m, m.form[idx].Focus()
}

func (m Model) enterList() (tea.Model, tea.Cmd) {
	for i := range m.form {
		m.form[i].Blur()
	}
	m.focus = focusList
	return m, nil
}

// enterEdit loads the edit buffer into the inline form and focuses it
func (m Model) enterEdit() (tea.Model, tea.Cmd) {
	buf, ok := m.panel.Editing()
	if !ok {
		return m, nil
	}
	for i := range m.form {
		m.form[i].Blur()
	}
	for i, f := range fields {
		m.edit[i].SetValue(buf.Get(f))
		m.edit[i].Blur()
	}
	for i, p := range m.panel.Products() {
		if p.ID == buf.ID {
			m.cursor = i
			break
		}
	}
	m.focus = focusEdit
	m.editIdx = 0
	return m, m.edit[0].Focus()
}

func (m *Model) leaveEdit() {
	for i := range m.edit {
		m.edit[i].Blur()
	}
	if m.focus == focusEdit {
		m.focus = focusList
	}
}

// syncForm copies the panel draft into the creation inputs
func (m *Model) syncForm() {
	draft := m.panel.Draft()
	for i, f := range fields {
		m.form[i].SetValue(draft.Get(f))
	}
}

func (m *Model) clampCursor() {
	n := len(m.panel.Products())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) report(err error, success string) {
	if err == nil {
		m.status = success
		m.statusIsErr = false
		return
	}
	text := panel.UserMessage(err)
	if text == "" {
		return
	}
	m.status = text
	m.statusIsErr = true
}
