package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/panel"
)

const (
	pageTitle    = "Product CRUD App"
	formHeading  = "Create New Product"
	listHeading  = "Products"
	emptyList    = "No products found."
	discardAsk   = "Discard unsaved changes and edit this product?"
	dividerWidth = 48
)

var labels = []string{"Name", "Price", "Description"}

// View renders the page
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(pageTitle))
	b.WriteString("\n")

	b.WriteString(m.styles.Heading.Render(formHeading))
	b.WriteString("\n")
	b.WriteString(m.renderInputs(m.form, m.focus == focusForm, m.formIdx))
	b.WriteString(m.styles.Muted.Render("[ Add Product ]"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Divider.Render(strings.Repeat("─", m.dividerWidth())))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Heading.Render(listHeading))
	if m.pending > 0 {
		b.WriteString(m.styles.Muted.Render("  working..."))
	}
	b.WriteString("\n")
	b.WriteString(m.renderList())

	if line := m.statusLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.bindings(m.focus, m.prompt != promptNone)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderInputs(inputs []textinput.Model, active bool, idx int) string {
	var b strings.Builder
	for i := range inputs {
		label := m.styles.Label.Render(labels[i])
		if active && i == idx {
			label = m.styles.Selected.Width(13).Render(labels[i])
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, inputs[i].View()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderList() string {
	products := m.panel.Products()
	if len(products) == 0 {
		return m.styles.Muted.Render(emptyList) + "\n"
	}

	buf, editing := m.panel.Editing()
	var b strings.Builder
	for i, p := range products {
		if editing && buf.ID == p.ID {
			b.WriteString(m.renderEditRow(i == m.cursor))
			continue
		}
		b.WriteString(m.renderRow(p, i == m.cursor))
	}
	return b.String()
}

func (m Model) renderRow(p models.Product, selected bool) string {
	marker := "  "
	name := m.styles.Name.Render(p.Name)
	if selected && m.focus == focusList {
		marker = m.styles.Selected.Render("> ")
		name = m.styles.Selected.Render(p.Name)
	}

	line := fmt.Sprintf("%s%s - $%s", marker, name, panel.FormatPrice(p.Price))
	if p.Description != "" {
		line += "\n" + m.styles.Row.Render(m.styles.Muted.Render(p.Description))
	}
	return line + "\n"
}

func (m Model) renderEditRow(selected bool) string {
	inputs := m.renderInputs(m.edit, m.focus == focusEdit, m.editIdx)
	actions := m.styles.Muted.Render("[ Save ]  [ Cancel ]")
	body := strings.TrimRight(inputs, "\n") + "\n" + actions
	marker := "  "
	if selected && m.focus == focusList {
		marker = m.styles.Selected.Render("> ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, marker, m.styles.EditRow.Render(body)) + "\n"
}

func (m Model) statusLine() string {
	switch m.prompt {
	case promptDelete:
		return m.styles.Prompt.Render(fmt.Sprintf("%s (%s) [y/n]", panel.ConfirmPrompt, m.target.Name))
	case promptDiscard:
		return m.styles.Prompt.Render(discardAsk + " [y/n]")
	}
	if m.status == "" {
		return ""
	}
	if m.statusIsErr {
		return m.styles.Error.Render(m.status)
	}
	return m.styles.Success.Render(m.status)
}

func (m Model) dividerWidth() int {
	if m.width > 0 && m.width < dividerWidth {
		return m.width
	}
	return dividerWidth
}
