package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Next      key.Binding
	Prev      key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Up        key.Binding
	Down      key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Reload    key.Binding
	Yes       key.Binding
	No        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "back")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Yes:       key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:        key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

// bindings returns the help entries for the current focus
func (k keyMap) bindings(f focus, prompting bool) []key.Binding {
	if prompting {
		return []key.Binding{k.Yes, k.No}
	}
	switch f {
	case focusForm:
		return []key.Binding{
			withHelp(k.Submit, "add product"), k.Next, k.ForceQuit,
		}
	case focusEdit:
		return []key.Binding{
			withHelp(k.Submit, "save"), k.Cancel, k.Next, withHelp(k.Prev, "list"), k.ForceQuit,
		}
	default:
		return []key.Binding{k.Up, k.Down, k.Edit, k.Delete, k.Reload, withHelp(k.Next, "form"), k.Quit}
	}
}

func withHelp(b key.Binding, desc string) key.Binding {
	h := b.Help()
	b.SetHelp(h.Key, desc)
	return b
}
