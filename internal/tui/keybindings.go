package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the TUI responds to. Bindings are shared
// between views; each view only checks the ones it uses.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Back     key.Binding
	Quit     key.Binding
	Reload   key.Binding
	Toggle   key.Binding
	NotReq   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	JobNum   key.Binding
	Confirm  key.Binding
	Delegate key.Binding
	Reviewer key.Binding
	Save     key.Binding
	Clear    key.Binding
	Report   key.Binding
	Complete key.Binding
	Copy     key.Binding
	Help     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload catalog")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space", "x", "enter"), key.WithHelp("space", "toggle done")),
		NotReq:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "not required")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		JobNum:   key.NewBinding(key.WithKeys("#"), key.WithHelp("#", "job number")),
		Confirm:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm safe")),
		Delegate: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "job type")),
		Reviewer: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "reviewer")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Clear:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear")),
		Report:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Complete: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "complete")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// checklistKeys adapts keyMap to help.KeyMap for the checklist view.
type checklistKeys struct{ keyMap }

func (k checklistKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NotReq, k.Save, k.Complete, k.Back, k.Help}
}

func (k checklistKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.NotReq},
		{k.Add, k.Edit, k.Delete},
		{k.JobNum, k.Confirm, k.Delegate, k.Reviewer},
		{k.Save, k.Clear, k.Report, k.Complete, k.Back},
	}
}

// jobKeys adapts keyMap to help.KeyMap for the job list.
type jobKeys struct{ keyMap }

func (k jobKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Reload, k.Quit}
}

func (k jobKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// reportKeys adapts keyMap to help.KeyMap for the report preview.
type reportKeys struct{ keyMap }

func (k reportKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Complete, k.Back}
}

func (k reportKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
