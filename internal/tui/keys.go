package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browser's key bindings. It implements help.KeyMap.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	NextTab  key.Binding
	Details  key.Binding
	Reviews  key.Binding
	Write    key.Binding
	Type     key.Binding
	Map      key.Binding
	NearMe   key.Binding
	Similar  key.Binding
	Open     key.Binding
	NewBoat  key.Binding
	Refresh  key.Binding
	More     key.Binding
	Less     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceEnd key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Details:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "details")),
		Reviews:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "reviews")),
		Write:    key.NewBinding(key.WithKeys("3", "a"), key.WithHelp("3/a", "add review")),
		Type:     key.NewBinding(key.WithKeys("/", "t"), key.WithHelp("/", "boat type")),
		Map:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "map")),
		NearMe:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "near me")),
		Similar:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "similar")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open record")),
		NewBoat:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new boat")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		More:     key.NewBinding(key.WithKeys("+", "right"), key.WithHelp("+", "more stars")),
		Less:     key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "fewer stars")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceEnd: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.NextTab, k.Type, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Open},
		{k.NextTab, k.Details, k.Reviews, k.Write},
		{k.Type, k.Map, k.NearMe, k.Similar},
		{k.More, k.Less, k.Refresh, k.NewBoat},
		{k.Back, k.Help, k.Quit},
	}
}
