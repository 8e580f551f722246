package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit           key.Binding
	toggleHelp     key.Binding
	moveLeft       key.Binding
	moveRight      key.Binding
	moveUp         key.Binding
	moveDown       key.Binding
	addCard        key.Binding
	editCard       key.Binding
	cardActions    key.Binding
	cardInfo       key.Binding
	toggleComplete key.Binding
	duplicateCard  key.Binding
	deleteCard     key.Binding
	moveCard       key.Binding
	grab           key.Binding
	addColumn      key.Binding
	deleteColumn   key.Binding
	search         key.Binding
	cyclePriority  key.Binding
	toggleTheme    key.Binding
	renameBoard    key.Binding
	profile        key.Binding
	copyCard       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		moveDown:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),
		addCard:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new card")),
		editCard:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit card")),
		cardActions:    key.NewBinding(key.WithKeys("enter", "."), key.WithHelp("enter", "card actions")),
		cardInfo:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "card info")),
		toggleComplete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
		duplicateCard:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "duplicate")),
		deleteCard:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete card")),
		moveCard:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to…")),
		grab:           key.NewBinding(key.WithKeys("space", " "), key.WithHelp("space", "grab card")),
		addColumn:      key.NewBinding(key.WithKeys("C", "shift+c"), key.WithHelp("C", "add list")),
		deleteColumn:   key.NewBinding(key.WithKeys("X", "shift+x"), key.WithHelp("X", "delete list")),
		search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		cyclePriority:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "priority filter")),
		toggleTheme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "light/dark")),
		renameBoard:    key.NewBinding(key.WithKeys("B", "shift+b"), key.WithHelp("B", "rename board")),
		profile:        key.NewBinding(key.WithKeys("P", "shift+p"), key.WithHelp("P", "profile")),
		copyCard:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy card")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addCard, k.cardActions, k.grab, k.moveCard, k.search, k.cyclePriority, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.grab, k.moveCard},
		{k.addCard, k.editCard, k.cardActions, k.cardInfo, k.toggleComplete, k.duplicateCard, k.deleteCard, k.copyCard},
		{k.addColumn, k.deleteColumn, k.search, k.cyclePriority, k.toggleTheme, k.renameBoard, k.profile, k.toggleHelp, k.quit},
	}
}
