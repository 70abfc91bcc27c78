package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap defines the keyboard bindings of normal mode.
type keyMap struct {
	// Global
	Quit      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Prefix    key.Binding
	Command   key.Binding
	Help      key.Binding
	Escape    key.Binding
	Confirm   key.Binding
	Up        key.Binding
	Down      key.Binding
	Backspace key.Binding

	// Collection
	Toggle   key.Binding
	Increase key.Binding
	Decrease key.Binding
	Open     key.Binding

	// Search
	Search   key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Subject
	EditStatus  key.Binding
	EditRating  key.Binding
	EditComment key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("C-q", "Rage quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "下一个 Tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "上一个 Tab"),
		),
		Prefix: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "前缀"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "命令"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "康帮助"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "取消选择"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "确认"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "选择上一个"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "选择下一个"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
		),

		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t<i>", "切换第 i 个过滤选项"),
		),
		Increase: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "增加进度"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "减少进度"),
		),
		Open: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "详情/编辑"),
		),

		Search: key.NewBinding(
			key.WithKeys("/", "i", "enter"),
			key.WithHelp("/", "搜索"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "下一页"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "上一页"),
		),

		EditStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "修改收藏状态"),
		),
		EditRating: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "修改评分"),
		),
		EditComment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "编辑评论"),
		),
	}
}

var keys = defaultKeyMap()

// typed returns the text a key event would insert into an input buffer.
func typed(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return "", false
		}
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

// single returns the rune of a one-character key press.
func single(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	return msg.Runes[0], true
}
