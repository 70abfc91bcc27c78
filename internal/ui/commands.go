package ui

import (
	"fmt"
	"strconv"
	"strings"
)

const unknownCommand = "是不认识的命令!"

// execute runs a command line entered after ':'.
func (s *UIState) execute(line string, d Deps) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "qa":
		s.pending = Pending{Kind: PendingQuit}
	case "q":
		s.closeTab(s.active)
	case "help":
		s.help = !s.help
	case "tabe":
		if len(args) != 1 {
			d.Data.PublishMessage("用法: tabe search|coll")
			return
		}
		switch args[0] {
		case "search":
			s.newTab(TabSearch)
		case "coll":
			s.newTab(TabCollection)
		default:
			d.Data.PublishMessage(fmt.Sprintf("没有这种 Tab: %s", args[0]))
		}
	case "tabm":
		if len(args) != 1 {
			d.Data.PublishMessage("用法: tabm <n>")
			return
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			d.Data.PublishMessage(fmt.Sprintf("不是数字: %s", args[0]))
			return
		}
		s.moveTab(n)
	case "theme":
		next := NextTheme(s.theme)
		if len(args) == 1 {
			if _, ok := themes[args[0]]; !ok {
				d.Data.PublishMessage(fmt.Sprintf("没有这个主题: %s (%s)", args[0], strings.Join(ThemeNames(), ", ")))
				return
			}
			next = args[0]
		}
		s.theme = next
		d.Data.PublishMessage("主题: " + next)
	default:
		d.Data.PublishMessage(unknownCommand)
	}
}
