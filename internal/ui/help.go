package ui

import (
	"strings"

	"github.com/five82/bgmtty/internal/widget"
)

// helpGate decides whether a help entry applies to the current UI state.
type helpGate int

const (
	gateAlways helpGate = iota
	gateCollection
	gateCollectionFocus
	gateCollectionNoFocus
	gateSearch
	gateSearchResult
	gateSubject
)

func (g helpGate) open(s *UIState) bool {
	kind := s.activeTab().Kind
	switch g {
	case gateAlways:
		return true
	case gateCollection:
		return kind == TabCollection
	case gateCollectionFocus:
		_, ok := s.collFocus.Index()
		return kind == TabCollection && ok
	case gateCollectionNoFocus:
		_, ok := s.collFocus.Index()
		return kind == TabCollection && !ok
	case gateSearch:
		return kind == TabSearch
	case gateSearchResult:
		return kind == TabSearchResult
	case gateSubject:
		return kind == TabSubject
	}
	return false
}

type helpEntry struct {
	keys []string
	desc string
	gate helpGate
}

var helpDatabase = []helpEntry{
	{[]string{"?", "h", ":help"}, "康帮助", gateAlways},
	{[]string{":qa", "C-q"}, "Rage quit", gateAlways},
	{[]string{":q"}, "关闭当前 Tab", gateAlways},
	{[]string{"gt", "Tab"}, "下一个 Tab", gateAlways},
	{[]string{"gT"}, "上一个 Tab", gateAlways},
	{[]string{"k", "Up"}, "选择上一个", gateCollectionFocus},
	{[]string{"j", "Down"}, "选择下一个", gateCollectionFocus},
	{[]string{"j", "Down"}, "选择第一个", gateCollectionNoFocus},
	{[]string{"t<i>"}, "切换第 i 个过滤选项", gateCollection},
	{[]string{"+"}, "增加进度", gateCollectionFocus},
	{[]string{"-"}, "减少进度", gateCollectionFocus},
	{[]string{"e"}, "详情/编辑", gateCollectionFocus},
	{[]string{"Esc"}, "取消选择", gateCollectionFocus},
	{[]string{"/", "i"}, "搜索", gateSearch},
	{[]string{"Enter"}, "打开最近的条目", gateSearch},
	{[]string{"j", "k"}, "选择结果", gateSearchResult},
	{[]string{"]", "["}, "翻页", gateSearchResult},
	{[]string{"s"}, "修改收藏状态", gateSubject},
	{[]string{"r"}, "修改评分", gateSubject},
	{[]string{"c"}, "编辑评论", gateSubject},
}

// helpTexts builds the help lines that apply to s.
func helpTexts(s *UIState, st Styles) []*widget.Text {
	var out []*widget.Text
	for _, e := range helpDatabase {
		if !e.gate.open(s) {
			continue
		}
		out = append(out, widget.RawText(
			widget.Run{Text: strings.Join(e.keys, " / "), Style: st.Key},
			widget.Run{Text: ": " + e.desc, Style: st.Text},
		))
	}
	return out
}
