package ui

import (
	"fmt"
	"time"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/widget"
)

// TabKind is the kind of content a tab shows.
type TabKind int

const (
	TabCollection TabKind = iota
	TabSearch
	TabSubject
	TabSearchResult
)

// Tab is one entry of the tab bar. Which fields are meaningful depends on
// Kind: Query for Search and SearchResult, SubjectID for Subject, Page and
// Focus for SearchResult (Focus also selects recent items on Search).
type Tab struct {
	Kind      TabKind
	Query     string
	SubjectID int
	Page      int
	Scroll    int
	Focus     FocusState
}

// FocusState is an optional index bounded by a limit.
type FocusState struct {
	index int
	ok    bool
	limit int
}

// Index returns the focused index.
func (f FocusState) Index() (int, bool) {
	return f.index, f.ok
}

// Set focuses i, clamped below the limit.
func (f *FocusState) Set(i int) {
	if f.limit <= 0 {
		f.Clear()
		return
	}
	f.index, f.ok = min(max(i, 0), f.limit-1), true
}

// Clear removes the focus.
func (f *FocusState) Clear() {
	f.index, f.ok = 0, false
}

// SetLimit changes the number of focusable items and re-clamps the index.
func (f *FocusState) SetLimit(n int) {
	f.limit = max(n, 0)
	if !f.ok {
		return
	}
	if f.limit == 0 {
		f.Clear()
		return
	}
	f.index = min(f.index, f.limit-1)
}

// Next moves the focus down, starting at the first item.
func (f *FocusState) Next() {
	if !f.ok {
		f.Set(0)
		return
	}
	f.Set(f.index + 1)
}

// Prev moves the focus up. Nothing happens without a focus.
func (f *FocusState) Prev() {
	if f.ok {
		f.Set(f.index - 1)
	}
}

// LongKind identifies the active multi-keystroke command.
type LongKind int

const (
	LongAbsent LongKind = iota
	LongGraphicalPrefix
	LongCommandLine
	LongTogglePrefix
	LongEditRating
	LongEditStatus
	LongSearchInput
)

// LongCommand is the modal command that receives input before normal
// dispatch. Buffer holds the command line, rating digits or search text.
type LongCommand struct {
	Kind      LongKind
	Buffer    string
	SubjectID int
	Original  *bangumi.CollectionDetail
	Status    bangumi.CollectionStatus
}

// Active reports whether a long command is in progress.
func (c LongCommand) Active() bool {
	return c.Kind != LongAbsent
}

// Prompt returns the status line text of the command.
func (c LongCommand) Prompt() (string, bool) {
	switch c.Kind {
	case LongGraphicalPrefix:
		return "g", true
	case LongCommandLine:
		return ":" + c.Buffer, true
	case LongTogglePrefix:
		return "t", true
	case LongEditRating:
		return "评分 (1-10, 0=取消): " + c.Buffer, true
	case LongEditStatus:
		return fmt.Sprintf("状态: %s [Tab]", c.Status.Display()), true
	case LongSearchInput:
		return "搜索: " + c.Buffer, true
	}
	return "", false
}

// PendingKind is the side effect the reducer leaves for the paint pass or
// the program loop.
type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingClick
	PendingScrollIntoView
	PendingQuit
	PendingReset
)

// EditRequest asks the program to edit a subject's comment externally.
type EditRequest struct {
	SubjectID int
	Detail    *bangumi.CollectionDetail
}

// Pending is the single pending side effect.
type Pending struct {
	Kind   PendingKind
	X, Y   int
	Button widget.Button
	Double bool
	Edit   *EditRequest
}

type press struct {
	x, y int
	at   time.Time
}

const (
	doubleClickWindow = 300 * time.Millisecond
	helpThreshold     = 3
	helpHint          = "不知道怎么操作? 按 ? 康帮助"
)

// filterSelect is one collection filter.
type filterSelect struct {
	name string
	kind bangumi.SubjectType
}

var selects = [3]filterSelect{
	{"动画骗", bangumi.SubjectAnime},
	{"小书本", bangumi.SubjectBook},
	{"三刺螈", bangumi.SubjectReal},
}

// UIState is everything the UI remembers between events.
type UIState struct {
	tabs      []Tab
	active    int
	tabScroll int
	revealTab bool

	filters    [3]bool
	collScroll int
	collFocus  FocusState

	help       bool
	helpScroll int

	command LongCommand
	pending Pending

	last      press
	havePress bool
	now       func() time.Time

	unmatched int
	theme     string
	titles    map[int]string
}

// NewUIState returns the state of a freshly started UI showing the
// collection tab.
func NewUIState(filters [3]bool, theme string) *UIState {
	return &UIState{
		tabs:    []Tab{{Kind: TabCollection}},
		filters: filters,
		theme:   theme,
		now:     time.Now,
		titles:  make(map[int]string),
	}
}

// Theme returns the name of the selected theme.
func (s *UIState) Theme() string {
	return s.theme
}

// Pending returns the pending side effect.
func (s *UIState) Pending() Pending {
	return s.pending
}

// ClearPending drops the pending side effect.
func (s *UIState) ClearPending() {
	s.pending = Pending{}
}

func (s *UIState) activeTab() *Tab {
	return &s.tabs[s.active]
}

func (s *UIState) selectTab(i int) {
	if i < 0 || i >= len(s.tabs) {
		return
	}
	s.active = i
	s.revealTab = true
}

func (s *UIState) nextTab() {
	s.selectTab((s.active + 1) % len(s.tabs))
}

func (s *UIState) prevTab() {
	s.selectTab((s.active + len(s.tabs) - 1) % len(s.tabs))
}

// openTab activates the first tab matching t or appends t. It reports
// whether a tab was appended.
func (s *UIState) openTab(t Tab, same func(Tab) bool) bool {
	for i, existing := range s.tabs {
		if same(existing) {
			s.selectTab(i)
			return false
		}
	}
	s.appendTab(t)
	return true
}

func (s *UIState) appendTab(t Tab) {
	s.tabs = append(s.tabs, t)
	s.selectTab(len(s.tabs) - 1)
}

func (s *UIState) openSubject(id int) bool {
	return s.openTab(Tab{Kind: TabSubject, SubjectID: id}, func(t Tab) bool {
		return t.Kind == TabSubject && t.SubjectID == id
	})
}

// visitSubject opens the tab of a subject picked by the user. A subject
// gets into the recent list only when its tab is newly opened.
func (s *UIState) visitSubject(id int, name string, d Deps) {
	s.titles[id] = name
	if s.openSubject(id) {
		d.record(id, name)
	}
}

func (s *UIState) openSearchResult(query string, page int) {
	s.openTab(Tab{Kind: TabSearchResult, Query: query, Page: page}, func(t Tab) bool {
		return t.Kind == TabSearchResult && t.Query == query && t.Page == page
	})
}

// newTab appends and selects a fresh tab of kind.
func (s *UIState) newTab(kind TabKind) {
	s.appendTab(Tab{Kind: kind})
}

// closeTab removes tab i. Closing the last tab quits.
func (s *UIState) closeTab(i int) {
	if i < 0 || i >= len(s.tabs) {
		return
	}
	if len(s.tabs) == 1 {
		s.pending = Pending{Kind: PendingQuit}
		return
	}
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	if s.active > i || s.active == len(s.tabs) {
		s.active--
	}
	s.revealTab = true
}

// moveTab moves the active tab to position n.
func (s *UIState) moveTab(n int) {
	n = min(max(n, 0), len(s.tabs)-1)
	t := s.tabs[s.active]
	s.tabs = append(s.tabs[:s.active], s.tabs[s.active+1:]...)
	s.tabs = append(s.tabs[:n], append([]Tab{t}, s.tabs[n:]...)...)
	s.selectTab(n)
}

func filterIndex(kind bangumi.SubjectType) (int, bool) {
	for i, sel := range selects {
		if sel.kind == kind {
			return i, true
		}
	}
	return 0, false
}

// filtered returns the entries whose subject type is enabled.
func (s *UIState) filtered(entries []bangumi.CollectionEntry) []bangumi.CollectionEntry {
	out := make([]bangumi.CollectionEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := filterIndex(e.Subject.Type); ok && s.filters[i] {
			out = append(out, e)
		}
	}
	return out
}

// toggleFilter flips filter i and keeps the focus on the same subject when
// it stays visible.
func (s *UIState) toggleFilter(i int, entries []bangumi.CollectionEntry) {
	if i < 0 || i >= len(s.filters) {
		return
	}
	focused := -1
	if idx, ok := s.collFocus.Index(); ok {
		if before := s.filtered(entries); idx < len(before) {
			focused = before[idx].SubjectID
		}
	}

	s.filters[i] = !s.filters[i]

	after := s.filtered(entries)
	s.collFocus.SetLimit(len(after))
	s.collFocus.Clear()
	for j, e := range after {
		if e.SubjectID == focused {
			s.collFocus.Set(j)
			s.pending = Pending{Kind: PendingScrollIntoView}
			break
		}
	}
}

func (s *UIState) tabLabel(t Tab) string {
	switch t.Kind {
	case TabCollection:
		return "格子"
	case TabSearch:
		return "搜索"
	case TabSubject:
		if title, ok := s.titles[t.SubjectID]; ok && title != "" {
			return title
		}
		return fmt.Sprintf("条目 #%d", t.SubjectID)
	case TabSearchResult:
		return fmt.Sprintf("搜索: %s (%d)", t.Query, t.Page+1)
	}
	return "?"
}
