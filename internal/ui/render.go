package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/widget"
)

const (
	tabRows        = 3
	filterWidth    = 20
	helpPercent    = 80
	scrollStep     = 1
	tabScrollStep  = 4
	appTitle       = "bgmTTY"
	loadingText    = "Loading..."
	statusEllipsis = "…"
)

// target resolves a pending pointer event against one drawn widget and
// reports whether it changed the state.
type target func(c Pending) bool

// painter carries one paint pass. Targets are collected while drawing so a
// click is matched against exactly the widgets that are on screen.
type painter struct {
	s       *UIState
	d       Deps
	st      Styles
	buf     *widget.Buffer
	targets []target
}

func (p *painter) on(t target) {
	p.targets = append(p.targets, t)
}

// Paint draws the screen into buf and then resolves a pending pointer event
// against the widgets just drawn. It reports whether the event changed the
// state, in which case the caller paints again.
func (s *UIState) Paint(buf *widget.Buffer, d Deps, st Styles, spin string) bool {
	area := buf.Area()
	if area.Empty() {
		return false
	}
	p := &painter{s: s, d: d, st: st, buf: buf}

	main := area
	var helpArea widget.Rect
	if s.help {
		main, helpArea = area.SplitLeft(area.W * helpPercent / 100)
	}
	tabArea, rest := main.SplitTop(tabRows)
	body, status := rest.SplitBottom(1)

	tabBlock := widget.Block{Borders: widget.BorderAll, Title: appTitle, Style: st.Border, TitleStyle: st.Title}
	tabBlock.Draw(tabArea, buf)

	switch t := s.activeTab(); t.Kind {
	case TabCollection:
		p.collection(body)
	case TabSearch:
		p.search(body, t)
	case TabSubject:
		p.subject(body, t)
	case TabSearchResult:
		p.searchResult(body, t)
	}

	p.tabBar(tabBlock.Inner(tabArea).PadH(1))
	if s.help {
		p.help(helpArea)
	}
	p.status(status.PadH(1), spin)

	if s.pending.Kind == PendingScrollIntoView {
		s.pending = Pending{}
	}
	if s.pending.Kind != PendingClick {
		return false
	}
	click := s.pending
	s.pending = Pending{}
	for _, t := range p.targets {
		if t(click) {
			return true
		}
	}
	return false
}

func (p *painter) tabBar(area widget.Rect) {
	s := p.s
	labels := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		labels[i] = s.tabLabel(t)
	}
	bar := widget.NewTabBar(labels, s.active, s.tabScroll)
	bar.Normal, bar.Highlight = p.st.Tab, p.st.TabFocus
	bar.SetBound(area)
	if s.revealTab {
		bar.ScrollIntoView(s.active)
		s.revealTab = false
	}
	bar.Draw(area, p.buf)
	s.tabScroll = bar.Offset()

	p.on(func(c Pending) bool {
		ev, ok := widget.Route[widget.TabEvent](bar, c.X, c.Y, c.Button)
		if !ok {
			return false
		}
		switch ev.Action {
		case widget.TabSelect:
			s.selectTab(ev.Index)
		case widget.TabClose:
			s.closeTab(ev.Index)
		case widget.TabScrollLeft:
			bar.ScrollBy(-tabScrollStep)
			s.tabScroll = bar.Offset()
		case widget.TabScrollRight:
			bar.ScrollBy(tabScrollStep)
			s.tabScroll = bar.Offset()
		}
		return true
	})
}

// frame draws the body border below the tab block and joins it to the
// block's bottom edge.
func (p *painter) frame(area widget.Rect) widget.Rect {
	block := widget.Block{Borders: widget.BorderAll &^ widget.BorderTop, Style: p.st.Border}
	block.Draw(area, p.buf)
	p.buf.Set(area.X, area.Y-1, widget.LineVerticalRight, p.st.Border)
	p.buf.Set(area.X+area.W-1, area.Y-1, widget.LineVerticalLeft, p.st.Border)
	return block.Inner(area)
}

func (p *painter) collection(area widget.Rect) {
	s, buf, st := p.s, p.buf, p.st
	filterArea, cardArea := area.SplitLeft(filterWidth)

	fb := widget.Block{Borders: widget.BorderAll &^ widget.BorderTop, Style: st.Border}
	fb.Draw(filterArea, buf)
	right := filterArea.X + filterArea.W - 1
	buf.Set(filterArea.X, filterArea.Y-1, widget.LineVerticalRight, st.Border)
	buf.Set(right, filterArea.Y-1, widget.LineHorizontalDown, st.Border)
	buf.Set(right, filterArea.Y+filterArea.H-1, widget.LineHorizontalUp, st.Border)

	cb := widget.Block{Borders: widget.BorderAll &^ (widget.BorderTop | widget.BorderLeft), Style: st.Border}
	cb.Draw(cardArea, buf)
	buf.Set(cardArea.X+cardArea.W-1, cardArea.Y-1, widget.LineVerticalLeft, st.Border)

	entries, loaded := p.d.Data.FetchCollection().Get()

	names := make([]string, len(selects))
	counts := make([]int, len(selects))
	for i, sel := range selects {
		names[i] = sel.name
	}
	for _, e := range entries {
		if i, ok := filterIndex(e.Subject.Type); ok {
			counts[i]++
		}
	}
	checked := s.filters
	list := widget.NewFilterList(names, checked[:])
	if loaded {
		list.WithCounts(counts)
	}
	list.Style, list.Count = st.Text, st.Count
	list.SetBound(fb.Inner(filterArea).PadH(1))
	list.Draw(list.Bound(), buf)
	p.on(func(c Pending) bool {
		ev, ok := widget.Route[widget.FilterEvent](list, c.X, c.Y, c.Button)
		if ok {
			s.toggleFilter(ev.Index, entries)
		}
		return ok
	})

	inner := cb.Inner(cardArea)
	if !loaded {
		drawCentered(buf, inner, loadingText, st.Muted)
		return
	}

	visible := s.filtered(entries)
	s.collFocus.SetLimit(len(visible))
	focus, focused := s.collFocus.Index()

	scroll := widget.NewScroll(s.collScroll)
	cards := make([]*widget.EntryCard, len(visible))
	for i, e := range visible {
		cards[i] = p.card(e.Subject, e.SubjectID, focused && i == focus, progressOf(e))
		if cards[i].Name == "" {
			cards[i].Name = e.Name
		}
		scroll.Push(cards[i])
	}
	p.scroll(scroll, inner, &s.collScroll, focus, focused)
	for i, card := range cards {
		if b, ok := scroll.ChildBound(i); ok {
			card.SetBound(b)
		}
	}

	p.on(func(c Pending) bool {
		return routeScroll(scroll, c, &s.collScroll, func(i int) bool {
			if _, ok := widget.Route[widget.CardEvent](cards[i], c.X, c.Y, c.Button); !ok || c.Button != widget.ButtonLeft {
				return false
			}
			if cur, ok := s.collFocus.Index(); ok && cur == i && c.Double {
				s.visitSubject(visible[i].SubjectID, visible[i].Subject.Title(), p.d)
				return true
			}
			s.collFocus.Set(i)
			return true
		})
	})
}

func progressOf(e bangumi.CollectionEntry) *widget.ProgressBar {
	if e.Subject.Type == bangumi.SubjectBook {
		return &widget.ProgressBar{Current: e.VolStatus, Total: e.Subject.VolsCount}
	}
	return &widget.ProgressBar{Current: e.EpStatus, Total: e.Subject.TotalEps()}
}

func (p *painter) card(subject bangumi.Subject, id int, selected bool, progress *widget.ProgressBar) *widget.EntryCard {
	st := p.st
	if progress != nil {
		progress.Label, progress.Filled, progress.Empty = st.Muted, st.Filled, st.Empty
	}
	return &widget.EntryCard{
		Kind:     subject.Type.Name(),
		ID:       id,
		Name:     subject.Name,
		NameCN:   subject.NameCN,
		Progress: progress,
		Selected: selected,
		Border:   st.Border,
		Focus:    st.Focus,
		Header:   st.Muted,
		Title:    st.Title,
		Subtitle: st.Text,
	}
}

// scroll lays out and draws a scroll, honouring a pending scroll-into-view
// of the focused child, and stores the resulting offset.
func (p *painter) scroll(scroll *widget.Scroll, area widget.Rect, offset *int, focus int, focused bool) {
	scroll.SetBound(area)
	if focused && p.s.pending.Kind == PendingScrollIntoView {
		scroll.ScrollIntoView(focus)
	}
	scroll.Draw(area, p.buf)
	*offset = scroll.Offset()
}

// routeScroll applies a pointer event to a drawn scroll. sub handles clicks
// on child i; a nil sub ignores them.
func routeScroll(scroll *widget.Scroll, c Pending, offset *int, sub func(i int) bool) bool {
	ev, ok := widget.Route[widget.ScrollEvent](scroll, c.X, c.Y, c.Button)
	if !ok {
		return false
	}
	switch ev.Action {
	case widget.ScrollUp:
		*offset = max(scroll.Offset()-scrollStep, 0)
	case widget.ScrollDown:
		*offset = scroll.Offset() + scrollStep
	case widget.ScrollTo:
		*offset = ev.Offset
	case widget.ScrollSub:
		if sub == nil {
			return false
		}
		return sub(ev.Index)
	}
	return true
}

func (p *painter) subject(area widget.Rect, t *Tab) {
	inner := p.frame(area).PadLeft(1)
	subject, ok := p.d.Data.FetchSubject(t.SubjectID).Get()
	if !ok {
		p.buf.SetString(inner.X, inner.Y, fmt.Sprintf("猫咪检索中... ID: %d", t.SubjectID), inner.W, p.st.Muted)
		return
	}
	p.s.titles[t.SubjectID] = subject.Title()

	detail, loaded := p.d.Data.FetchCollectionDetail(t.SubjectID).Get()
	scroll := widget.NewScroll(t.Scroll)
	scroll.Push(subjectLines(subject, detail, loaded, p.st)...)
	p.scroll(scroll, inner, &t.Scroll, 0, false)
	p.on(func(c Pending) bool {
		return routeScroll(scroll, c, &t.Scroll, nil)
	})
}

func subjectLines(subject bangumi.Subject, detail *bangumi.CollectionDetail, loaded bool, st Styles) []widget.Widget {
	field := func(label, value string) widget.Widget {
		return widget.RawText(widget.Run{Text: label, Style: st.Label}, widget.Run{Text: value, Style: st.Text})
	}
	lines := []widget.Widget{widget.NewText(subject.Name).SetStyle(st.Title)}
	if subject.NameCN != "" {
		lines = append(lines, widget.NewText(subject.NameCN).SetStyle(st.Text))
	}
	lines = append(lines, widget.NewText(""))

	switch {
	case !loaded:
		lines = append(lines, widget.NewText("获取收藏状态...").SetStyle(st.Muted))
	case detail == nil:
		lines = append(lines, field("状态: ", bangumi.CollectionStatus("").Display()))
	default:
		lines = append(lines,
			field("状态: ", detail.Status.Type.Display()),
			field("评分: ", detail.RatingDisplay()),
			field("标签: ", strings.Join(detail.Tag, ",")),
			widget.NewText(""),
			field("评论: ", ""),
			widget.NewText(detail.Comment).SetStyle(st.Text),
		)
	}
	return lines
}

func (p *painter) search(area widget.Rect, t *Tab) {
	s, buf, st := p.s, p.buf, p.st
	inner := p.frame(area).PadLeft(1)
	header, rest := inner.SplitTop(2)
	if t.Query == "" {
		buf.SetString(header.X, header.Y, "按 / 开始搜索", header.W, st.Muted)
	} else {
		x := header.X + buf.SetString(header.X, header.Y, "上次搜索: ", header.W, st.Label)
		buf.SetString(x, header.Y, t.Query, header.X+header.W-x, st.Text)
	}

	title, listArea := rest.SplitTop(1)
	buf.SetString(title.X, title.Y, "最近打开:", title.W, st.Label)

	recent := p.d.recent()
	t.Focus.SetLimit(len(recent))
	focus, focused := t.Focus.Index()
	scroll := widget.NewScroll(t.Scroll)
	for i, item := range recent {
		style := st.Text
		if focused && i == focus {
			style = st.Focus
		}
		scroll.Push(widget.NewText(fmt.Sprintf("#%d %s", item.SubjectID, item.Name)).SetStyle(style))
	}
	p.scroll(scroll, listArea, &t.Scroll, focus, focused)

	p.on(func(c Pending) bool {
		return routeScroll(scroll, c, &t.Scroll, func(i int) bool {
			if c.Button != widget.ButtonLeft {
				return false
			}
			if cur, ok := t.Focus.Index(); ok && cur == i && c.Double {
				s.visitSubject(recent[i].SubjectID, recent[i].Name, p.d)
				return true
			}
			t.Focus.Set(i)
			return true
		})
	})
}

func (p *painter) searchResult(area widget.Rect, t *Tab) {
	s, buf, st := p.s, p.buf, p.st
	inner := p.frame(area).PadLeft(1)
	res, ok := p.d.Data.FetchSearch(t.Query, t.Page).Get()
	if !ok {
		drawCentered(buf, inner, "搜索中...", st.Muted)
		return
	}

	pageSize := max(p.d.Data.PageSize(), 1)
	pages := max((res.Count+pageSize-1)/pageSize, 1)
	header, listArea := inner.SplitTop(2)
	buf.SetString(header.X, header.Y,
		fmt.Sprintf("%s: 第 %d/%d 页, 共 %d 条 [ ] 翻页", t.Query, t.Page+1, pages, res.Count),
		header.W, st.Label)
	if len(res.List) == 0 {
		buf.SetString(listArea.X, listArea.Y, "什么都没找到", listArea.W, st.Muted)
		t.Focus.SetLimit(0)
		return
	}

	t.Focus.SetLimit(len(res.List))
	focus, focused := t.Focus.Index()
	scroll := widget.NewScroll(t.Scroll)
	cards := make([]*widget.EntryCard, len(res.List))
	for i, subject := range res.List {
		cards[i] = p.card(subject, subject.ID, focused && i == focus, nil)
		scroll.Push(cards[i])
	}
	p.scroll(scroll, listArea, &t.Scroll, focus, focused)
	for i, card := range cards {
		if b, ok := scroll.ChildBound(i); ok {
			card.SetBound(b)
		}
	}

	p.on(func(c Pending) bool {
		return routeScroll(scroll, c, &t.Scroll, func(i int) bool {
			if _, ok := widget.Route[widget.CardEvent](cards[i], c.X, c.Y, c.Button); !ok || c.Button != widget.ButtonLeft {
				return false
			}
			if cur, ok := t.Focus.Index(); ok && cur == i && c.Double {
				s.visitSubject(res.List[i].ID, res.List[i].Title(), p.d)
				return true
			}
			t.Focus.Set(i)
			return true
		})
	})
}

func (p *painter) help(area widget.Rect) {
	s := p.s
	block := widget.Block{Borders: widget.BorderLeft, Style: p.st.Border}
	block.Draw(area, p.buf)
	inner := block.Inner(area).PadLeft(1)

	scroll := widget.NewScroll(s.helpScroll)
	for _, text := range helpTexts(s, p.st) {
		scroll.Push(text)
	}
	p.scroll(scroll, inner, &s.helpScroll, 0, false)
	p.on(func(c Pending) bool {
		return routeScroll(scroll, c, &s.helpScroll, nil)
	})
}

// status draws the prompt of the active long command, or the last message.
func (p *painter) status(area widget.Rect, spin string) {
	if area.Empty() {
		return
	}
	line, style := strings.Join(strings.Fields(p.d.Data.LastMessage()), " "), p.st.Text
	if prompt, ok := p.s.command.Prompt(); ok {
		line, style = prompt, p.st.Prompt
	}
	x := area.X
	if spin != "" {
		x += p.buf.SetString(x, area.Y, spin+" ", area.W, p.st.Prompt)
	}
	width := area.X + area.W - x
	if width <= 0 {
		return
	}
	if widget.StringWidth(line) > width {
		line = truncate.StringWithTail(line, uint(width), statusEllipsis)
	}
	p.buf.SetString(x, area.Y, line, width, style)
}

func drawCentered(buf *widget.Buffer, area widget.Rect, text string, style widget.Style) {
	if area.Empty() {
		return
	}
	x := area.X + max((area.W-widget.StringWidth(text))/2, 0)
	buf.SetString(x, area.Y+area.H/2, text, area.X+area.W-x, style)
}
