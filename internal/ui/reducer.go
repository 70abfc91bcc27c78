package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/history"
	"github.com/five82/bgmtty/internal/state"
	"github.com/five82/bgmtty/internal/widget"
)

// DataSource is the data cache consulted by the reducer and the paint pass.
// *state.AppState implements it.
type DataSource interface {
	FetchCollection() state.FetchResult[[]bangumi.CollectionEntry]
	FetchSubject(id int) state.FetchResult[bangumi.Subject]
	FetchCollectionDetail(id int) state.FetchResult[*bangumi.CollectionDetail]
	FetchSearch(query string, page int) state.FetchResult[bangumi.SearchResult]
	UpdateProgress(entry bangumi.CollectionEntry, ep, vol *int)
	UpdateCollectionDetail(id int, status bangumi.CollectionStatus, detail *bangumi.CollectionDetail)
	PublishMessage(msg string)
	LastMessage() string
	InFlight() int
	PageSize() int
	Notifications() <-chan struct{}
}

// Recents lists recently opened subjects, newest first, and records newly
// opened ones.
type Recents interface {
	Recent(n int) []history.Item
	Record(id int, name string) error
}

// Deps are the collaborators of the reducer and the paint pass.
type Deps struct {
	Data    DataSource
	Recents Recents
}

const recentLimit = 20

func (d Deps) recent() []history.Item {
	if d.Recents == nil {
		return nil
	}
	return d.Recents.Recent(recentLimit)
}

func (d Deps) record(id int, name string) {
	if d.Recents == nil {
		return
	}
	if err := d.Recents.Record(id, name); err != nil {
		d.Data.PublishMessage(fmt.Sprintf("无法保存最近打开: %v", err))
	}
}

// outcome tells whether a long command stays active after an event.
type outcome bool

const (
	stay    outcome = false
	resolve outcome = true
)

// Reduce applies one input event to the state.
func (s *UIState) Reduce(msg tea.Msg, d Deps) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		s.reduceKey(msg, d)
	case tea.MouseMsg:
		s.reduceMouse(msg)
	}
}

func (s *UIState) reduceKey(msg tea.KeyMsg, d Deps) {
	if s.command.Active() {
		if key.Matches(msg, keys.Escape) {
			s.command = LongCommand{}
			return
		}
		if s.reduceLong(msg, d) == resolve {
			s.command = LongCommand{}
		}
		return
	}

	if s.dispatch(msg, d) {
		s.unmatched = 0
		return
	}
	s.unmatched++
	if s.unmatched > helpThreshold {
		s.unmatched = 0
		d.Data.PublishMessage(helpHint)
	}
}

// reduceMouse records pointer events for the paint pass. Pointer input never
// cancels a long command but resets the unmatched key count.
func (s *UIState) reduceMouse(msg tea.MouseMsg) {
	btn := mouseButton(msg.Button)
	switch msg.Action {
	case tea.MouseActionPress:
		s.unmatched = 0
		double := false
		if btn == widget.ButtonLeft {
			now := s.now()
			double = s.havePress && s.last.x == msg.X && s.last.y == msg.Y &&
				now.Sub(s.last.at) <= doubleClickWindow
			s.last, s.havePress = press{x: msg.X, y: msg.Y, at: now}, !double
		}
		s.pending = Pending{Kind: PendingClick, X: msg.X, Y: msg.Y, Button: btn, Double: double}
	case tea.MouseActionMotion:
		if btn == widget.ButtonNone || btn.IsWheel() {
			return
		}
		s.unmatched = 0
		s.havePress = false
		s.pending = Pending{Kind: PendingClick, X: msg.X, Y: msg.Y, Button: widget.ButtonLeft}
	}
}

func mouseButton(b tea.MouseButton) widget.Button {
	switch b {
	case tea.MouseButtonLeft:
		return widget.ButtonLeft
	case tea.MouseButtonMiddle:
		return widget.ButtonMiddle
	case tea.MouseButtonRight:
		return widget.ButtonRight
	case tea.MouseButtonWheelUp:
		return widget.WheelUp
	case tea.MouseButtonWheelDown:
		return widget.WheelDown
	case tea.MouseButtonWheelLeft:
		return widget.WheelLeft
	case tea.MouseButtonWheelRight:
		return widget.WheelRight
	}
	return widget.ButtonNone
}

func (s *UIState) reduceLong(msg tea.KeyMsg, d Deps) outcome {
	switch s.command.Kind {
	case LongGraphicalPrefix:
		return s.longPrefix(msg)
	case LongCommandLine:
		return s.longCommandLine(msg, d)
	case LongTogglePrefix:
		return s.longToggle(msg, d)
	case LongEditRating:
		return s.longRating(msg, d)
	case LongEditStatus:
		return s.longStatus(msg, d)
	case LongSearchInput:
		return s.longSearch(msg, d)
	}
	return resolve
}

func (s *UIState) longPrefix(msg tea.KeyMsg) outcome {
	switch r, _ := single(msg); r {
	case 't':
		s.nextTab()
	case 'T':
		s.prevTab()
	}
	return resolve
}

// editBuffer applies text editing keys to buf. ok is false when the key is
// not an editing key; done is true when Backspace hits an empty buffer.
func editBuffer(buf string, msg tea.KeyMsg) (next string, ok, done bool) {
	if text, ok := typed(msg); ok {
		return buf + text, true, false
	}
	if key.Matches(msg, keys.Backspace) {
		if buf == "" {
			return buf, true, true
		}
		_, size := utf8.DecodeLastRuneInString(buf)
		return buf[:len(buf)-size], true, false
	}
	return buf, false, false
}

func (s *UIState) longCommandLine(msg tea.KeyMsg, d Deps) outcome {
	if key.Matches(msg, keys.Confirm) {
		s.execute(s.command.Buffer, d)
		return resolve
	}
	next, ok, done := editBuffer(s.command.Buffer, msg)
	if done {
		return resolve
	}
	if ok {
		s.command.Buffer = next
	}
	return stay
}

func (s *UIState) longToggle(msg tea.KeyMsg, d Deps) outcome {
	r, ok := single(msg)
	if !ok || r < '1' || r > '9' {
		return resolve
	}
	entries, _ := d.Data.FetchCollection().Get()
	s.toggleFilter(int(r-'1'), entries)
	return resolve
}

func (s *UIState) longRating(msg tea.KeyMsg, d Deps) outcome {
	if key.Matches(msg, keys.Confirm) {
		s.commitRating(d)
		return resolve
	}
	if key.Matches(msg, keys.Backspace) {
		if s.command.Buffer == "" {
			return resolve
		}
		s.command.Buffer = s.command.Buffer[:len(s.command.Buffer)-1]
		return stay
	}
	r, ok := single(msg)
	if !ok || r < '0' || r > '9' {
		return stay
	}
	switch buf := s.command.Buffer; {
	case buf == "0":
		s.command.Buffer = string(r)
	case len(buf) < 2:
		s.command.Buffer = buf + string(r)
	}
	return stay
}

const maxRating = 10

func (s *UIState) commitRating(d Deps) {
	rating, err := strconv.Atoi(s.command.Buffer)
	if err != nil {
		d.Data.PublishMessage("评分无效")
		return
	}
	detail := s.command.Original.Clone()
	if detail == nil {
		detail = &bangumi.CollectionDetail{}
	}
	detail.Rating = min(rating, maxRating)
	d.Data.UpdateCollectionDetail(s.command.SubjectID, statusOf(s.command.Original), detail)
}

// statusOf returns the status to write back with an edit. Editing a subject
// that is not collected yet adds it as wished.
func statusOf(detail *bangumi.CollectionDetail) bangumi.CollectionStatus {
	if detail == nil || detail.Status.Type == "" {
		return bangumi.StatusWish
	}
	return detail.Status.Type
}

func (s *UIState) longStatus(msg tea.KeyMsg, d Deps) outcome {
	switch {
	case key.Matches(msg, keys.NextTab):
		s.command.Status = s.command.Status.Rotate()
		return stay
	case key.Matches(msg, keys.PrevTab):
		s.command.Status = s.command.Status.RotateBack()
		return stay
	case key.Matches(msg, keys.Confirm):
		d.Data.UpdateCollectionDetail(s.command.SubjectID, s.command.Status, s.command.Original)
	}
	return resolve
}

func (s *UIState) longSearch(msg tea.KeyMsg, d Deps) outcome {
	if key.Matches(msg, keys.Confirm) {
		query := strings.Join(strings.Fields(s.command.Buffer), " ")
		if query == "" {
			d.Data.PublishMessage("搜索内容为空")
			return resolve
		}
		if t := s.activeTab(); t.Kind == TabSearch {
			t.Query = query
		}
		s.openSearchResult(query, 0)
		return resolve
	}
	next, ok, done := editBuffer(s.command.Buffer, msg)
	if done {
		return resolve
	}
	if ok {
		s.command.Buffer = next
	}
	return stay
}

// dispatch handles a key in normal mode and reports whether it matched.
func (s *UIState) dispatch(msg tea.KeyMsg, d Deps) bool {
	switch {
	case key.Matches(msg, keys.Quit):
		s.pending = Pending{Kind: PendingQuit}
		return true
	case key.Matches(msg, keys.NextTab):
		s.nextTab()
		return true
	case key.Matches(msg, keys.PrevTab):
		s.prevTab()
		return true
	case key.Matches(msg, keys.Prefix):
		s.command = LongCommand{Kind: LongGraphicalPrefix}
		return true
	case key.Matches(msg, keys.Command):
		s.command = LongCommand{Kind: LongCommandLine}
		return true
	case key.Matches(msg, keys.Help):
		s.help = !s.help
		return true
	}

	switch s.activeTab().Kind {
	case TabCollection:
		return s.dispatchCollection(msg, d)
	case TabSearch:
		return s.dispatchSearch(msg, d)
	case TabSearchResult:
		return s.dispatchSearchResult(msg, d)
	case TabSubject:
		return s.dispatchSubject(msg, d)
	}
	return false
}

func (s *UIState) focusedEntry(d Deps) (bangumi.CollectionEntry, bool) {
	idx, ok := s.collFocus.Index()
	if !ok {
		return bangumi.CollectionEntry{}, false
	}
	entries, ok := d.Data.FetchCollection().Get()
	if !ok {
		return bangumi.CollectionEntry{}, false
	}
	visible := s.filtered(entries)
	if idx >= len(visible) {
		return bangumi.CollectionEntry{}, false
	}
	return visible[idx], true
}

func (s *UIState) dispatchCollection(msg tea.KeyMsg, d Deps) bool {
	switch {
	case key.Matches(msg, keys.Down):
		s.collFocus.Next()
		s.pending = Pending{Kind: PendingScrollIntoView}
	case key.Matches(msg, keys.Up):
		s.collFocus.Prev()
		s.pending = Pending{Kind: PendingScrollIntoView}
	case key.Matches(msg, keys.Toggle):
		s.command = LongCommand{Kind: LongTogglePrefix}
	case key.Matches(msg, keys.Increase):
		s.stepProgress(d, 1)
	case key.Matches(msg, keys.Decrease):
		s.stepProgress(d, -1)
	case key.Matches(msg, keys.Open):
		if entry, ok := s.focusedEntry(d); ok {
			s.visitSubject(entry.SubjectID, entry.Subject.Title(), d)
		}
	case key.Matches(msg, keys.Escape):
		s.collFocus.Clear()
	default:
		return false
	}
	return true
}

// stepProgress moves the focused entry's progress by delta. Books count
// volumes, everything else episodes.
func (s *UIState) stepProgress(d Deps, delta int) {
	entry, ok := s.focusedEntry(d)
	if !ok {
		return
	}
	if entry.Subject.Type == bangumi.SubjectBook {
		vol := entry.StepVol(delta)
		if vol != entry.VolStatus {
			d.Data.UpdateProgress(entry, nil, &vol)
		}
		return
	}
	ep := entry.StepEp(delta)
	if ep != entry.EpStatus {
		d.Data.UpdateProgress(entry, &ep, nil)
	}
}

func (s *UIState) dispatchSearch(msg tea.KeyMsg, d Deps) bool {
	t := s.activeTab()
	switch {
	case key.Matches(msg, keys.Down):
		t.Focus.Next()
		s.pending = Pending{Kind: PendingScrollIntoView}
	case key.Matches(msg, keys.Up):
		t.Focus.Prev()
		s.pending = Pending{Kind: PendingScrollIntoView}
	case key.Matches(msg, keys.Escape):
		t.Focus.Clear()
	case key.Matches(msg, keys.Confirm):
		if idx, ok := t.Focus.Index(); ok {
			if recent := d.recent(); idx < len(recent) {
				s.visitSubject(recent[idx].SubjectID, recent[idx].Name, d)
				return true
			}
		}
		s.command = LongCommand{Kind: LongSearchInput, Buffer: t.Query}
	case key.Matches(msg, keys.Search):
		s.command = LongCommand{Kind: LongSearchInput}
	default:
		return false
	}
	return true
}

func (s *UIState) dispatchSearchResult(msg tea.KeyMsg, d Deps) bool {
	t := s.activeTab()
	switch {
	case key.Matches(msg, keys.Down):
		t.Focus.Next()
		s.pending = Pending{Kind: PendingScrollIntoView}
	case key.Matches(msg, keys.Up):
		t.Focus.Prev()
		s.pending = Pending{Kind: PendingScrollIntoView}
	case key.Matches(msg, keys.Escape):
		t.Focus.Clear()
	case key.Matches(msg, keys.Open):
		idx, ok := t.Focus.Index()
		if !ok {
			return true
		}
		res, ok := d.Data.FetchSearch(t.Query, t.Page).Get()
		if ok && idx < len(res.List) {
			subject := res.List[idx]
			s.visitSubject(subject.ID, subject.Title(), d)
		}
	case key.Matches(msg, keys.NextPage):
		res, ok := d.Data.FetchSearch(t.Query, t.Page).Get()
		if ok && (t.Page+1)*d.Data.PageSize() < res.Count {
			s.turnPage(t, 1)
		}
	case key.Matches(msg, keys.PrevPage):
		if t.Page > 0 {
			s.turnPage(t, -1)
		}
	default:
		return false
	}
	return true
}

func (s *UIState) turnPage(t *Tab, delta int) {
	t.Page += delta
	t.Scroll = 0
	t.Focus.Clear()
	s.revealTab = true
}

func (s *UIState) dispatchSubject(msg tea.KeyMsg, d Deps) bool {
	t := s.activeTab()
	switch {
	case key.Matches(msg, keys.Down):
		t.Scroll++
	case key.Matches(msg, keys.Up):
		t.Scroll = max(t.Scroll-1, 0)
	case key.Matches(msg, keys.EditStatus):
		if detail, ok := s.subjectDetail(t.SubjectID, d); ok {
			s.command = LongCommand{
				Kind:      LongEditStatus,
				SubjectID: t.SubjectID,
				Original:  detail,
				Status:    statusOf(detail),
			}
		}
	case key.Matches(msg, keys.EditRating):
		if detail, ok := s.subjectDetail(t.SubjectID, d); ok {
			s.command = LongCommand{Kind: LongEditRating, SubjectID: t.SubjectID, Original: detail}
		}
	case key.Matches(msg, keys.EditComment):
		if detail, ok := s.subjectDetail(t.SubjectID, d); ok {
			s.pending = Pending{Kind: PendingReset, Edit: &EditRequest{SubjectID: t.SubjectID, Detail: detail}}
		}
	default:
		return false
	}
	return true
}

// subjectDetail returns the collection record of id once it is known.
func (s *UIState) subjectDetail(id int, d Deps) (*bangumi.CollectionDetail, bool) {
	detail, ok := d.Data.FetchCollectionDetail(id).Get()
	if !ok {
		d.Data.PublishMessage(fmt.Sprintf("收藏状态还没加载好: %d", id))
	}
	return detail, ok
}
