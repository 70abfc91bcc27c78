package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/history"
	"github.com/five82/bgmtty/internal/prefs"
	"github.com/five82/bgmtty/internal/state"
)

type updateCall struct {
	id     int
	status bangumi.CollectionStatus
	detail *bangumi.CollectionDetail
}

// fakeData is an in-memory DataSource. A value is Direct once present.
type fakeData struct {
	collection []bangumi.CollectionEntry
	loaded     bool
	subjects   map[int]bangumi.Subject
	details    map[int]*bangumi.CollectionDetail
	search     map[state.SearchKey]bangumi.SearchResult
	pageSize   int

	messages []string
	eps      []int
	vols     []int
	updates  []updateCall
	notify   chan struct{}
}

func newFakeData() *fakeData {
	return &fakeData{
		loaded:   true,
		subjects: map[int]bangumi.Subject{},
		details:  map[int]*bangumi.CollectionDetail{},
		search:   map[state.SearchKey]bangumi.SearchResult{},
		pageSize: 10,
		messages: []string{"Loading bgmTTY..."},
		notify:   make(chan struct{}, 1),
	}
}

func (f *fakeData) FetchCollection() state.FetchResult[[]bangumi.CollectionEntry] {
	if !f.loaded {
		return state.Deferred[[]bangumi.CollectionEntry]()
	}
	return state.Direct(append([]bangumi.CollectionEntry(nil), f.collection...))
}

func (f *fakeData) FetchSubject(id int) state.FetchResult[bangumi.Subject] {
	if s, ok := f.subjects[id]; ok {
		return state.Direct(s)
	}
	return state.Deferred[bangumi.Subject]()
}

func (f *fakeData) FetchCollectionDetail(id int) state.FetchResult[*bangumi.CollectionDetail] {
	if d, ok := f.details[id]; ok {
		return state.Direct(d.Clone())
	}
	return state.Deferred[*bangumi.CollectionDetail]()
}

func (f *fakeData) FetchSearch(query string, page int) state.FetchResult[bangumi.SearchResult] {
	if r, ok := f.search[state.SearchKey{Query: query, Page: page}]; ok {
		return state.Direct(r)
	}
	return state.Deferred[bangumi.SearchResult]()
}

func (f *fakeData) UpdateProgress(entry bangumi.CollectionEntry, ep, vol *int) {
	if ep != nil {
		f.eps = append(f.eps, *ep)
	}
	if vol != nil {
		f.vols = append(f.vols, *vol)
	}
}

func (f *fakeData) UpdateCollectionDetail(id int, status bangumi.CollectionStatus, detail *bangumi.CollectionDetail) {
	f.updates = append(f.updates, updateCall{id: id, status: status, detail: detail.Clone()})
}

func (f *fakeData) PublishMessage(msg string) { f.messages = append(f.messages, msg) }

func (f *fakeData) LastMessage() string { return f.messages[len(f.messages)-1] }

func (f *fakeData) InFlight() int { return 0 }

func (f *fakeData) PageSize() int { return f.pageSize }

func (f *fakeData) Notifications() <-chan struct{} { return f.notify }

type fakeRecents struct {
	items    []history.Item
	recorded []history.Item
	err      error
}

func newFakeRecents(items ...history.Item) *fakeRecents {
	return &fakeRecents{items: items}
}

func (r *fakeRecents) Recent(n int) []history.Item {
	return r.items[:min(n, len(r.items))]
}

func (r *fakeRecents) Record(id int, name string) error {
	if r.err != nil {
		return r.err
	}
	r.recorded = append(r.recorded, history.Item{SubjectID: id, Name: name})
	return nil
}

func allFilters() [3]bool { return [3]bool{true, true, true} }

func newTestState() *UIState {
	return NewUIState(allFilters(), "Classic")
}

func newTestModel(data *fakeData, recents Recents) *Model {
	return NewModel(Options{Data: data, Recents: recents, Prefs: prefs.Defaults()})
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var (
	enterKey     = tea.KeyMsg{Type: tea.KeyEnter}
	escKey       = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey       = tea.KeyMsg{Type: tea.KeyTab}
	shiftTabKey  = tea.KeyMsg{Type: tea.KeyShiftTab}
	backspaceKey = tea.KeyMsg{Type: tea.KeyBackspace}
)

// typeText feeds text to the reducer one key at a time.
func typeText(s *UIState, d Deps, text string) {
	for _, r := range text {
		if r == ' ' {
			s.Reduce(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, d)
			continue
		}
		s.Reduce(runeKey(r), d)
	}
}

func anime(id, watched, total int, name string) bangumi.CollectionEntry {
	return bangumi.CollectionEntry{
		SubjectID: id,
		EpStatus:  watched,
		Subject:   bangumi.Subject{ID: id, Type: bangumi.SubjectAnime, Name: name, EpsCount: total},
	}
}
