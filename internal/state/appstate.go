package state

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/logging"
)

const (
	defaultPageSize = 10
	defaultWorkers  = 4
	maxMessages     = 200
	initialMessage  = "Loading bgmTTY..."
)

// SearchKey identifies one page of search results.
type SearchKey struct {
	Query string
	Page  int
}

// Options configure an AppState.
type Options struct {
	Client   bangumi.Service
	PageSize int   // search results per page; zero uses the default
	Workers  int64 // concurrent API calls; zero uses the default
	Backoff  time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// AppState is the request-deduplicating data cache shared by the UI loop and
// the background fetch tasks.
type AppState struct {
	ctx      context.Context
	client   bangumi.Service
	pageSize int
	backoff  time.Duration
	log      *slog.Logger
	now      func() time.Time

	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	notify chan struct{}

	mu    sync.Mutex
	inner inner
}

type inner struct {
	collection Entry[struct{}, []bangumi.CollectionEntry]
	subject    Entry[int, bangumi.Subject]
	detail     Entry[int, *bangumi.CollectionDetail]
	search     Entry[SearchKey, bangumi.SearchResult]

	messages []string
	inFlight int
}

// New builds an AppState. Background tasks run until ctx is cancelled.
func New(ctx context.Context, opts Options) *AppState {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.Logger == nil {
		opts.Logger = logging.Component("state")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AppState{
		ctx:      ctx,
		client:   opts.Client,
		pageSize: opts.PageSize,
		backoff:  opts.Backoff,
		log:      opts.Logger,
		now:      opts.Now,
		sem:      semaphore.NewWeighted(opts.Workers),
		notify:   make(chan struct{}, 1),
		inner:    inner{messages: []string{initialMessage}},
	}
}

// Notifications delivers a value whenever state visible to the UI changed.
// Bursts are coalesced into a single pending notification.
func (s *AppState) Notifications() <-chan struct{} {
	return s.notify
}

// PageSize returns the number of search results per page.
func (s *AppState) PageSize() int {
	return s.pageSize
}

// FetchCollection returns the user's watching list.
func (s *AppState) FetchCollection() FetchResult[[]bangumi.CollectionEntry] {
	return fetch(s, &s.inner.collection, struct{}{}, request[[]bangumi.CollectionEntry]{
		name:    "collection",
		started: "刷新收藏中...",
		done:    "收藏加载完成！",
		failed:  "收藏加载失败",
		clone:   cloneEntries,
		call:    s.client.Collection,
	})
}

// FetchSubject returns the subject with the given id.
func (s *AppState) FetchSubject(id int) FetchResult[bangumi.Subject] {
	return fetch(s, &s.inner.subject, id, request[bangumi.Subject]{
		name:    "subject",
		started: fmt.Sprintf("获取条目中: %d...", id),
		done:    "条目加载完成！",
		failed:  "条目加载失败",
		call: func(ctx context.Context) (bangumi.Subject, error) {
			return s.client.Subject(ctx, id)
		},
	})
}

// FetchCollectionDetail returns the user's collection record for a subject.
// A Direct nil detail means the subject is not collected.
func (s *AppState) FetchCollectionDetail(id int) FetchResult[*bangumi.CollectionDetail] {
	return fetch(s, &s.inner.detail, id, request[*bangumi.CollectionDetail]{
		name:    "collection_detail",
		started: "获取收藏状态...",
		done:    "收藏加载完成！",
		failed:  "收藏状态加载失败",
		clone:   (*bangumi.CollectionDetail).Clone,
		call: func(ctx context.Context) (*bangumi.CollectionDetail, error) {
			return s.client.CollectionDetail(ctx, id)
		},
	})
}

// FetchSearch returns one page of search results for query.
func (s *AppState) FetchSearch(query string, page int) FetchResult[bangumi.SearchResult] {
	key := SearchKey{Query: strings.TrimSpace(query), Page: max(page, 0)}
	return fetch(s, &s.inner.search, key, request[bangumi.SearchResult]{
		name:    "search",
		started: fmt.Sprintf("搜索中: %s...", key.Query),
		done:    "搜索完成！",
		failed:  "搜索失败",
		clone:   cloneSearch,
		call: func(ctx context.Context) (bangumi.SearchResult, error) {
			return s.client.Search(ctx, key.Query, s.pageSize, key.Page*s.pageSize)
		},
	})
}

// UpdateProgress sets the watched episodes and/or volumes of entry. The
// collection is discarded once the update lands so the next read is fresh.
func (s *AppState) UpdateProgress(entry bangumi.CollectionEntry, ep, vol *int) {
	id := entry.Subject.ID
	s.publish(fmt.Sprintf("更新进度: %d...", id))
	s.spawn("update_progress", func(ctx context.Context, log *slog.Logger) {
		err := s.client.UpdateProgress(ctx, entry, ep, vol)

		s.mu.Lock()
		if err != nil {
			log.Warn("update progress failed", "subject", id, "error", err)
			s.pushLocked(fmt.Sprintf("进度更新失败: %v", err))
		} else {
			log.Info("progress updated", "subject", id)
			s.inner.collection.discard()
			s.pushLocked("进度更新完成！")
		}
		s.mu.Unlock()
		s.wake()
	})
}

// UpdateCollectionDetail writes the collection record of a subject. The
// server's answer replaces the cached detail when it still refers to id, and
// the collection is discarded.
func (s *AppState) UpdateCollectionDetail(id int, status bangumi.CollectionStatus, detail *bangumi.CollectionDetail) {
	detail = detail.Clone()
	s.publish(fmt.Sprintf("更新收藏中: %d...", id))
	s.spawn("update_collection_detail", func(ctx context.Context, log *slog.Logger) {
		resp, err := s.client.UpdateCollectionDetail(ctx, id, status, detail)

		s.mu.Lock()
		if err != nil {
			log.Warn("update collection failed", "subject", id, "error", err)
			s.pushLocked(fmt.Sprintf("收藏更新失败: %v", err))
		} else {
			log.Info("collection updated", "subject", id, "status", status)
			s.inner.detail.store(id, &resp)
			s.inner.collection.discard()
			s.pushLocked("收藏更新完成！")
		}
		s.mu.Unlock()
		s.wake()
	})
}

// PublishMessage appends a status line message.
func (s *AppState) PublishMessage(msg string) {
	s.publish(msg)
}

// LastMessage returns the most recent status line message.
func (s *AppState) LastMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.messages[len(s.inner.messages)-1]
}

// InFlight returns the number of running background tasks.
func (s *AppState) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.inFlight
}

// Wait blocks until every background task has finished.
func (s *AppState) Wait() {
	s.wg.Wait()
}

type request[V any] struct {
	name    string
	started string
	done    string
	failed  string
	clone   func(V) V
	call    func(context.Context) (V, error)
}

// fetch runs the shared fetch-or-defer algorithm for one cache entry.
func fetch[K comparable, V any](s *AppState, e *Entry[K, V], key K, req request[V]) FetchResult[V] {
	s.mu.Lock()
	value, phase := e.lookup(key)
	switch {
	case phase == Fetched:
		s.mu.Unlock()
		if req.clone != nil {
			value = req.clone(value)
		}
		return Direct(value)
	case phase == Fetching, e.coolingDown(key, s.now()):
		s.mu.Unlock()
		return Deferred[V]()
	}
	e.begin(key)
	s.pushLocked(req.started)
	s.mu.Unlock()
	s.wake()

	s.spawn(req.name, func(ctx context.Context, log *slog.Logger) {
		v, err := req.call(ctx)

		s.mu.Lock()
		if err != nil {
			if e.fail(key, s.now(), s.backoff) {
				s.pushLocked(fmt.Sprintf("%s: %v", req.failed, err))
			}
			s.mu.Unlock()
			log.Warn("fetch failed", "key", key, "error", err)
			s.wake()
			return
		}
		stored := e.complete(key, v)
		if stored {
			s.pushLocked(req.done)
		}
		s.mu.Unlock()
		if !stored {
			log.Debug("dropping superseded result", "key", key)
			return
		}
		log.Debug("fetch completed", "key", key)
		s.wake()
	})
	return Deferred[V]()
}

// spawn runs fn on the bounded task pool.
func (s *AppState) spawn(name string, fn func(ctx context.Context, log *slog.Logger)) {
	log := s.log.With("task", name, "task_id", uuid.NewString())

	s.mu.Lock()
	s.inner.inFlight++
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.inner.inFlight--
			s.mu.Unlock()
			s.wake()
		}()

		if err := s.sem.Acquire(s.ctx, 1); err == nil {
			defer s.sem.Release(1)
		}
		start := time.Now()
		fn(s.ctx, log)
		log.Debug("task finished", "elapsed", time.Since(start))
	}()
}

func (s *AppState) publish(msg string) {
	s.mu.Lock()
	s.pushLocked(msg)
	s.mu.Unlock()
	s.wake()
}

func (s *AppState) pushLocked(msg string) {
	s.inner.messages = append(s.inner.messages, msg)
	if n := len(s.inner.messages); n > maxMessages {
		s.inner.messages = append(s.inner.messages[:0:0], s.inner.messages[n-maxMessages:]...)
	}
}

// wake performs a non-blocking send on the notifier.
func (s *AppState) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func cloneEntries(entries []bangumi.CollectionEntry) []bangumi.CollectionEntry {
	if entries == nil {
		return nil
	}
	dup := make([]bangumi.CollectionEntry, len(entries))
	copy(dup, entries)
	return dup
}

func cloneSearch(res bangumi.SearchResult) bangumi.SearchResult {
	res.List = append([]bangumi.Subject(nil), res.List...)
	return res
}
