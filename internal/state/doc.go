// Package state provides the request-deduplicating data cache shared by the
// bgmTTY UI loop and its background fetch tasks.
//
// # Overview
//
// The UI never waits on the network. Every read goes through an accessor that
// answers synchronously with a FetchResult: Direct when the value is cached,
// Deferred when a background task is (or has just been started) populating
// it. When the task finishes, AppState wakes the UI through its notifier and
// the next repaint reads the value directly.
//
// # Cache Entries
//
// Each resource family owns one Entry:
//
//	collection         Entry[struct{}, []CollectionEntry]
//	subject            Entry[int, Subject]
//	collection detail  Entry[int, *CollectionDetail]
//	search             Entry[SearchKey, SearchResult]
//
// An Entry is Discarded, Fetching(key) or Fetched(key, value). A read for a
// different key than the one stored replaces the slot, so only the most
// recently requested key of a family is kept.
//
// # Fetch Algorithm
//
//	Fetched(key)   → Direct(clone of value), no network call
//	Fetching(key)  → Deferred, no duplicate request
//	otherwise      → Fetching(key), status message, notify,
//	                 spawn task, Deferred
//
// On completion the task re-takes the lock and stores the value only if the
// entry is still Fetching the same key. A result for a superseded key is
// dropped. On failure the entry goes back to Discarded and the key enters a
// retry back-off (2s doubling up to 30s) so a failing endpoint is not hit on
// every repaint.
//
// # Mutations
//
// UpdateProgress and UpdateCollectionDetail discard the collection when the
// server acknowledges the change. UpdateCollectionDetail also stores the
// server's answer in the detail slot when it still refers to the subject.
//
// # Concurrency Model
//
// Tasks run on goroutines bounded by a weighted semaphore. The UI goroutine
// and the tasks share state only through the mutex-guarded inner struct and
// the one-slot notifier channel; critical sections never perform I/O.
// Notifications are coalesced: a send never blocks, and a pending wake-up
// covers any number of changes.
//
// # Messages
//
// AppState keeps a bounded log of human readable status messages. The last
// one is shown on the status line.
package state
