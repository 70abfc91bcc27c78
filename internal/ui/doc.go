// Package ui provides the terminal user interface of bgmTTY.
//
// # Architecture Overview
//
// The UI runs on bubbletea. Model.Update feeds exactly one message to the
// reducer (UIState.Reduce) and then paints the whole screen into a
// widget.Buffer; View returns the painted frame. Data never blocks the loop:
// the paint pass reads the state.AppState cache, which answers with either a
// cached value or Deferred, and a data-ready notification triggers the next
// paint.
//
// # Package Structure
//
//   - ui.go: Options and Run, program setup (alt screen, mouse)
//   - model.go: the bubbletea Model, external editor handling, theme saving
//   - state.go: UIState, tabs, focus, long commands and pending effects
//   - reducer.go: key and mouse reduction, normal mode dispatch
//   - commands.go: the ':' command line grammar
//   - render.go: the paint pass and pointer hit-testing
//   - help.go: the state-gated help database
//   - keys.go: key bindings
//   - theme.go: color themes
//
// # Event Flow
//
//  1. A key or mouse message reaches Model.Update
//  2. UIState.Reduce routes keys to the active long command first; Esc
//     cancels it, other keys either keep it active or resolve it
//  3. Otherwise keys are dispatched by the active tab; mouse events only
//     record a pending click
//  4. Paint draws tabs, body, help and status line, collecting a hit target
//     for every clickable widget it drew
//  5. A pending click is resolved against those targets; when it changed
//     the state the screen is painted again
//  6. Pending quit and external editor requests are turned into commands
//
// # Tabs
//
//   - 格子: the collection, with type filters and progress cards
//   - 搜索: search entry and recently opened subjects
//   - 条目: one subject with its collection status, rating, tags and comment
//   - 搜索结果: one page of search results
//
// # Long Commands
//
//   - g: prefix for gt / gT
//   - :: command line (qa, q, help, tabe search|coll, tabm n, theme [name])
//   - t: prefix for filter toggles t1..t9
//   - r: rating editor
//   - s: status editor, Tab / Shift-Tab cycle
//   - /: search input
//
// # External Editor
//
// The comment editor runs through tea.ExecProcess, which releases the
// terminal and stops the input reader while the editor runs. The comment is
// written to a temp file and read back afterwards.
package ui
