package widget

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWideGlyphOverwrite(t *testing.T) {
	buf := NewBuffer(Rect{W: 4, H: 1})
	buf.SetString(0, 0, "你好", -1, Style{})
	require.Equal(t, "你好", buf.String())

	buf.Set(1, 0, "x", Style{})
	assert.Equal(t, " x好", buf.String())

	buf.Set(2, 0, "y", Style{})
	assert.Equal(t, " xy ", buf.String())
}

func TestBufferSetStringClips(t *testing.T) {
	buf := NewBuffer(Rect{W: 5, H: 1})
	n := buf.SetString(1, 0, "ab你好", -1, Style{})
	assert.Equal(t, 4, n)
	assert.Equal(t, " ab你", buf.String())

	buf.Clear()
	n = buf.SetString(0, 0, "abcdef", 3, Style{})
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc  ", buf.String())
}

func TestBufferRenderMatchesPlainText(t *testing.T) {
	buf := NewBuffer(Rect{W: 6, H: 2})
	buf.SetString(0, 0, "番组", -1, Style{Fg: "3", Bold: true})
	buf.SetString(0, 1, "ok", -1, Style{Fg: "4"})

	assert.Equal(t, "番组  \nok    ", ansi.Strip(buf.Render()))
	assert.Equal(t, buf.String(), ansi.Strip(buf.Render()))
}

func TestBlockInner(t *testing.T) {
	area := Rect{X: 2, Y: 3, W: 10, H: 5}
	assert.Equal(t, Rect{X: 3, Y: 4, W: 8, H: 3}, Block{Borders: BorderAll}.Inner(area))
	assert.Equal(t, Rect{X: 3, Y: 3, W: 8, H: 4}, Block{Borders: BorderAll ^ BorderTop}.Inner(area))
	assert.Equal(t, area, Block{}.Inner(area))
}

func TestBlockDrawTitle(t *testing.T) {
	buf := NewBuffer(Rect{W: 10, H: 3})
	Block{Borders: BorderAll, Title: "bgmTTY"}.Draw(buf.Area(), buf)

	rows := rowsOf(buf)
	assert.Equal(t, "┌bgmTTY──┐", rows[0])
	assert.Equal(t, "│        │", rows[1])
	assert.Equal(t, "└────────┘", rows[2])
}

func TestTabBarDrawAndIntercept(t *testing.T) {
	bar := NewTabBar([]string{"格子", "搜索", "#42"}, 1, 0)
	area := Rect{X: 1, Y: 1, W: 20, H: 1}
	bar.SetBound(area)
	buf := NewBuffer(Rect{W: 22, H: 3})
	bar.Draw(area, buf)

	assert.Equal(t, " 格子  搜索  #42      ", rowsOf(buf)[1][:len(" 格子  搜索  #42      ")])
	assert.True(t, buf.Cell(7, 1).Style.Bold)

	ev, ok := bar.Intercept(1, 1, ButtonLeft)
	require.True(t, ok)
	assert.Equal(t, TabEvent{Action: TabSelect, Index: 0}, ev)

	ev, ok = bar.Intercept(10, 1, ButtonMiddle)
	require.True(t, ok)
	assert.Equal(t, TabEvent{Action: TabClose, Index: 1}, ev)

	_, ok = bar.Intercept(5, 1, ButtonLeft)
	assert.False(t, ok, "gap between labels")

	ev, ok = bar.Intercept(3, 1, WheelDown)
	require.True(t, ok)
	assert.Equal(t, TabScrollRight, ev.Action)
}

func TestTabBarOffsetClampAndScrollIntoView(t *testing.T) {
	labels := []string{"aaaa", "bbbb", "cccc", "dddd"} // inner width 22
	bar := NewTabBar(labels, 0, 50)
	bar.SetBound(Rect{W: 10, H: 1})
	assert.Equal(t, 12, bar.Offset())

	bar = NewTabBar(labels, 0, 3)
	bar.SetBound(Rect{W: 30, H: 1})
	assert.Equal(t, 0, bar.Offset())

	bar = NewTabBar(labels, 0, 0)
	bar.SetBound(Rect{W: 10, H: 1})
	bar.ScrollIntoView(3)
	assert.Equal(t, 12, bar.Offset())
	bar.ScrollIntoView(1)
	assert.Equal(t, 6, bar.Offset())

	buf := NewBuffer(Rect{W: 10, H: 1})
	bar.Draw(buf.Area(), buf)
	assert.Equal(t, "bbbb  cccc", buf.String())

	ev, ok := bar.Intercept(0, 0, ButtonLeft)
	require.True(t, ok)
	assert.Equal(t, 1, ev.Index)

	bar.ScrollBy(-100)
	assert.Equal(t, 0, bar.Offset())
	bar.ScrollBy(100)
	assert.Equal(t, 12, bar.Offset())
}

func TestTabBarDropsSplitWideGlyph(t *testing.T) {
	assert.Equal(t, " 好", dropColumns("你好", 1))
	assert.Equal(t, "好", dropColumns("你好", 2))
	assert.Equal(t, "", dropColumns("你好", 4))
}

func TestFilterList(t *testing.T) {
	list := NewFilterList([]string{"动画", "书籍"}, []bool{true, false}).WithCounts([]int{3, 0})
	area := Rect{X: 1, Y: 2, W: 14, H: 2}
	list.SetBound(area)
	buf := NewBuffer(Rect{W: 16, H: 5})
	list.Draw(area, buf)

	rows := rowsOf(buf)
	assert.Equal(t, " [x] 动画 (3)  ", rows[2][:len(" [x] 动画 (3)  ")])
	assert.Equal(t, " [ ] 书籍 (0)  ", rows[3][:len(" [ ] 书籍 (0)  ")])
	assert.Equal(t, 2, list.Height(14))

	ev, ok := list.Intercept(4, 3, ButtonLeft)
	require.True(t, ok)
	assert.Equal(t, 1, ev.Index)

	_, ok = list.Intercept(4, 3, ButtonRight)
	assert.False(t, ok)
	_, ok = list.Intercept(4, 4, ButtonLeft)
	assert.False(t, ok)
}

func TestProgressBar(t *testing.T) {
	bar := &ProgressBar{Current: 5, Total: 12}
	assert.Equal(t, 4, bar.Height(5))
	assert.Equal(t, 2, bar.Height(12))
	assert.Equal(t, 0, bar.Height(0))

	buf := NewBuffer(Rect{W: 6, H: 3})
	bar.Draw(buf.Area(), buf)
	rows := rowsOf(buf)
	assert.Equal(t, "5 / 12", rows[0])
	assert.Equal(t, "█████░", rows[1])
	assert.Equal(t, "░░░░░░", rows[2])
}

func TestProgressBarUnknownTotal(t *testing.T) {
	bar := &ProgressBar{Current: 3}
	assert.Equal(t, 2, bar.Height(10))

	buf := NewBuffer(Rect{W: 6, H: 2})
	bar.Draw(buf.Area(), buf)
	rows := rowsOf(buf)
	assert.Equal(t, "3 / ? ", rows[0])
	assert.Equal(t, "███   ", rows[1])

	assert.Equal(t, 1, (&ProgressBar{}).Height(10))
}

func TestEntryCard(t *testing.T) {
	card := &EntryCard{Kind: "动画", ID: 42, Name: "Cowboy Bebop", NameCN: "星际牛仔"}
	assert.Equal(t, 5, card.Height(20))

	card.Progress = &ProgressBar{Current: 1, Total: 26}
	assert.Equal(t, 5+1+2, card.Height(20))

	buf := NewBuffer(Rect{W: 20, H: card.Height(20)})
	card.Draw(buf.Area(), buf)
	rows := rowsOf(buf)
	assert.Equal(t, "┌──────────────────┐", rows[0])
	assert.Equal(t, "│动画 #42          │", rows[1])
	assert.Equal(t, "│Cowboy Bebop      │", rows[2])
	assert.Equal(t, "│星际牛仔          │", rows[3])
	assert.Equal(t, "│1 / 26            │", rows[4])

	_, ok := card.Intercept(0, 0, ButtonRight)
	assert.True(t, ok)
}

func TestEntryCardSkipsDuplicateTitle(t *testing.T) {
	card := &EntryCard{Kind: "书籍", ID: 1, Name: "同名", NameCN: "同名"}
	assert.Equal(t, 4, card.Height(20))
}

func TestRouteChecksBound(t *testing.T) {
	list := NewFilterList([]string{"a"}, []bool{true})
	list.SetBound(Rect{X: 5, Y: 5, W: 4, H: 1})

	_, ok := Route[FilterEvent](list, 0, 0, ButtonLeft)
	assert.False(t, ok)
	ev, ok := Route[FilterEvent](list, 6, 5, ButtonLeft)
	assert.True(t, ok)
	assert.Equal(t, 0, ev.Index)
}
