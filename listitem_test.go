package listkit

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedPanel is a custom panel of a fixed width without slots.
type fixedPanel struct {
	width float64
}

func (p fixedPanel) Width() float64                      { return p.width }
func (p fixedPanel) Draw(tcell.Screen, Rect, PanelStatus) {}
func (p fixedPanel) SlotAt(float64) int                  { return -1 }

func fixedPanelOf(width float64) PanelFactory {
	return func(*ListItemActions) Panel { return fixedPanel{width: width} }
}

func TestClickWithoutActions(t *testing.T) {
	env, _ := newTestEnv(t)
	item := newTestItem(env, 40)
	clicks := 0
	item.SetClickedFunc(func() { clicks++ })

	require.True(t, item.PointerPress(Point{X: 10, Y: 1}))
	assert.True(t, item.Pressed())
	require.True(t, item.PointerRelease(Point{X: 10, Y: 1}))
	settle(env)

	assert.Equal(t, 1, clicks)
	assert.Zero(t, item.ContentX())
	assert.False(t, item.Pressed())
	assert.Nil(t, item.LeadingActions())
	assert.Nil(t, item.TrailingActions())
	assert.Zero(t, env.Window.FilterCount())
}

func TestClickDoesNotCreatePanels(t *testing.T) {
	env, _ := newTestEnv(t)
	item := newTestItem(env, 40)
	leading := NewListItemActions(env, NewAction("delete", "Delete"))
	item.SetLeadingActions(leading)

	item.PointerPress(Point{X: 10, Y: 1})
	item.PointerMove(Point{X: 11, Y: 1})
	item.PointerRelease(Point{X: 11, Y: 1})
	settle(env)

	assert.Nil(t, leading.Panel())
	assert.Equal(t, PanelDisconnected, leading.Status())
}

func TestClickTriggersDefaultAction(t *testing.T) {
	env, _ := newTestEnv(t)
	var dispatched []string
	env.Dispatcher = DispatcherFunc(func(id string, value int) {
		dispatched = append(dispatched, id)
	})
	item := newTestItem(env, 40)
	value := 0
	action := NewAction("open", "Open").SetTriggeredFunc(func(v int) { value = v })
	item.SetAction(action)

	item.PointerPress(Point{X: 10, Y: 1})
	item.PointerRelease(Point{X: 10, Y: 1})
	assert.Equal(t, -1, value)
	assert.Equal(t, []string{"open"}, dispatched)

	action.SetEnabled(false)
	item.Click()
	assert.Len(t, dispatched, 1)
}

func TestSwipeRevealsWholeSlot(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(120))
	item := newTestItem(env, 400)
	trailing := NewListItemActions(env, NewAction("delete", "Delete"))
	item.SetTrailingActions(trailing)

	swipe(item, 300, 100)
	assert.Equal(t, -120.0, item.ContentX())
	assert.Equal(t, PanelTrailing, trailing.Status())
	assert.Equal(t, 120.0, trailing.Offset())
	assert.Equal(t, 1, trailing.VisibleCount())
	assert.True(t, trailing.Dragging())

	assert.Equal(t, -120.0, trailing.SnapTarget())
	item.PointerRelease(Point{X: 100, Y: 1})
	settle(env)

	assert.Equal(t, -120.0, item.ContentX())
	assert.Same(t, item, trailing.ConnectedItem())
	assert.False(t, trailing.Dragging())
	assert.True(t, item.ScrollLock().Captured())
}

func TestShortSwipeRebounds(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(120))
	item := newTestItem(env, 400)
	trailing := NewListItemActions(env, NewAction("delete", "Delete"))
	item.SetTrailingActions(trailing)
	clicks := 0
	item.SetClickedFunc(func() { clicks++ })

	swipe(item, 300, 270)
	assert.Equal(t, -30.0, item.ContentX())
	assert.Zero(t, trailing.SnapTarget())

	item.PointerRelease(Point{X: 270, Y: 1})
	settle(env)

	assert.Zero(t, item.ContentX())
	assert.Equal(t, PanelDisconnected, trailing.Status())
	assert.Nil(t, trailing.ConnectedItem())
	assert.False(t, item.ScrollLock().Captured())
	assert.Zero(t, env.Window.FilterCount())
	assert.Zero(t, clicks)
}

func TestContentOffsetStaysWithinPanels(t *testing.T) {
	cases := []struct {
		name              string
		leading, trailing float64
		hasLeading        bool
		moves             []float64
	}{
		{name: "both", leading: 20, trailing: 30, hasLeading: true, moves: []float64{100, -200, 5, 17, -29, 300, -1}},
		{name: "trailing only", trailing: 12, moves: []float64{50, -5, -50, 3, 90}},
		{name: "empty leading", leading: 0, trailing: 8, hasLeading: true, moves: []float64{40, -3, 12, -40}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, _ := newTestEnv(t)
			item := newTestItem(env, 400)
			item.SetTrailingActions(NewListItemActions(env).SetCustomPanel(fixedPanelOf(tc.trailing)))
			if tc.hasLeading {
				item.SetLeadingActions(NewListItemActions(env).SetCustomPanel(fixedPanelOf(tc.leading)))
			}

			item.PointerPress(Point{X: 200, Y: 1})
			item.PointerMove(Point{X: 195, Y: 1})
			x := 195.0
			for _, dx := range tc.moves {
				x += dx
				item.PointerMove(Point{X: x, Y: 1})
				assert.GreaterOrEqual(t, item.ContentX(), -tc.trailing)
				assert.LessOrEqual(t, item.ContentX(), tc.leading)
			}
		})
	}
}

func TestCustomPanelSnapsWhereDropped(t *testing.T) {
	env, _ := newTestEnv(t)
	item := newTestItem(env, 400)
	leading := NewListItemActions(env).SetCustomPanel(fixedPanelOf(50))
	item.SetLeadingActions(leading)

	swipe(item, 100, 117)
	assert.Equal(t, 17.0, item.ContentX())
	assert.Equal(t, 17.0, leading.SnapTarget())
	item.PointerRelease(Point{X: 117, Y: 1})
	settle(env)
	assert.Equal(t, 17.0, item.ContentX())

	leading.SnapToPosition(0)
	settle(env)
	assert.Zero(t, item.ContentX())
	assert.Equal(t, PanelDisconnected, leading.Status())
}

func TestReboundRestoresScrollLock(t *testing.T) {
	for _, interactive := range []bool{true, false} {
		env, _ := newTestEnv(t)
		flick := NewFlickable(env).SetInteractive(interactive)
		outer := NewFlickable(env)
		flick.SetParentNode(outer)
		item := newTestItem(env, 40)
		item.SetParentNode(flick)

		item.PointerPress(Point{X: 10, Y: 1})
		assert.False(t, flick.IsInteractive())
		assert.False(t, outer.IsInteractive())
		assert.Equal(t, 2, item.ScrollLock().Len())

		item.PointerRelease(Point{X: 10, Y: 1})
		settle(env)
		assert.Zero(t, item.ContentX())
		assert.Equal(t, interactive, flick.IsInteractive())
		assert.True(t, outer.IsInteractive())
		assert.False(t, item.ScrollLock().Captured())
	}
}

func TestScrollingInterruptsTuggedItem(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	flick := NewFlickable(env)
	item := newTestItem(env, 40)
	item.SetParentNode(flick)
	item.SetTrailingActions(NewListItemActions(env, NewAction("a", "A")))

	require.True(t, item.RevealTrailing())
	settle(env)
	require.Equal(t, -10.0, item.ContentX())

	flick.ScrollBy(1)
	settle(env)
	assert.Zero(t, item.ContentX())
	assert.True(t, flick.IsInteractive())
	assert.False(t, flick.IsMoving())
}

func TestPressIgnoredWhileAncestorMoves(t *testing.T) {
	env, _ := newTestEnv(t)
	flick := NewFlickable(env)
	item := newTestItem(env, 40)
	item.SetParentNode(flick)

	flick.ScrollBy(1)
	assert.False(t, item.PointerPress(Point{X: 1, Y: 1}))
	settle(env)
	assert.True(t, item.PointerPress(Point{X: 1, Y: 1}))
}

func TestPressElsewhereClosesItem(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	item := newTestItem(env, 40)
	item.SetLeadingActions(NewListItemActions(env, NewAction("a", "A"), NewAction("b", "B")))
	require.True(t, item.RevealLeading())
	settle(env)
	require.Equal(t, 20.0, item.ContentX())
	require.Equal(t, 1, env.Window.FilterCount())

	env.Window.DispatchPress(Point{X: 10, Y: 1})
	settle(env)
	assert.Equal(t, 20.0, item.ContentX(), "a press on the item itself keeps it open")

	env.Window.DispatchPress(Point{X: 10, Y: 30})
	settle(env)
	assert.Zero(t, item.ContentX())
	assert.Zero(t, env.Window.FilterCount())
}

func TestFocusLossClosesItem(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	item := newTestItem(env, 40)
	item.SetTrailingActions(NewListItemActions(env, NewAction("a", "A")))
	item.RevealTrailing()
	settle(env)

	env.Window.SetFocused(false)
	settle(env)
	assert.Zero(t, item.ContentX())
	assert.False(t, item.ScrollLock().Captured())
}

func TestPressOnPanelTriggersAction(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(120))
	item := newTestItem(env, 400)
	triggered := 0
	trailing := NewListItemActions(env, NewAction("delete", "Delete").SetTriggeredFunc(func(int) { triggered++ }))
	item.SetTrailingActions(trailing)
	swipe(item, 300, 100)
	item.PointerRelease(Point{X: 100, Y: 1})
	settle(env)

	assert.True(t, item.PointerPress(Point{X: 340, Y: 1}))
	settle(env)
	assert.Equal(t, 1, triggered)
	assert.Zero(t, item.ContentX())
	assert.Equal(t, PanelDisconnected, trailing.Status())
}

func TestPressOnOpenItemClicksAndRebounds(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	item := newTestItem(env, 40)
	clicks := 0
	item.SetClickedFunc(func() { clicks++ })
	item.SetLeadingActions(NewListItemActions(env, NewAction("a", "A")))
	item.RevealLeading()
	settle(env)

	require.True(t, item.PointerPress(Point{X: 20, Y: 1}))
	item.PointerRelease(Point{X: 20, Y: 1})
	settle(env)
	assert.Equal(t, 1, clicks)
	assert.Zero(t, item.ContentX())
	assert.False(t, item.ScrollLock().Captured())
}

func TestPressAndHoldSuppressesClick(t *testing.T) {
	env, _ := newTestEnv(t)
	item := newTestItem(env, 40)
	clicks, holds := 0, 0
	item.SetClickedFunc(func() { clicks++ })
	item.SetPressAndHoldFunc(func() { holds++ })

	item.PointerPress(Point{X: 5, Y: 1})
	env.Loop.Advance(env.Config.Gesture.PressAndHold.Duration() + time.Millisecond)
	item.PointerRelease(Point{X: 5, Y: 1})

	assert.Equal(t, 1, holds)
	assert.Zero(t, clicks)

	item.SetEnabled(false)
	assert.Equal(t, 0.5, item.Opacity())
	item.PointerPress(Point{X: 5, Y: 1})
	env.Loop.Advance(time.Second)
	item.PointerRelease(Point{X: 5, Y: 1})
	assert.Equal(t, 1, holds)
	item.SetEnabled(true)
	assert.Equal(t, 1.0, item.Opacity())
}

func TestQueuedPanelIsHandedOver(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	shared := NewListItemActions(env, NewAction("a", "A"))
	first := newTestItem(env, 40)
	second := newTestItem(env, 40)
	second.SetRect(0, 3, 40, 3)
	first.SetTrailingActions(shared)
	second.SetTrailingActions(shared)

	require.True(t, first.RevealTrailing())
	settle(env)

	swipe(second, 30, 20)
	assert.Same(t, first, shared.ConnectedItem())
	assert.Zero(t, second.ContentX())

	first.Rebound()
	settle(env)
	assert.Same(t, second, shared.ConnectedItem())

	second.PointerMove(Point{X: 12, Y: 1})
	assert.Equal(t, -5.0, second.ContentX())
}

func TestQueuedPanelHandedOverAfterRelease(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	shared := NewListItemActions(env, NewAction("a", "A"))
	first := newTestItem(env, 40)
	second := newTestItem(env, 40)
	second.SetRect(0, 3, 40, 3)
	first.SetLeadingActions(shared)
	second.SetLeadingActions(shared)

	first.RevealLeading()
	settle(env)
	swipe(second, 10, 20)
	second.PointerRelease(Point{X: 20, Y: 1})

	first.Rebound()
	settle(env)
	assert.Same(t, second, shared.ConnectedItem())
	assert.Zero(t, second.ContentX())
	assert.True(t, second.ScrollLock().Captured())
	assert.Equal(t, 1, env.Window.FilterCount())

	env.Window.DispatchPress(Point{X: 5, Y: 50})
	settle(env)
	assert.Nil(t, shared.ConnectedItem())
	assert.Zero(t, env.Window.FilterCount())
	assert.False(t, second.ScrollLock().Captured())
}

func TestScrollLockSharedBetweenItems(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	list := newTestList(env, 3, 9)
	a, b := list.Item(0), list.Item(1)
	a.SetLeadingActions(NewListItemActions(env, NewAction("a", "A")))
	require.True(t, a.RevealLeading())
	settle(env)
	require.False(t, list.IsInteractive())

	env.Window.DispatchPress(Point{X: 10, Y: 4})
	require.True(t, b.PointerPress(Point{X: 10, Y: 1}))
	settle(env)
	assert.Zero(t, a.ContentX())
	assert.False(t, a.ScrollLock().Captured())
	assert.True(t, b.ScrollLock().Captured())
	assert.Equal(t, 1, b.ScrollLock().Len())
	assert.Equal(t, 1, env.locks.holders(list.Interactive()))
	assert.False(t, list.IsInteractive(), "b still holds the list")

	b.PointerRelease(Point{X: 10, Y: 1})
	settle(env)
	assert.True(t, list.IsInteractive())
}

func TestScrollLockSharedWithExpansion(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	list := newTestList(env, 3, 30)
	item := list.Item(0)
	item.SetLeadingActions(NewListItemActions(env, NewAction("a", "A")))
	item.Expansion().SetHeight(6)

	require.True(t, item.RevealLeading())
	settle(env)
	item.Expansion().SetExpanded(true)
	settle(env)
	require.True(t, item.Expansion().Expanded())

	item.Rebound()
	settle(env)
	assert.False(t, item.ScrollLock().Captured())
	assert.False(t, list.IsInteractive(), "the expansion still holds the list")

	item.Expansion().SetExpanded(false)
	settle(env)
	assert.True(t, list.IsInteractive())
}

func TestNoSwipeWhileExpanded(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	list := newTestList(env, 3, 30)
	item := list.Item(0)
	item.SetLeadingActions(NewListItemActions(env, NewAction("a", "A")))
	item.Expansion().SetHeight(6).SetExpanded(true)
	settle(env)

	swipe(item, 10, 18)
	assert.Zero(t, item.ContentX())
	assert.Equal(t, PanelDisconnected, item.LeadingActions().Status())
}

func TestSharedActionsWarn(t *testing.T) {
	env, logs := newTestEnv(t)
	shared := NewListItemActions(env)
	item := NewListItem(env)
	item.SetLeadingActions(shared)
	item.SetTrailingActions(shared)
	assert.Contains(t, logs.String(), "leadingActions and trailingActions cannot share the same object!")
}

func TestSelectionMode(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	item := newTestItem(env, 40)
	item.SetTrailingActions(NewListItemActions(env, NewAction("a", "A")))
	item.RevealTrailing()
	settle(env)

	item.SetSelectable(true)
	settle(env)
	assert.Equal(t, env.GU(env.Config.Item.SelectionPanelGU), item.ContentX())
	assert.Equal(t, PanelDisconnected, item.TrailingActions().Status())

	assert.True(t, item.PointerPress(Point{X: 1, Y: 1}))
	assert.True(t, item.Selected())
	assert.False(t, item.PointerPress(Point{X: 30, Y: 1}))
	item.Click()
	assert.False(t, item.Selected())

	item.SetSelectable(false)
	settle(env)
	assert.Zero(t, item.ContentX())
}

func TestDestroyReleasesEverything(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	flick := NewFlickable(env)
	item := newTestItem(env, 40)
	item.SetParentNode(flick)
	trailing := NewListItemActions(env, NewAction("a", "A"))
	item.SetTrailingActions(trailing)
	item.RevealTrailing()
	require.Equal(t, 1, env.Items.Len())

	item.Destroy()
	assert.Zero(t, env.Items.Len())
	assert.Zero(t, item.ContentX())
	assert.True(t, flick.IsInteractive())
	assert.Equal(t, PanelDisconnected, trailing.Status())
	assert.Zero(t, env.Window.FilterCount())
}

func TestItemKeys(t *testing.T) {
	env, _ := newTestEnv(t, slotWidth(10))
	item := newTestItem(env, 40)
	item.SetLeadingActions(NewListItemActions(env, NewAction("a", "A")))
	clicks := 0
	item.SetClickedFunc(func() { clicks++ })

	assert.NotNil(t, item.InputHandler(tcell.NewEventKey(tcell.KeyRight, "", tcell.ModNone)))
	settle(env)
	assert.Equal(t, 10.0, item.ContentX())

	item.InputHandler(tcell.NewEventKey(tcell.KeyEscape, "", tcell.ModNone))
	settle(env)
	assert.Zero(t, item.ContentX())

	item.InputHandler(tcell.NewEventKey(tcell.KeyEnter, "", tcell.ModNone))
	assert.Equal(t, 1, clicks)
	assert.Nil(t, item.InputHandler(tcell.NewEventKey(tcell.KeyEscape, "", tcell.ModNone)))
}
