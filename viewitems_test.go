package listkit

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryKeepsOneControllerPerContainer(t *testing.T) {
	env, _ := newTestEnv(t)
	a, b := NewFlickable(env), NewFlickable(env)

	assert.Nil(t, env.Controllers.Lookup(a))
	ca := env.Controllers.Get(a)
	require.NotNil(t, ca)
	assert.Same(t, ca, env.Controllers.Get(a))
	assert.Same(t, ca, env.Controllers.Lookup(a))
	assert.NotSame(t, ca, env.Controllers.Get(b))
	assert.Equal(t, 2, env.Controllers.Len())

	env.Controllers.Forget(a)
	assert.Nil(t, env.Controllers.Lookup(a))
	assert.Equal(t, 1, env.Controllers.Len())
	assert.Nil(t, env.Controllers.Get(nil))
}

func TestSelectionFollowsController(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 4, 12)
	controller := list.ViewItems()
	var changes [][]int
	controller.SetSelectedIndicesChangedFunc(func(indices []int) {
		changes = append(changes, indices)
	})

	controller.SetSelectMode(true)
	for _, item := range list.Items() {
		assert.True(t, item.Selectable())
	}

	list.Item(2).SetSelected(true)
	controller.Select(0)
	controller.Select(0)
	assert.Equal(t, []int{0, 2}, controller.SelectedIndices())
	assert.True(t, list.Item(0).Selected())
	assert.False(t, list.Item(1).Selected())

	controller.SetSelectedIndices([]int{3})
	assert.False(t, list.Item(2).Selected())
	assert.True(t, list.Item(3).Selected())
	assert.Equal(t, [][]int{{2}, {0, 2}, {3}}, changes)

	controller.SetSelectMode(false)
	settle(env)
	for _, item := range list.Items() {
		assert.False(t, item.Selectable())
		assert.Zero(t, item.ContentX())
	}
}

func TestNewItemsFollowSelectMode(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 2, 6)
	list.ViewItems().SetSelectMode(true)
	list.SetModel(testModel(3), func(int) *ListItem { return NewListItem(env) })
	for _, item := range list.Items() {
		assert.True(t, item.Selectable())
	}
}

// moveSelection moves one element of a boolean selection array.
func moveSelection(selected []int, n, from, to int) []int {
	flags := make([]bool, n)
	for _, index := range selected {
		flags[index] = true
	}
	moved := flags[from]
	flags = slices.Delete(flags, from, from+1)
	flags = slices.Insert(flags, to, moved)
	out := []int{}
	for index, flag := range flags {
		if flag {
			out = append(out, index)
		}
	}
	return out
}

func TestRemapSelectionMatchesArrayMove(t *testing.T) {
	const n = 6
	selections := [][]int{{}, {0}, {5}, {1, 2}, {0, 3, 5}, {0, 1, 2, 3, 4, 5}, {2, 4}}
	for _, selected := range selections {
		for from := range n {
			for to := range n {
				if from == to {
					continue
				}
				t.Run(fmt.Sprintf("%v/%d-%d", selected, from, to), func(t *testing.T) {
					assert.Equal(t, moveSelection(selected, n, from, to), RemapSelection(selected, from, to))
				})
			}
		}
	}
}

func TestDragModeRequiresList(t *testing.T) {
	env, logs := newTestEnv(t)
	controller := env.Controllers.Get(NewFlickable(env))
	assert.False(t, controller.SetDragMode(true))
	assert.Contains(t, logs.String(), "dragging mode requires ListView")
}

func TestDragModeRequiresModel(t *testing.T) {
	env, logs := newTestEnv(t)
	list := NewListView(env)
	controller := list.ViewItems()
	controller.SetDraggingUpdatedFunc(func(*DragEvent) {})

	assert.False(t, controller.SetDragMode(true))
	assert.False(t, controller.DragMode())
	assert.Zero(t, controller.DragStripWidth())
	assert.Contains(t, logs.String(), "dragging mode requires a model")
}

func TestDragModeRequiresUpdatedHandler(t *testing.T) {
	env, logs := newTestEnv(t)
	list := newTestList(env, 3, 9)
	controller := list.ViewItems()

	assert.False(t, controller.SetDragMode(true))
	assert.Contains(t, logs.String(), "No dragging will be possible.")

	modes := []bool{}
	controller.SetDragModeChangedFunc(func(dragMode bool) { modes = append(modes, dragMode) })
	controller.SetDraggingUpdatedFunc(func(*DragEvent) {})
	assert.True(t, controller.SetDragMode(true))
	assert.Equal(t, env.GU(env.Config.Drag.StripWidthGU), controller.DragStripWidth())
	assert.True(t, controller.SetDragMode(false))
	assert.Equal(t, []bool{true, false}, modes)
}

func TestDragReportsMovesAndRemapsSelection(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 5, 15)
	controller := list.ViewItems()
	var events []DragEvent
	controller.SetDraggingUpdatedFunc(func(event *DragEvent) {
		events = append(events, *event)
	})
	require.True(t, controller.SetDragMode(true))
	controller.SetSelectedIndices([]int{0, 3})

	require.True(t, controller.startDrag(Point{X: 38, Y: 1}))
	assert.False(t, list.IsInteractive())
	ghost, rect, ok := controller.Ghost()
	require.True(t, ok)
	require.NotNil(t, ghost)
	assert.Equal(t, 0.0, rect.Y)
	assert.Equal(t, 6, env.Items.Len())

	controller.updateDrag(Point{X: 38, Y: 4})
	assert.Empty(t, events)
	controller.updateDrag(Point{X: 38, Y: 7})
	require.Len(t, events, 1)
	assert.Equal(t, DragEvent{Status: DragMoving, Direction: DragDownwards, From: 0, To: 1, Minimum: -1, Maximum: -1, Accept: true}, events[0])
	assert.Equal(t, []int{1, 3}, controller.SelectedIndices())

	// The target follows the center the ghost had before the step.
	controller.updateDrag(Point{X: 38, Y: 1})
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[1].To)
	controller.updateDrag(Point{X: 38, Y: 0})
	require.Len(t, events, 3)
	assert.Equal(t, DragUpwards, events[2].Direction)
	assert.Equal(t, 2, events[2].From)
	assert.Equal(t, 0, events[2].To)
	assert.Equal(t, []int{0, 3}, controller.SelectedIndices())

	controller.stopDrag()
	assert.Len(t, events, 3, "an accepted move leaves nothing to drop")
	assert.True(t, list.IsInteractive())
	assert.False(t, controller.Dragging())
	assert.Equal(t, 5, env.Items.Len())
	from, to := controller.DragRange()
	assert.Equal(t, -1, from)
	assert.Equal(t, -1, to)
}

func TestDragDropsDeferredMove(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 5, 15)
	controller := list.ViewItems()
	var events []DragEvent
	controller.SetDraggingUpdatedFunc(func(event *DragEvent) {
		if event.Status == DragMoving {
			event.Accept = false
		}
		events = append(events, *event)
	})
	require.True(t, controller.SetDragMode(true))

	controller.startDrag(Point{X: 38, Y: 1})
	for y := 2.0; y <= 8; y++ {
		controller.updateDrag(Point{X: 38, Y: y})
	}
	controller.stopDrag()

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, DragDropped, last.Status)
	assert.Equal(t, DragNone, last.Direction)
	assert.Equal(t, 0, last.From)
	assert.Equal(t, 2, last.To)
}

func TestDragStartCanBeVetoedOrBounded(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 5, 15)
	controller := list.ViewItems()
	var events []DragEvent
	controller.SetDraggingUpdatedFunc(func(event *DragEvent) { events = append(events, *event) })
	require.True(t, controller.SetDragMode(true))

	controller.SetDraggingStartedFunc(func(event *DragEvent) { event.Accept = false })
	assert.False(t, controller.startDrag(Point{X: 38, Y: 1}))

	controller.SetDraggingStartedFunc(func(event *DragEvent) {
		event.Minimum = 0
		event.Maximum = 1
	})
	require.True(t, controller.startDrag(Point{X: 38, Y: 1}))
	for y := 2.0; y <= 14; y++ {
		controller.updateDrag(Point{X: 38, Y: y})
	}
	controller.stopDrag()
	for _, event := range events {
		assert.LessOrEqual(t, event.To, 1)
	}
}

func TestDragScrollsAtEdges(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 5, 9)
	controller := list.ViewItems()
	var events []DragEvent
	controller.SetDraggingUpdatedFunc(func(event *DragEvent) { events = append(events, *event) })
	require.True(t, controller.SetDragMode(true))

	require.True(t, controller.startDrag(Point{X: 38, Y: 7}))
	controller.updateDrag(Point{X: 38, Y: 8})
	settle(env)

	assert.Equal(t, list.MaxContentY(), list.ContentY())
	require.NotEmpty(t, events)
	assert.Equal(t, 4, events[len(events)-1].To)
	controller.stopDrag()
}

func TestExclusiveExpansion(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 3, 30)
	a, b := list.Item(0), list.Item(1)
	var order []string
	a.Expansion().SetHeight(8).SetExpandedChangedFunc(func(expanded bool) {
		order = append(order, fmt.Sprintf("a:%v", expanded))
	})
	b.Expansion().SetHeight(8).SetExpandedChangedFunc(func(expanded bool) {
		order = append(order, fmt.Sprintf("b:%v", expanded))
	})

	a.Expansion().SetExpanded(true)
	settle(env)
	require.Equal(t, 8.0, a.Height())
	assert.False(t, list.IsInteractive())

	b.Expansion().SetExpanded(true)
	assert.Equal(t, []string{"a:true", "a:false", "b:true"}, order)
	settle(env)

	assert.False(t, a.Expansion().Expanded())
	assert.Equal(t, 3.0, a.Height())
	assert.True(t, b.Expansion().Expanded())
	assert.Equal(t, 8.0, b.Height())
	assert.Equal(t, 1, list.ViewItems().ExpandedIndex())
	assert.Same(t, b, list.ViewItems().ExpandedItem())
	assert.Equal(t, 14.0, list.ContentHeight())
}

func TestAtMostOneItemExpanded(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 4, 40)
	for _, item := range list.Items() {
		item.Expansion().SetHeight(6)
	}
	sequence := []int{0, 2, 2, 1, 3, 0, 1, 1, 3}
	for step, index := range sequence {
		item := list.Item(index)
		item.Expansion().SetExpanded(!item.Expansion().Expanded())
		if step%2 == 0 {
			env.Loop.Advance(30 * time.Millisecond)
			continue
		}
		settle(env)
		expanded := 0
		for _, item := range list.Items() {
			if item.Expansion().Expanded() {
				expanded++
				assert.Equal(t, 6.0, item.Height())
			} else {
				assert.Equal(t, 3.0, item.Height())
			}
		}
		assert.LessOrEqual(t, expanded, 1)
	}
}

func TestExpansionContent(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 2, 20)
	item := list.Item(0)
	created := 0
	item.Expansion().SetContentFactory(func(*ListItem) (Primitive, float64) {
		created++
		return NewBox(), 4
	})

	item.Expansion().SetExpanded(true)
	settle(env)
	assert.Equal(t, 7.0, item.Height())
	assert.Equal(t, 3.0, item.Expansion().CollapsedHeight())
	require.NotNil(t, item.Expansion().Content())
	assert.Same(t, Node(item), item.Expansion().Content().ParentNode())

	item.Expansion().SetExpanded(false)
	assert.NotNil(t, item.Expansion().Content(), "content stays until the item has collapsed")
	settle(env)
	assert.Nil(t, item.Expansion().Content())
	assert.Equal(t, 3.0, item.Height())
	assert.Equal(t, 1, created)

	item.Expansion().SetFlags(ExpandContentItem).SetExpanded(true)
	settle(env)
	assert.Equal(t, 4.0, item.Height())
}

func TestExpandWithoutGrowthDoesNothing(t *testing.T) {
	env, logs := newTestEnv(t)
	list := newTestList(env, 1, 10)
	item := list.Item(0)
	item.Expansion().SetHeight(2).SetExpanded(true)
	assert.False(t, item.Expansion().Expanded())
	assert.Equal(t, -1, list.ViewItems().ExpandedIndex())
	assert.Contains(t, logs.String(), "nothing to expand")
}

func TestExternalPressCollapses(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 2, 20)
	item := list.Item(0)
	item.SetRect(0, 0, 40, 3)
	item.Expansion().SetHeight(6).SetExpanded(true)
	settle(env)

	env.Window.DispatchPress(Point{X: 5, Y: 1})
	assert.True(t, item.Expansion().Expanded())
	env.Window.DispatchPress(Point{X: 5, Y: 15})
	settle(env)
	assert.False(t, item.Expansion().Expanded())
	assert.Equal(t, 3.0, item.Height())
	assert.True(t, list.IsInteractive())
}

func TestUnlockedExpansionKeepsScrolling(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 2, 20)
	list.ViewItems().SetExpansionFlags(UnlockExpanded)
	list.Item(0).Expansion().SetHeight(6).SetExpanded(true)
	settle(env)
	assert.True(t, list.IsInteractive())
	assert.Zero(t, env.Window.FilterCount())
}

func TestExpansionScrollsIntoView(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 3, 9)
	last := list.Item(2)
	last.Expansion().SetHeight(6).SetExpanded(true)
	settle(env)
	assert.Equal(t, 3.0, list.ContentY())

	tall := list.Item(0)
	list.ScrollTo(0)
	tall.Expansion().SetHeight(20).SetExpanded(true)
	settle(env)
	rect, ok := list.ItemGeometry(0)
	require.True(t, ok)
	assert.Equal(t, rect.Y, list.ContentY(), "the top of the item stays visible")
}

func TestDestroyedItemLeavesController(t *testing.T) {
	env, _ := newTestEnv(t)
	list := newTestList(env, 2, 20)
	item := list.Item(1)
	item.Expansion().SetHeight(6).SetExpanded(true)
	settle(env)
	require.Equal(t, 1, list.ViewItems().ExpandedIndex())

	item.Destroy()
	assert.Equal(t, -1, list.ViewItems().ExpandedIndex())
	assert.Nil(t, list.ViewItems().ExpandedItem())
}
