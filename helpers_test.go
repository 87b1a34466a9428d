package listkit

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/xqrs/listkit/anim"
	"github.com/xqrs/listkit/config"
)

// newTestEnv returns an env on a virtual clock that logs into the returned
// buffer.
func newTestEnv(t *testing.T, configure ...func(*config.Config)) (*Env, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	for _, f := range configure {
		f(&cfg)
	}
	env := NewEnv(cfg, anim.NewLoop(time.Unix(0, 0)))
	logs := &bytes.Buffer{}
	env.Logger = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return env, logs
}

// slotWidth sets the built-in panel slot width in cells.
func slotWidth(width float64) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.Actions.SlotWidthGU = width
	}
}

// newTestItem returns an item laid out at the origin.
func newTestItem(env *Env, width int) *ListItem {
	item := NewListItem(env)
	item.SetRect(0, 0, width, int(item.Height()))
	return item
}

// settle runs all animations and timers to completion.
func settle(env *Env) {
	env.Loop.Advance(10 * time.Second)
}

// swipe presses at from, crosses the swipe threshold and drags to to.
func swipe(item *ListItem, from, to float64) {
	item.PointerPress(Point{X: from, Y: 1})
	step := from - 2*item.env.GU(item.env.Config.Gesture.SwipeThresholdGU)
	if to > from {
		step = from + 2*item.env.GU(item.env.Config.Gesture.SwipeThresholdGU)
	}
	item.PointerMove(Point{X: step, Y: 1})
	item.PointerMove(Point{X: step + (to - from), Y: 1})
}

// testModel is a model of n rows.
type testModel int

func (m testModel) Len() int {
	return int(m)
}

// newTestList returns a list view of n items, each of the implicit height.
func newTestList(env *Env, n int, height int) *ListView {
	list := NewListView(env)
	list.SetRect(0, 0, 40, height)
	list.SetModel(testModel(n), func(int) *ListItem {
		return NewListItem(env)
	})
	return list
}
