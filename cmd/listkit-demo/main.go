// Command listkit-demo shows a task list whose items can be swiped open,
// reordered, expanded and selected.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/davecgh/go-spew/spew"
	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/listkit"
	"github.com/xqrs/listkit/config"
)

const crashFile = "listkit-crash.log"

func main() {
	cfg, err := config.Load("listkit-demo", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	env := listkit.NewEnv(cfg, nil)
	env.Logger = logger
	env.Dispatcher = listkit.DispatcherFunc(func(actionID string, value int) {
		logger.Info("action triggered", "action", actionID, "index", value)
	})

	model := newTaskModel(
		"Buy milk|Semi-skimmed, two bottles.",
		"Call the plumber|The kitchen tap still drips.",
		"Renew passport",
		"Water the plants|Balcony first, then the fern.",
		"Book dentist appointment",
		"Pay electricity bill|Due on Friday.",
		"Write release notes",
		"Return library books",
		"Plan weekend trip|Check train times.",
		"Clean the garage",
		"Backup photos",
		"Fix the bike light",
	)
	app := listkit.NewApplication(env)

	defer func() {
		if p := recover(); p != nil {
			dump := fmt.Sprintf("%v\n%s\n%s", p, debug.Stack(), spew.Sdump(model.tasks))
			_ = os.WriteFile(crashFile, []byte(dump), 0o644)
			logger.Error("crashed", "panic", p, "dump", crashFile)
			panic(p)
		}
	}()

	demo := newDemo(env, app, model)
	if err := app.SetRoot(demo.layout).Run(); err != nil {
		logger.Error("run failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	// The terminal belongs to the UI; logs go to a file or nowhere.
	var w io.Writer = io.Discard
	closeLog := func() {}
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = file
		closeLog = func() { file.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeLog, nil
}

// demo wires the task model to a list view.
type demo struct {
	env    *listkit.Env
	app    *listkit.Application
	model  *taskModel
	list   *listkit.ListView
	layout *layout

	leading  *listkit.ListItemActions
	trailing *listkit.ListItemActions
}

func newDemo(env *listkit.Env, app *listkit.Application, model *taskModel) *demo {
	d := &demo{env: env, app: app, model: model}

	remove := listkit.NewAction("delete", "Delete").SetIcon("✕")
	remove.SetTriggeredFunc(func(index int) {
		// The item that fired the action is still rebounding; drop it once
		// the event is handled.
		go app.QueueUpdateDraw(func() { d.remove(index) })
	})
	star := listkit.NewAction("star", "Star").SetIcon("★")
	star.SetTriggeredFunc(d.toggleStar)
	share := listkit.NewAction("share", "Share").SetIcon("↗")
	share.SetTriggeredFunc(func(index int) {
		if t := model.At(index); t != nil {
			d.layout.setStatus("shared " + t.title)
		}
	})
	d.leading = listkit.NewListItemActions(env, remove)
	d.trailing = listkit.NewListItemActions(env, star, share)

	d.list = listkit.NewListView(env)
	d.layout = newLayout(d.list, newKeyMap(env.Keys))
	d.layout.filterChanged = func(filter string) {
		model.SetFilter(filter)
		d.list.Reload()
	}
	d.list.SetModel(model, d.item)

	controller := d.list.ViewItems()
	controller.SetDraggingStartedFunc(func(event *listkit.DragEvent) {
		if model.filter != "" {
			d.layout.setStatus("clear the filter to reorder")
			event.Accept = false
		}
	})
	controller.SetDraggingUpdatedFunc(func(event *listkit.DragEvent) {
		switch event.Status {
		case listkit.DragMoving:
			// Move once, on drop.
			event.Accept = false
		case listkit.DragDropped:
			model.Move(event.From, event.To)
			d.list.MoveItem(event.From, event.To)
			d.layout.setStatus(fmt.Sprintf("moved %d to %d", event.From+1, event.To+1))
		}
	})
	controller.SetSelectedIndicesChangedFunc(func(indices []int) {
		d.layout.setStatus(fmt.Sprintf("%d selected", len(indices)))
	})
	controller.SetSelectModeChangedFunc(func(selectMode bool) {
		if !selectMode {
			controller.SetSelectedIndices(nil)
			d.layout.setStatus("")
		}
	})
	controller.SetDragModeChangedFunc(func(dragMode bool) {
		if dragMode {
			d.layout.setStatus("drag the ≡ handles to reorder")
		} else {
			d.layout.setStatus("")
		}
	})
	return d
}

// item is the list delegate.
func (d *demo) item(index int) *listkit.ListItem {
	t := d.model.At(index)
	item := listkit.NewListItem(d.env).
		SetText(title(t)).
		SetLeadingActions(d.leading).
		SetTrailingActions(d.trailing)
	if t == nil {
		return item
	}
	item.SetSubtitle(t.note)
	item.SetClickedFunc(func() {
		d.layout.setStatus("opened " + t.title)
	})
	item.SetPressAndHoldFunc(func() {
		controller := d.list.ViewItems()
		controller.SetSelectMode(true)
		controller.Select(item.Index())
	})
	if t.note != "" {
		item.Expansion().SetContentFactory(func(*listkit.ListItem) (listkit.Primitive, float64) {
			return newNote(t), 2
		})
	}
	return item
}

func (d *demo) toggleStar(index int) {
	t := d.model.At(index)
	if t == nil {
		return
	}
	t.starred = !t.starred
	if item := d.list.Item(index); item != nil {
		item.SetText(title(t))
	}
}

func (d *demo) remove(index int) {
	t := d.model.Remove(index)
	if t == nil {
		return
	}
	d.list.Reload()
	d.layout.setStatus("deleted " + t.title)
}

func title(t *task) string {
	if t == nil {
		return ""
	}
	if t.starred {
		return "★ " + t.title
	}
	return t.title
}

// note is the expansion content of a task.
type note struct {
	*listkit.Box
	task *task
}

func newNote(t *task) *note {
	return &note{Box: listkit.NewBox().SetDontClear(true), task: t}
}

func (n *note) Draw(screen tcell.Screen) {
	x, y, width, height := n.GetRect()
	listkit.Print(screen, "  "+n.task.note, x, y, width, listkit.AlignmentLeft, listkit.Styles.SecondaryTextColor)
	if height > 1 {
		listkit.Print(screen, "  id "+n.task.id.String()[:8], x, y+1, width, listkit.AlignmentLeft, listkit.Styles.DividerColor)
	}
}
