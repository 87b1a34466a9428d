package listkit

import (
	"log/slog"
	"time"

	"github.com/xqrs/listkit/anim"
	"github.com/xqrs/listkit/config"
)

// Translator translates user-visible text.
type Translator interface {
	Translate(text string) string
}

// IdentityTranslator returns text unchanged.
type IdentityTranslator struct{}

// Translate implements Translator.
func (IdentityTranslator) Translate(text string) string {
	return text
}

// Dispatcher receives action triggers, e.g. to route them to global action
// handling.
type Dispatcher interface {
	Trigger(actionID string, value int)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(actionID string, value int)

// Trigger implements Dispatcher.
func (f DispatcherFunc) Trigger(actionID string, value int) {
	f(actionID, value)
}

// Env bundles the services shared by the items, panels and controllers of
// one window. All of them are used from the event loop goroutine only.
type Env struct {
	Config config.Config
	Units  Units
	Loop   *anim.Loop
	Logger *slog.Logger

	Translator Translator
	Palette    Palette
	Dispatcher Dispatcher
	Keys       Keymap

	Items       *ItemRegistry
	Controllers *ViewItemsRegistry
	Window      *Window

	locks scrollHolds
}

// NewEnv returns an Env with the given configuration. Logging is discarded
// until a Logger is set.
func NewEnv(cfg config.Config, loop *anim.Loop) *Env {
	if loop == nil {
		loop = anim.NewLoop(time.Now())
	}
	env := &Env{
		Config:     cfg,
		Units:      Units{GridUnit: cfg.Units.GridUnit},
		Loop:       loop,
		Logger:     slog.New(slog.DiscardHandler),
		Translator: IdentityTranslator{},
		Palette:    ThemePalette{},
		Keys:       DefaultKeymap(),
		Items:      NewItemRegistry(),
		Window:     NewWindow(),
		locks:      make(scrollHolds),
	}
	env.Controllers = NewViewItemsRegistry(env)
	return env
}

// GU converts grid units to cells.
func (e *Env) GU(v float64) float64 {
	return e.Units.GU(v)
}

func (e *Env) tr(text string) string {
	if e.Translator == nil {
		return text
	}
	return e.Translator.Translate(text)
}

// warn reports a usage error.
func (e *Env) warn(text string, args ...any) {
	e.Logger.Warn(e.tr(text), args...)
}

// debug reports a tolerated invariant violation.
func (e *Env) debug(msg string, args ...any) {
	e.Logger.Debug(msg, args...)
}

func (e *Env) trigger(action *Action, value int) {
	if action == nil {
		return
	}
	action.trigger(value)
	if e.Dispatcher != nil {
		e.Dispatcher.Trigger(action.ID, value)
	}
}

// newAnimation returns a transition with the configured snap timing.
func (e *Env) newAnimation() *anim.Animation {
	return anim.New(e.Loop, e.Config.Animation.SnapDuration.Duration(), anim.StandardEasing).
		SetFrameInterval(e.Config.Animation.FrameInterval.Duration())
}
