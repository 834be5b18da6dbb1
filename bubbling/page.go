package bubbling

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Layer names created for every page.
const (
	LayerNavigate = "navigate"
	LayerGod      = "god"
	LayerProperty = "property"
	LayerKey      = "key"
	LayerRepaint  = "repaint"
	LayerRollOver = "rollover"
	LayerRollOut  = "rollout"
	LayerBlur     = "blur"
	LayerFocus    = "focus"
	LayerChange   = "change"
	LayerReady    = "ready"
)

var defaultLayers = []string{
	LayerNavigate, LayerGod, LayerProperty, LayerKey, LayerRepaint,
	LayerRollOver, LayerRollOut, LayerBlur, LayerFocus, LayerChange, LayerReady,
}

// Page is the bus for one document surface: one layer registry, one
// focus tracker, one default depot and one repaint timer.
//
// A Page is meant for a single logical thread. Raw listeners attached by
// Init and the repaint timer are serialised by an internal mutex, so a
// repaint never runs alongside a host delivery. The layer registry guards
// its own state, and Fire holds no lock while subscribers run: a subscriber
// may fire other layers or subscribe from inside a fire. Subscribers other
// than ready must not call InitMonitors or Close, nor synchronously
// re-dispatch raw host events.
type Page struct {
	mu sync.Mutex

	host    Host
	buttons ButtonLookup
	clock   Clock
	logger  *logrus.Logger
	ownLog  bool
	log     *logrus.Entry
	scope   any

	v         *viper.Viper
	cfg       Config
	overrides []map[string]any

	layers   *Registry
	defaults *Depot
	tracker  *tracker
	repaint  *debouncer

	ready     atomic.Bool
	readyCh   chan struct{}
	readyOnce sync.Once
	detach    []func()
}

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the logger. The configured log level is not applied to
// a logger supplied this way.
func WithLogger(l *logrus.Logger) Option {
	return func(p *Page) {
		if l != nil {
			p.logger = l
			p.ownLog = false
		}
	}
}

// WithClock replaces the clock used by the repaint timer.
func WithClock(c Clock) Option {
	return func(p *Page) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithButtons supplies the rich button widget lookup.
func WithButtons(b ButtonLookup) Option {
	return func(p *Page) { p.buttons = b }
}

// WithScope sets the root scope given to layers created without one.
func WithScope(scope any) Option {
	return func(p *Page) { p.scope = scope }
}

// WithConfig merges an external configuration object at construction.
func WithConfig(overrides map[string]any) Option {
	return func(p *Page) {
		if len(overrides) > 0 {
			p.overrides = append(p.overrides, overrides)
		}
	}
}

// New creates the bus for host. The default layers exist on return; raw
// listeners are attached by Init.
func New(host Host, opts ...Option) (*Page, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	p := &Page{
		host:     host,
		clock:    realClock{},
		logger:   logrus.New(),
		ownLog:   true,
		v:        newViper(),
		defaults: NewDepot(),
		readyCh:  make(chan struct{}),
	}
	p.scope = p
	for _, opt := range opts {
		opt(p)
	}
	for _, o := range p.overrides {
		if err := p.v.MergeConfigMap(o); err != nil {
			return nil, errors.Wrap(err, "merge config overrides")
		}
	}
	cfg, err := decode(p.v)
	if err != nil {
		return nil, errors.Wrap(err, "new page")
	}
	p.cfg = cfg
	p.applyLogLevel()
	p.log = p.logger.WithField("module", "bubbling")

	p.layers = NewRegistry(p.scope, p.log)
	p.layers.CreateLayers(defaultLayers, nil)
	p.tracker = &tracker{
		fire: p.layers.Fire,
		body: host.Body,
		env:  host,
	}
	p.repaint = newDebouncer(p.clock, cfg.RepaintDelay, p.firePaint)
	return p, nil
}

func (p *Page) applyLogLevel() {
	if !p.ownLog {
		return
	}
	lvl, err := logrus.ParseLevel(p.cfg.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	p.logger.SetLevel(lvl)
}

// Configure merges an external configuration object. It fails once Init
// has run.
func (p *Page) Configure(overrides map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready.Load() {
		return ErrAlreadyInitialized
	}
	if err := p.v.MergeConfigMap(overrides); err != nil {
		return errors.Wrap(err, "merge config overrides")
	}
	cfg, err := decode(p.v)
	if err != nil {
		return err
	}
	p.cfg = cfg
	p.applyLogLevel()
	p.repaint.setDelay(cfg.RepaintDelay)
	return nil
}

// Config returns the effective configuration.
func (p *Page) Config() Config {
	return p.cfg
}

// Host returns the host the page is attached to.
func (p *Page) Host() Host {
	return p.host
}

// Registry returns the page's layer registry.
func (p *Page) Registry() *Registry {
	return p.layers
}

// CreateLayers creates layers bound to scope, or to the root scope when
// scope is nil.
func (p *Page) CreateLayers(names []string, scope any) bool {
	return p.layers.CreateLayers(names, scope)
}

// Subscribe registers fn on layer and reports whether it is the first
// listener, i.e. the layer was created by this call.
func (p *Page) Subscribe(layer string, fn Listener, scope any) bool {
	return p.layers.Subscribe(layer, fn, scope)
}

// On is an alias for Subscribe.
func (p *Page) On(layer string, fn Listener, scope any) bool {
	return p.layers.Subscribe(layer, fn, scope)
}

// Fire broadcasts env on layer and reports whether a subscriber claimed it.
func (p *Page) Fire(layer string, env *Envelope) bool {
	return p.layers.Fire(layer, env)
}

// Ready reports whether Init has run.
func (p *Page) Ready() bool {
	return p.ready.Load()
}

// Init attaches the raw listeners, installs the built-in navigate
// subscribers and fires the ready layer. It returns false while the host
// body is not available and is a no-op once it has succeeded.
//
// The built-in navigate subscribers (external link rewriting and the
// default actions) are appended here, after any navigate subscriber
// registered before Init. The ready layer fires after the page mutex is
// released, so ready subscribers may call Init, InitMonitors or Configure.
func (p *Page) Init() bool {
	if p.ready.Load() {
		return true
	}
	p.mu.Lock()
	ok := p.init()
	p.mu.Unlock()
	if !ok {
		return p.ready.Load()
	}

	env := NewEnvelope()
	env.Module = "bubbling"
	p.layers.Fire(LayerReady, env)
	return true
}

// init reports whether this call moved the page to ready.
func (p *Page) init() bool {
	if p.ready.Load() {
		return false
	}
	body := p.host.Body()
	if body == nil {
		return false
	}
	p.ready.Store(true)
	p.host.AddClass(body, p.cfg.ClassName)

	p.listen(Window, "resize", func(RawEvent) { p.OnRepaint() })
	p.listen(body, "click", func(e RawEvent) { p.OnNavigate(e) })
	if p.host.SecondaryClickOnMouseDown() {
		p.listen(body, "mousedown", func(e RawEvent) { p.OnProperty(e) })
		p.listen(body, "click", func(e RawEvent) { p.OnProperty(e) })
	} else {
		p.listen(body, "contextmenu", func(e RawEvent) { p.OnProperty(e) })
	}
	p.listen(body, "mouseover", func(e RawEvent) { p.OnRollOver(e) })
	p.listen(body, "mouseout", func(e RawEvent) { p.OnRollOut(e) })
	p.listen(Document, "keyup", func(e RawEvent) { p.OnKey(e) })
	p.listen(Document, "keydown", func(e RawEvent) { p.OnKey(e) })

	p.layers.On(LayerNavigate, p.relExternal, p)
	p.layers.On(LayerNavigate, p.defaultActionsControl, p)

	p.readyOnce.Do(func() { close(p.readyCh) })
	p.log.WithField("classname", p.cfg.ClassName).Info("page initialized")
	return true
}

// listen attaches fn as a raw listener serialised by the page mutex.
func (p *Page) listen(node any, kind string, fn func(RawEvent)) {
	detach := p.host.Listen(node, kind, func(e RawEvent, _ any) {
		p.mu.Lock()
		defer p.mu.Unlock()
		fn(e)
	}, p, false)
	if detach != nil {
		p.detach = append(p.detach, detach)
	}
}

// InitMonitors feeds window scroll and document text resize into the
// repaint timer.
func (p *Page) InitMonitors() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listen(Window, "scroll", func(RawEvent) { p.OnRepaint() })
	p.listen(Document, "textresize", func(RawEvent) { p.OnRepaint() })
}

// Start polls Init until the document is usable, the host delivers
// DOMContentLoaded, the poll budget runs out or ctx is done.
func (p *Page) Start(ctx context.Context) error {
	if p.Ready() {
		return nil
	}
	detach := p.host.Listen(Document, "DOMContentLoaded", func(RawEvent, any) {
		p.Init()
	}, p, false)
	if detach != nil {
		p.mu.Lock()
		p.detach = append(p.detach, detach)
		p.mu.Unlock()
	}

	interval := p.cfg.PollInterval
	if interval <= 0 {
		interval = 40 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i <= p.cfg.PollRetries; i++ {
		if p.Init() {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for document")
		case <-p.readyCh:
			return nil
		case <-ticker.C:
		}
	}
	p.log.WithField("retries", p.cfg.PollRetries).Warn("document never became usable")
	return ErrNotReady
}

// Close detaches every raw listener and drops a pending repaint.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, detach := range p.detach {
		detach()
	}
	p.detach = nil
	p.repaint.cancel()
	p.log.Info("page closed")
}
