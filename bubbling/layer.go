package bubbling

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Listener is a layer subscriber. scope is the value given at subscription
// time, or the layer's default scope.
type Listener func(layer string, env *Envelope, scope any)

type subscriber struct {
	fn    Listener
	scope any
}

// Layer is a named channel on the bus.
type Layer struct {
	mu    *sync.RWMutex
	name  string
	scope any
	subs  []subscriber
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Len returns the number of subscribers.
func (l *Layer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}

// Registry owns the layers of one page. It is safe for concurrent use; no
// lock is held while subscribers run.
type Registry struct {
	mu     sync.RWMutex
	layers map[string]*Layer
	root   any
	log    *logrus.Entry
}

// NewRegistry creates an empty registry. root is the default scope for
// layers created without one.
func NewRegistry(root any, log *logrus.Entry) *Registry {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Registry{
		layers: make(map[string]*Layer),
		root:   root,
		log:    log,
	}
}

// CreateLayers creates every named layer that does not exist yet, bound to
// scope. It reports whether at least one layer was created.
func (r *Registry) CreateLayers(names []string, scope any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLayers(names, scope)
}

func (r *Registry) createLayers(names []string, scope any) bool {
	if scope == nil {
		scope = r.root
	}
	created := false
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := r.layers[name]; ok {
			continue
		}
		r.layers[name] = &Layer{mu: &r.mu, name: name, scope: scope}
		created = true
	}
	return created
}

// Subscribe appends fn to the layer, creating the layer first if needed. It
// reports whether the layer was created by this call.
func (r *Registry) Subscribe(layer string, fn Listener, scope any) bool {
	if layer == "" || fn == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	first := r.createLayers([]string{layer}, nil)
	l := r.layers[layer]
	if scope == nil {
		scope = l.scope
	}
	l.subs = append(l.subs, subscriber{fn: fn, scope: scope})
	return first
}

// On is an alias for Subscribe.
func (r *Registry) On(layer string, fn Listener, scope any) bool {
	return r.Subscribe(layer, fn, scope)
}

// Fire broadcasts env on the layer. The envelope's action and flags are
// reset first, then every subscriber runs in registration order regardless
// of the flags. Fire returns env.Stop, or false for an unknown layer.
func (r *Registry) Fire(layer string, env *Envelope) bool {
	if env == nil {
		env = NewEnvelope()
	}
	env.reset(layer)

	r.mu.RLock()
	l, ok := r.layers[layer]
	var subs []subscriber
	if ok {
		// subscribers added while firing wait for the next fire
		subs = l.subs[:len(l.subs):len(l.subs)]
	}
	r.mu.RUnlock()
	if !ok {
		return false
	}
	r.log.WithFields(logrus.Fields{
		"layer":       layer,
		"envelope":    env.ID,
		"subscribers": len(subs),
	}).Debug("firing layer")

	for _, s := range subs {
		r.call(layer, s, env)
	}
	return env.Stop
}

func (r *Registry) call(layer string, s subscriber, env *Envelope) {
	defer func() {
		if v := recover(); v != nil {
			r.log.WithError(recovered(v, layer)).
				WithField("envelope", env.ID).
				Error("listener failed")
		}
	}()
	s.fn(layer, env, s.scope)
}

// Has reports whether the layer exists.
func (r *Registry) Has(layer string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.layers[layer]
	return ok
}

// Layer returns the named layer.
func (r *Registry) Layer(name string) (*Layer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layers[name]
	return l, ok
}

// Layers returns the layer names in sorted order.
func (r *Registry) Layers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.layers))
	for name := range r.layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
