package bubbling

// Action is a named behaviour. Returning true claims the dispatch.
type Action func(layer string, env *Envelope) bool

// Depot maps behaviour names to actions. Names keep their insertion order,
// which is the order the resolver probes them in.
type Depot struct {
	names   []string
	actions map[string]Action
}

// NewDepot returns an empty depot.
func NewDepot() *Depot {
	return &Depot{actions: make(map[string]Action)}
}

// Add registers fn under name. An existing name is kept unless force is
// set, in which case the action is replaced in place.
func (d *Depot) Add(name string, fn Action, force bool) bool {
	if name == "" || fn == nil {
		return false
	}
	if _, ok := d.actions[name]; ok {
		if !force {
			return false
		}
		d.actions[name] = fn
		return true
	}
	d.names = append(d.names, name)
	d.actions[name] = fn
	return true
}

// Get returns the action registered under name.
func (d *Depot) Get(name string) (Action, bool) {
	if d == nil {
		return nil, false
	}
	fn, ok := d.actions[name]
	return fn, ok
}

// Names returns the registered names in insertion order.
func (d *Depot) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of registered actions.
func (d *Depot) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}
