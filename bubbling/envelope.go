package bubbling

import "github.com/google/uuid"

// Envelope is the mutable record threaded through one fire cycle.
//
// Flagged is a soft claim: a behaviour handled the dispatch and default
// behaviours should defer unless forced. Decrepitate is a hard claim: no
// further action resolution may run, forced or not. Stop asks the pipeline
// to suppress the raw event's default action and propagation. The three
// flags are independent.
type Envelope struct {
	ID     string
	Action string
	Target Element
	Event  RawEvent

	Flagged     bool
	Decrepitate bool
	Stop        bool

	// navigate, property, rollover, rollout
	Anchor Element
	Button Button
	Input  Element
	Select Element
	// El is the acting element picked by ProcessAction.
	El    Element
	Value string
	Rel   string

	// key
	Type     string
	KeyCode  int
	CharCode int
	CtrlKey  bool
	ShiftKey bool
	AltKey   bool

	// focus, change
	Blur     Element
	NewValue string
	OldValue string

	// ready
	Module string

	Data map[string]any
}

// NewEnvelope returns an envelope with a fresh correlation id.
func NewEnvelope() *Envelope {
	return &Envelope{ID: uuid.NewString()}
}

func (env *Envelope) reset(layer string) {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	env.Action = layer
	env.Flagged = false
	env.Decrepitate = false
	env.Stop = false
}

// claimed reports whether an earlier behaviour already handled the envelope.
func (env *Envelope) claimed() bool {
	return env.Flagged || env.Decrepitate
}

// Claim marks the envelope handled: flagged, decrepitated and stopped.
func (env *Envelope) Claim() {
	env.Flagged = true
	env.Decrepitate = true
	env.Stop = true
}

// Set stores a layer specific value.
func (env *Envelope) Set(key string, v any) {
	if env.Data == nil {
		env.Data = make(map[string]any)
	}
	env.Data[key] = v
}

// Get returns a value stored with Set.
func (env *Envelope) Get(key string) (any, bool) {
	v, ok := env.Data[key]
	return v, ok
}
