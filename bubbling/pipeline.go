package bubbling

// Trigger is the generic dispatch entry point. It sets the envelope's
// action, target and raw event, runs the focus tracker for navigate and
// property, fires the layer and stops e when a subscriber claimed it. A nil
// e means the host's current event.
func (p *Page) Trigger(layer string, e RawEvent, env *Envelope) bool {
	if e == nil {
		e = p.host.Current()
	}
	if env == nil {
		env = NewEnvelope()
	}
	env.Action = layer
	env.Target = nil
	if e != nil {
		env.Target = e.Target()
	}
	if layer == LayerNavigate || layer == LayerProperty {
		p.tracker.observe(env.Target)
	}
	env.Event = e
	stop := p.layers.Fire(layer, env)
	if stop && e != nil {
		e.Stop()
	}
	return stop
}

// OnNavigate handles a primary pointer action. When no navigate subscriber
// claims it, the god layer gets the same envelope.
func (p *Page) OnNavigate(e RawEvent) bool {
	if e == nil {
		e = p.host.Current()
	}
	env := p.pointerEnvelope(e)
	if p.Trigger(LayerNavigate, e, env) {
		return true
	}
	return p.Trigger(LayerGod, e, env)
}

// OnProperty handles a secondary pointer action.
func (p *Page) OnProperty(e RawEvent) bool {
	if e == nil {
		e = p.host.Current()
	}
	return p.Trigger(LayerProperty, e, p.pointerEnvelope(e))
}

// OnRollOver handles the pointer entering an element.
func (p *Page) OnRollOver(e RawEvent) bool {
	return p.roll(LayerRollOver, e)
}

// OnRollOut handles the pointer leaving an element.
func (p *Page) OnRollOut(e RawEvent) bool {
	return p.roll(LayerRollOut, e)
}

func (p *Page) roll(layer string, e RawEvent) bool {
	if e == nil {
		e = p.host.Current()
	}
	env := NewEnvelope()
	if e != nil {
		env.Anchor = p.ownerByTagName(e.Target(), "A")
	}
	return p.Trigger(layer, e, env)
}

// pointerEnvelope resolves the candidates of a pointer action: an enclosing
// anchor, a rich button, else an enclosing input, else a select.
func (p *Page) pointerEnvelope(e RawEvent) *Envelope {
	env := NewEnvelope()
	if e == nil {
		return env
	}
	t := e.Target()
	env.Anchor = p.ownerByTagName(t, "A")
	env.Button = p.Button(t)
	switch {
	case env.Button != nil:
		env.Value = env.Button.ButtonValue()
		env.Rel = env.Button.ControlRel()
	case env.Anchor != nil:
		env.Rel, _ = env.Anchor.GetAttribute("rel")
	default:
		env.Input = p.ownerByTagName(t, "INPUT")
		env.Select = p.ownerByTagName(t, "SELECT")
		if env.Input != nil {
			env.Value, _ = env.Input.GetAttribute("value")
			env.Rel, _ = env.Input.GetAttribute("rel")
		} else if env.Select != nil {
			if v, ok := selectedValue(env.Select); ok {
				env.Value = v
				env.Rel, _ = env.Select.GetAttribute("rel")
			}
		}
	}
	return env
}

// selectedValue reads the value of a single select with a real selection.
func selectedValue(el Element) (string, bool) {
	sel, ok := el.(Selectable)
	if !ok || sel.Multiple() {
		return "", false
	}
	idx := sel.SelectedIndex()
	if idx < 0 {
		return "", false
	}
	v, err := sel.OptionValue(idx)
	if err != nil {
		return "", false
	}
	return v, true
}

// KeyArgs describes a keystroke. It lets callers fake one through
// KeyTrigger.
type KeyArgs struct {
	Target   Element
	Type     string
	KeyCode  int
	CharCode int
	CtrlKey  bool
	ShiftKey bool
	AltKey   bool
}

// OnKey handles key-up and key-down.
func (p *Page) OnKey(e RawEvent) bool {
	if e == nil {
		e = p.host.Current()
	}
	var args KeyArgs
	if e != nil {
		args.Type = e.Type()
	}
	if ke, ok := e.(KeyEvent); ok {
		args.KeyCode = ke.KeyCode()
		args.CharCode = ke.CharCode()
		args.CtrlKey = ke.CtrlKey()
		args.ShiftKey = ke.ShiftKey()
		args.AltKey = ke.AltKey()
	}
	return p.KeyTrigger(args, e, nil)
}

// KeyTrigger fires the key layer for args. The target defaults to the
// target of e; the focus tracker observes it before the fire.
func (p *Page) KeyTrigger(args KeyArgs, e RawEvent, env *Envelope) bool {
	if e == nil {
		e = p.host.Current()
	}
	if env == nil {
		env = NewEnvelope()
	}
	env.Action = LayerKey
	env.Target = args.Target
	if env.Target == nil && e != nil {
		env.Target = e.Target()
	}
	p.tracker.observe(env.Target)
	env.Event = e
	env.Type = args.Type
	env.KeyCode = args.KeyCode
	env.CharCode = args.CharCode
	env.CtrlKey = args.CtrlKey
	env.ShiftKey = args.ShiftKey
	env.AltKey = args.AltKey
	stop := p.layers.Fire(LayerKey, env)
	if stop && e != nil {
		e.Stop()
	}
	return stop
}

// OnRepaint schedules a repaint fire. Triggers closer together than the
// repaint delay collapse into one fire, timed from the last trigger.
func (p *Page) OnRepaint() {
	p.repaint.trigger()
}

// RepaintPending reports whether a repaint fire is scheduled.
func (p *Page) RepaintPending() bool {
	return p.repaint.pending()
}

func (p *Page) firePaint() {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := &paintEvent{target: p.host.Body()}
	env := NewEnvelope()
	env.Event = e
	if p.layers.Fire(LayerRepaint, env) {
		e.Stop()
	}
}

// paintEvent is the synthetic raw event carried by repaint fires.
type paintEvent struct {
	target  Element
	stopped bool
}

func (e *paintEvent) Type() string           { return LayerRepaint }
func (e *paintEvent) Target() Element        { return e.target }
func (e *paintEvent) RelatedTarget() Element { return nil }
func (e *paintEvent) Stop()                  { e.stopped = true }
