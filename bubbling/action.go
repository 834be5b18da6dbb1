package bubbling

// ProcessAction resolves the acting element of env against depot and runs
// the matching action. A decrepitated envelope is never processed; a
// flagged one only when force is set. When the action claims the dispatch,
// the raw event is stopped and the envelope is flagged, decrepitated and
// stopped. ProcessAction reports whether the action claimed it.
func (p *Page) ProcessAction(layer string, env *Envelope, depot *Depot, force bool) bool {
	if env == nil || env.Decrepitate || (env.Flagged && !force) {
		return false
	}
	el := actingElement(env)
	if el == nil {
		return false
	}
	env.El = el
	name := ResolveFirst(p.host, el, depot)
	if name == "" {
		return false
	}
	fn, _ := depot.Get(name)
	if !p.runAction(layer, name, fn, env) {
		return false
	}
	if env.Event != nil {
		env.Event.Stop()
	}
	env.Claim()
	return true
}

func (p *Page) runAction(layer, name string, fn Action, env *Envelope) (claimed bool) {
	defer func() {
		if v := recover(); v != nil {
			p.log.WithError(recovered(v, layer)).
				WithField("action", name).
				WithField("envelope", env.ID).
				Error("action failed")
			claimed = false
		}
	}()
	return fn(layer, env)
}

// actingElement is the first of anchor, button, input and select present on
// the envelope.
func actingElement(env *Envelope) Element {
	switch {
	case env.Anchor != nil:
		return env.Anchor
	case env.Button != nil:
		return env.Button
	case env.Input != nil:
		return env.Input
	case env.Select != nil:
		return env.Select
	}
	return nil
}

// RegisterDefaultAction adds a behaviour to the page's default depot, run
// by the built-in navigate subscriber. An existing name is kept unless force
// is set.
func (p *Page) RegisterDefaultAction(name string, fn Action, force bool) bool {
	return p.defaults.Add(name, fn, force)
}

// DefaultActions returns the page's default depot.
func (p *Page) DefaultActions() *Depot {
	return p.defaults
}

// defaultActionsControl runs the default depot for navigate dispatches.
func (p *Page) defaultActionsControl(layer string, env *Envelope, _ any) {
	p.ProcessAction(layer, env, p.defaults, false)
}

// relExternal gives rel="external" anchors without a target a new-window
// target, unless an earlier behaviour claimed the dispatch.
func (p *Page) relExternal(_ string, env *Envelope, _ any) {
	if env.claimed() || env.Anchor == nil {
		return
	}
	rel, _ := env.Anchor.GetAttribute("rel")
	target, _ := env.Anchor.GetAttribute("target")
	if target == "" && rel == "external" {
		env.Anchor.SetAttribute("target", p.cfg.ExternalTarget)
	}
}
