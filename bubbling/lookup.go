package bubbling

// OwnerByClassName returns ref, or its nearest ancestor, carrying the
// classname. ref is an Element or an element id.
func (p *Page) OwnerByClassName(ref any, name string) Element {
	el := p.host.Get(ref)
	if el == nil {
		return nil
	}
	return p.host.OwnerByClassName(el, name)
}

// OwnerByTagName returns ref, or its nearest ancestor, with the tag name.
func (p *Page) OwnerByTagName(ref any, tag string) Element {
	return p.ownerByTagName(p.host.Get(ref), tag)
}

// AncestorByClassName is an alias for OwnerByClassName.
func (p *Page) AncestorByClassName(ref any, name string) Element {
	return p.OwnerByClassName(ref, name)
}

// AncestorByTagName is an alias for OwnerByTagName.
func (p *Page) AncestorByTagName(ref any, tag string) Element {
	return p.OwnerByTagName(ref, tag)
}

func (p *Page) ownerByTagName(el Element, tag string) Element {
	if el == nil {
		return nil
	}
	return p.host.OwnerByTagName(el, tag)
}

// FirstChildByTagName returns the first descendant of ref with the tag.
func (p *Page) FirstChildByTagName(ref any, tag string) Element {
	el := p.host.Get(ref)
	if el == nil || tag == "" {
		return nil
	}
	return p.host.FirstChildByTagName(el, tag)
}

// ResolveFirst resolves ref against depot with the page's classname probe.
func (p *Page) ResolveFirst(ref any, depot *Depot) string {
	return ResolveFirst(p.host, p.host.Get(ref), depot)
}

// ResolveAll returns every depot name matching ref.
func (p *Page) ResolveAll(ref any, depot *Depot) []string {
	return ResolveAll(p.host, p.host.Get(ref), depot)
}

// VirtualTarget reports whether the related target of e is inside ref.
func (p *Page) VirtualTarget(e RawEvent, ref any) bool {
	return VirtualTarget(e, p.host.Get(ref))
}

// Button returns the rich button widget enclosing el. Without a widget
// lookup every element is "not a button".
func (p *Page) Button(el Element) Button {
	if el == nil || p.buttons == nil {
		return nil
	}
	root := p.host.OwnerByClassName(el, p.cfg.ButtonClassName)
	if root == nil || root.ID() == "" {
		return nil
	}
	b, ok := p.buttons.Button(root.ID())
	if !ok {
		return nil
	}
	return b
}
