package bubbling

// ClassProbe answers classname checks for elements in the live document.
type ClassProbe interface {
	HasClass(el Element, name string) bool
}

// ResolveFirst returns the first depot name, in depot order, that el carries
// as a classname or equals el's rel attribute. It returns "" when el is nil
// or nothing matches.
func ResolveFirst(probe ClassProbe, el Element, depot *Depot) string {
	if el == nil || depot.Len() == 0 {
		return ""
	}
	has, rel := matcher(probe, el)
	for _, name := range depot.names {
		if has(name) || name == rel {
			return name
		}
	}
	return ""
}

// ResolveAll returns every depot name matching el, in depot order.
func ResolveAll(probe ClassProbe, el Element, depot *Depot) []string {
	if el == nil || depot.Len() == 0 {
		return nil
	}
	has, rel := matcher(probe, el)
	var names []string
	for _, name := range depot.names {
		if has(name) || name == rel {
			names = append(names, name)
		}
	}
	return names
}

// matcher picks the classname check for el. Detached elements, such as a
// widget root that was never inserted, answer for themselves.
func matcher(probe ClassProbe, el Element) (func(string) bool, string) {
	has := el.HasClass
	if probe != nil && el.InDocument() {
		has = func(name string) bool { return probe.HasClass(el, name) }
	}
	rel, ok := el.GetAttribute("rel")
	if !ok {
		rel = ""
	}
	return has, rel
}

// VirtualTarget reports whether the related target of e sits strictly
// inside el. The walk stops below BODY.
func VirtualTarget(e RawEvent, el Element) bool {
	if e == nil || el == nil {
		return false
	}
	t := e.RelatedTarget()
	if t == nil {
		return false
	}
	for p := t.Parent(); p != nil && p.TagName() != "BODY"; p = p.Parent() {
		if p == el {
			return true
		}
	}
	return false
}
