// Package bubbling is a layered publish/subscribe bus for one document
// surface.
//
// Raw pointer, keyboard and layout events are caught at one attachment
// point, turned into an Envelope and fired on a named layer. Behaviours
// subscribe to layers and pick the elements they handle by classname or
// rel attribute instead of holding element references.
//
// # Layers
//
// Every Page starts with these layers:
//
//	navigate   primary click; falls through to god when nobody claims it
//	god        last resort handler tier for navigate
//	property   secondary click (context menu)
//	rollover   pointer enters an element
//	rollout    pointer leaves an element
//	key        key-up and key-down
//	repaint    resize, scroll and explicit repaint requests, debounced
//	blur       logical focus left an element
//	focus      logical focus reached an element
//	change     the value of the element losing focus changed
//	ready      the page attached its raw listeners
//
// More layers are created with CreateLayers or on the first Subscribe.
//
// # Claims
//
// Fire resets the envelope flags, then runs every subscriber in
// registration order. Subscribers cooperate through three flags:
//
//	Flagged      soft claim; ProcessAction skips it unless forced
//	Decrepitate  hard claim; ProcessAction always skips it
//	Stop         the raw event's default action and propagation are suppressed
//
// # Focus tracking
//
// Native focus, blur and change events are unreliable across element
// kinds, so the page infers them from the targets of navigate, property
// and key dispatches. Observers always see change(old), blur(old),
// focus(new) in that order, before the primary layer fires.
//
// # Usage
//
//	doc, _ := dom.ParseString(page)
//	p, err := bubbling.New(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p.RegisterDefaultAction("delete", func(layer string, env *bubbling.Envelope) bool {
//	    return removeRow(env.El)
//	}, false)
//	p.Init()
//
// The host collaborators are the interfaces in host.go; package dom is an
// implementation backed by golang.org/x/net/html.
package bubbling
