// Package dom is an in-memory document surface for bubbling pages.
//
// Pages are parsed with golang.org/x/net/html and queried with
// github.com/antchfx/htmlquery. Raw events are delivered with capture,
// at-target and bubble phases through Document.Dispatch, so a test or a
// headless driver can click, type and resize exactly as a browser would
// deliver those events to the bus.
package dom
