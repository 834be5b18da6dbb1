package main

import (
	"github.com/sirupsen/logrus"

	"github.com/awakmu/bubbling-library/bubbling"
	"github.com/awakmu/bubbling-library/bubbling/dom"
)

const page = `<!DOCTYPE html>
<html><body>
<ul id="rows">
  <li class="row"><a id="del1" href="#" class="delete">remove</a></li>
  <li class="row"><a id="del2" href="#" class="delete">remove</a></li>
</ul>
<p><a id="docs" href="https://example.com" rel="external">docs</a></p>
<input id="name" value="ann">
</body></html>`

func main() {
	log := logrus.New()

	doc, err := dom.ParseString(page, dom.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("parse page")
	}
	p, err := bubbling.New(doc, bubbling.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("new page")
	}
	defer p.Close()

	p.RegisterDefaultAction("delete", func(_ string, env *bubbling.Envelope) bool {
		row, ok := p.OwnerByTagName(env.El, "li").(*dom.Element)
		if !ok {
			return false
		}
		if list, ok := row.Parent().(*dom.Element); ok {
			list.RemoveChild(row)
		}
		return true
	}, false)

	p.Subscribe(bubbling.LayerGod, func(_ string, env *bubbling.Envelope, _ any) {
		log.WithField("target", env.Target.ID()).Info("unclaimed click")
	}, nil)
	p.Subscribe(bubbling.LayerChange, func(_ string, env *bubbling.Envelope, _ any) {
		log.WithFields(logrus.Fields{
			"target": env.Target.ID(),
			"old":    env.OldValue,
			"new":    env.NewValue,
		}).Info("value changed")
	}, nil)

	if !p.Init() {
		log.Fatal("document has no body")
	}

	for _, id := range []string{"del1", "docs", "name"} {
		doc.Dispatch(dom.NewEvent("click", doc.GetElementByID(id)))
	}
	doc.GetElementByID("name").SetValue("bob")
	doc.Dispatch(dom.NewEvent("click", doc.GetElementByID("del2")))

	target, _ := doc.GetElementByID("docs").GetAttribute("target")
	log.WithFields(logrus.Fields{
		"rows":        len(doc.GetElementsByClassName("row")),
		"docs_target": target,
	}).Info("done")
}
