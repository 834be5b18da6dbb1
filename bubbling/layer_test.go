package bubbling

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry("root", logrus.NewEntry(quietLogger()))
}

func TestCreateLayers(t *testing.T) {
	r := newTestRegistry()

	assert.True(t, r.CreateLayers([]string{"a", "b"}, nil))
	assert.False(t, r.CreateLayers([]string{"a", "b"}, nil))
	assert.True(t, r.CreateLayers([]string{"a", "c"}, nil))
	assert.False(t, r.CreateLayers([]string{""}, nil))
	assert.Equal(t, []string{"a", "b", "c"}, r.Layers())
}

func TestCreateLayersKeepsSubscribers(t *testing.T) {
	r := newTestRegistry()
	var calls []string

	r.Subscribe("a", func(string, *Envelope, any) { calls = append(calls, "first") }, nil)
	r.CreateLayers([]string{"a"}, "other")
	r.Subscribe("a", func(string, *Envelope, any) { calls = append(calls, "second") }, nil)

	r.Fire("a", nil)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSubscribe(t *testing.T) {
	r := newTestRegistry()
	noop := func(string, *Envelope, any) {}

	assert.True(t, r.Subscribe("fresh", noop, nil), "first subscriber creates the layer")
	assert.False(t, r.Subscribe("fresh", noop, nil))
	assert.False(t, r.Subscribe("", noop, nil))
	assert.False(t, r.Subscribe("nil", nil, nil))
	assert.False(t, r.Has("nil"))

	l, ok := r.Layer("fresh")
	require.True(t, ok)
	assert.Equal(t, "fresh", l.Name())
	assert.Equal(t, 2, l.Len())
}

func TestFireOrder(t *testing.T) {
	r := newTestRegistry()
	var calls []string
	for _, name := range []string{"A", "B", "C"} {
		name := name
		r.On("layer", func(string, *Envelope, any) { calls = append(calls, name) }, nil)
	}

	for i := 0; i < 3; i++ {
		r.Fire("layer", nil)
	}
	assert.Equal(t, []string{"A", "B", "C", "A", "B", "C", "A", "B", "C"}, calls)
}

func TestFireResetsFlags(t *testing.T) {
	r := newTestRegistry()
	var seen Envelope
	r.Subscribe("layer", func(_ string, env *Envelope, _ any) { seen = *env }, nil)

	env := NewEnvelope()
	env.Action = "stale"
	env.Flagged = true
	env.Decrepitate = true
	env.Stop = true

	assert.False(t, r.Fire("layer", env))
	assert.Equal(t, "layer", seen.Action)
	assert.False(t, seen.Flagged)
	assert.False(t, seen.Decrepitate)
	assert.False(t, seen.Stop)
	assert.Equal(t, env.ID, seen.ID)
}

func TestFireRunsEverySubscriber(t *testing.T) {
	r := newTestRegistry()
	ran := false
	r.Subscribe("layer", func(_ string, env *Envelope, _ any) {
		env.Flagged = true
		env.Decrepitate = true
		env.Stop = true
	}, nil)
	r.Subscribe("layer", func(_ string, env *Envelope, _ any) {
		ran = true
		assert.True(t, env.Flagged)
	}, nil)

	assert.True(t, r.Fire("layer", nil))
	assert.True(t, ran)
}

func TestFireUnknownLayer(t *testing.T) {
	r := newTestRegistry()
	env := NewEnvelope()

	assert.False(t, r.Fire("missing", env))
	assert.Equal(t, "missing", env.Action)
	assert.False(t, r.Has("missing"))
}

func TestFireRecoversPanics(t *testing.T) {
	r := newTestRegistry()
	ran := false
	r.Subscribe("layer", func(string, *Envelope, any) { panic("boom") }, nil)
	r.Subscribe("layer", func(_ string, env *Envelope, _ any) {
		ran = true
		env.Stop = true
	}, nil)

	assert.NotPanics(t, func() {
		assert.True(t, r.Fire("layer", nil))
	})
	assert.True(t, ran)
}

func TestFireReentrant(t *testing.T) {
	r := newTestRegistry()
	var inner bool
	r.Subscribe("inner", func(_ string, env *Envelope, _ any) { env.Stop = true }, nil)
	r.Subscribe("outer", func(_ string, env *Envelope, _ any) {
		inner = r.Fire("inner", nil)
		env.Flagged = true
	}, nil)

	env := NewEnvelope()
	assert.False(t, r.Fire("outer", env))
	assert.True(t, inner)
	assert.True(t, env.Flagged)
	assert.False(t, env.Stop)
	assert.Equal(t, "outer", env.Action)
}

func TestSubscribeDuringFire(t *testing.T) {
	r := newTestRegistry()
	late := 0
	r.Subscribe("layer", func(string, *Envelope, any) {
		r.Subscribe("layer", func(string, *Envelope, any) { late++ }, nil)
	}, nil)

	r.Fire("layer", nil)
	assert.Equal(t, 0, late)
	r.Fire("layer", nil)
	assert.Equal(t, 1, late)
}

func TestScope(t *testing.T) {
	r := newTestRegistry()
	r.CreateLayers([]string{"scoped"}, "layer scope")

	var scopes []any
	record := func(_ string, _ *Envelope, scope any) { scopes = append(scopes, scope) }
	r.Subscribe("scoped", record, nil)
	r.Subscribe("scoped", record, "mine")
	r.Subscribe("rooted", record, nil)

	r.Fire("scoped", nil)
	r.Fire("rooted", nil)
	assert.Equal(t, []any{"layer scope", "mine", "root"}, scopes)
}

func TestEnvelopeData(t *testing.T) {
	env := NewEnvelope()
	assert.NotEmpty(t, env.ID)

	_, ok := env.Get("missing")
	assert.False(t, ok)

	env.Set("row", 3)
	v, ok := env.Get("row")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	env.Claim()
	assert.True(t, env.Flagged)
	assert.True(t, env.Decrepitate)
	assert.True(t, env.Stop)
}
