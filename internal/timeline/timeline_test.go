package timeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func boxTimeline() Timeline {
	return Timeline{
		Name:   "box",
		Length: 3,
		Keyframes: []Keyframe{
			{Start: 1, End: 2, Property: "width", From: Scalar(100), To: Scalar(200)},
			{Start: 2, End: 3, Property: "width", From: Scalar(200), To: Scalar(400)},
			{Start: 0, End: 1, Property: "title.opacity", From: Scalar(1), To: Scalar(0)},
			{Start: 0.5, End: 1, Property: "title.opacity", From: Scalar(0.5), To: Scalar(0.25)},
		},
	}
}

func scalar(t *testing.T, st State, prop string) float64 {
	t.Helper()
	v, ok := st[prop]
	require.True(t, ok, "missing property %s", prop)
	require.Equal(t, KindScalar, v.Kind)
	return v.N
}

func TestSeekInterpolatesInsideInterval(t *testing.T) {
	s, err := New(boxTimeline())
	require.NoError(t, err)

	require.InDelta(t, 150, scalar(t, s.Seek(1.5), "width"), 1e-9)
	require.InDelta(t, 300, scalar(t, s.Seek(2.5), "width"), 1e-9)
}

func TestSeekClampsOutsideIntervals(t *testing.T) {
	s, err := New(boxTimeline())
	require.NoError(t, err)

	// before the first interval -> its start value
	require.InDelta(t, 100, scalar(t, s.Seek(0.2), "width"), 1e-9)
	require.InDelta(t, 100, scalar(t, s.Seek(-5), "width"), 1e-9)
	// past the last interval -> its end value, never extrapolated
	require.InDelta(t, 400, scalar(t, s.Seek(3.4), "width"), 1e-9)
	require.InDelta(t, 400, scalar(t, s.Seek(99), "width"), 1e-9)
	require.InDelta(t, 0.25, scalar(t, s.Seek(2), "title.opacity"), 1e-9)
}

func TestOverlapLatestStartWins(t *testing.T) {
	s, err := New(boxTimeline())
	require.NoError(t, err)

	// only the first crossfade covers 0.25
	require.InDelta(t, 0.75, scalar(t, s.Seek(0.25), "title.opacity"), 1e-9)
	// both cover 0.75; the one starting at 0.5 wins
	require.InDelta(t, 0.375, scalar(t, s.Seek(0.75), "title.opacity"), 1e-9)
	// shared boundary at 2: the interval starting at 2 owns it, both agree on 200
	require.InDelta(t, 200, scalar(t, s.Seek(2), "width"), 1e-9)
}

func TestSeekIsIdempotentAcrossReversals(t *testing.T) {
	s, err := New(boxTimeline())
	require.NoError(t, err)

	want := s.Seek(1.7)
	for _, p := range []float64{0, 3, 2.9, 0.1, 1.7, 1.69, 3.4, -1} {
		s.Seek(p)
	}
	require.Equal(t, want, s.Seek(1.7))
	require.Equal(t, want, s.Last())
}

func TestEasingApplied(t *testing.T) {
	tl := Timeline{Name: "eased", Length: 1, Keyframes: []Keyframe{
		{Start: 0, End: 1, Property: "x", From: Scalar(0), To: Scalar(100), Ease: "power1.in"},
	}}
	s, err := New(tl)
	require.NoError(t, err)
	require.InDelta(t, 25, scalar(t, s.Seek(0.5), "x"), 1e-9)
	require.InDelta(t, 100, scalar(t, s.Seek(1), "x"), 1e-9)
}

func TestUnknownEaseFallsBackToLinear(t *testing.T) {
	s, err := New(Timeline{Name: "x", Length: 1, Keyframes: []Keyframe{
		{Start: 0, End: 1, Property: "o", From: Scalar(0), To: Scalar(1), Ease: "back.out"},
	}})
	require.NoError(t, err)
	require.InDelta(t, 0.5, scalar(t, s.Seek(0.5), "o"), 1e-9)

	tls, err := Load(strings.NewReader(`
timelines:
  - name: bounce
    length: 1
    keyframes:
      - {start: 0, end: 1, property: y, from: 0, to: 40, ease: elastic.out}
`))
	require.NoError(t, err)
	require.Len(t, tls, 1)
}

func TestColorInterpolation(t *testing.T) {
	from, err := ParseColor("#000000")
	require.NoError(t, err)
	to, err := ParseColor("#ffffff80")
	require.NoError(t, err)
	s, err := New(Timeline{Name: "c", Length: 1, Keyframes: []Keyframe{
		{Start: 0, End: 1, Property: "bg", From: from, To: to},
	}})
	require.NoError(t, err)

	v := s.Seek(0.5)["bg"]
	require.Equal(t, KindColor, v.Kind)
	require.InDelta(t, 127.5, v.Color.R, 1e-9)
	require.InDelta(t, (1+128.0/255)/2, v.Color.A, 1e-9)
}

func TestValidateRejectsBadKeyframes(t *testing.T) {
	_, err := New(Timeline{Name: "bad", Keyframes: []Keyframe{{Start: 2, End: 1, Property: "x"}}})
	require.ErrorIs(t, err, ErrInterval)

	_, err = New(Timeline{Name: "bad", Keyframes: []Keyframe{{Start: 0, End: 1}}})
	require.ErrorIs(t, err, ErrEmptyProperty)

	_, err = New(Timeline{Name: "bad", Keyframes: []Keyframe{{Start: 0, End: 1, Property: "x", From: Scalar(0), To: RGBA(0, 0, 0, 1)}}})
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestCloseReleasesSubscribers(t *testing.T) {
	s, err := New(boxTimeline())
	require.NoError(t, err)

	calls := 0
	s.Subscribe(func(State) { calls++ })
	s.Update(1.5)
	require.Equal(t, 1, calls)

	require.NoError(t, s.Close())
	s.Update(2.5)
	require.Equal(t, 1, calls)

	// subscribing after close is a no-op
	s.Subscribe(func(State) { calls++ })
	s.Update(0)
	require.Equal(t, 1, calls)
	require.NoError(t, s.Close())
}

func TestUnsubscribe(t *testing.T) {
	s, err := New(boxTimeline())
	require.NoError(t, err)
	var got []float64
	stop := s.Subscribe(func(st State) { got = append(got, st["width"].N) })
	s.Update(1)
	stop()
	s.Update(2)
	require.Equal(t, []float64{100}, got)
}

func TestRunStopsOnClose(t *testing.T) {
	s, err := New(boxTimeline())
	require.NoError(t, err)

	progress := make(chan float64)
	seen := make(chan float64, 4)
	s.Subscribe(func(st State) { seen <- st["width"].N })

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background(), progress) }()

	progress <- 1.5
	require.InDelta(t, 150, <-seen, 1e-9)

	require.NoError(t, s.Close())
	select {
	case err := <-errc:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestLoadAndPresets(t *testing.T) {
	tls, err := Load(strings.NewReader(`
timelines:
  - name: fade
    length: 1
    keyframes:
      - {start: 0, end: 1, property: bg, from: "#fff", to: "#000", ease: sine.inOut}
`))
	require.NoError(t, err)
	require.Len(t, tls, 1)
	require.Equal(t, KindColor, tls[0].Keyframes[0].From.Kind)

	_, err = Load(strings.NewReader("timelines:\n  - name: x\n    keyframes:\n      - {start: 0, end: 1, property: p, from: 0, to: 1, ease: wobble}\n"))
	require.Error(t, err)

	presets := Presets()
	hero, ok := presets["landing-hero"]
	require.True(t, ok)
	require.Equal(t, 3.4, hero.Length)

	s, err := New(hero)
	require.NoError(t, err)
	end := s.Seek(hero.Length)
	require.InDelta(t, 1440, end["box.width"].N, 1e-9)
	require.InDelta(t, 0, end["subhead.opacity"].N, 1e-9)
	start := s.Seek(0)
	require.InDelta(t, 320, start["box.width"].N, 1e-9)
	require.InDelta(t, 1, start["headline.opacity"].N, 1e-9)
	require.Equal(t, []string{"client-card-hover", "landing-hero"}, PresetNames())
}
