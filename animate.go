package display

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimateResolutionScale transitions the resolution scale to target over
// d. The transition is advanced by Tick and every step is clamped like
// SetResolutionScale. A nil easing function means linear; d <= 0 applies
// the target immediately.
//
// Example:
//
//	// Drop to half resolution over 300ms while the frame rate is low.
//	s.AnimateResolutionScale(0.5, 300*time.Millisecond, ease.OutQuad)
func (s *Surface) AnimateResolutionScale(target float64, d time.Duration, fn ease.TweenFunc) {
	if s.closed {
		return
	}
	if d <= 0 {
		s.SetResolutionScale(target)
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	s.tweenTarget = s.clampScale(target)
	s.tween = gween.New(float32(s.scale), float32(s.tweenTarget), float32(d.Seconds()), fn)
}

// Animating reports whether a resolution-scale animation is running.
func (s *Surface) Animating() bool { return s.tween != nil }

// advance steps the running animation and reports whether the scale was
// changed.
func (s *Surface) advance(dt time.Duration) bool {
	if s.tween == nil {
		return false
	}
	v, done := s.tween.Update(float32(dt.Seconds()))
	if done {
		// The tween runs in float32; land on the exact target.
		s.scale = s.tweenTarget
		s.tween = nil
		return true
	}
	s.scale = s.clampScale(float64(v))
	return true
}
