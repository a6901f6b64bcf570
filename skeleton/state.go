package skeleton

import "fmt"

type mixKey struct{ from, to string }

// StateData holds the crossfade durations between animations.
type StateData struct {
	Skeleton *Data
	// DefaultMix is the crossfade in seconds used when no explicit mix is set.
	DefaultMix float64

	mixes map[mixKey]float64
}

// NewStateData returns state data with no crossfades.
func NewStateData(d *Data) *StateData {
	return &StateData{Skeleton: d, mixes: make(map[mixKey]float64)}
}

// SetMix sets the crossfade from one animation to another.
func (d *StateData) SetMix(from, to string, duration float64) {
	d.mixes[mixKey{from, to}] = duration
}

// Mix returns the crossfade from one animation to another.
func (d *StateData) Mix(from, to string) float64 {
	if v, ok := d.mixes[mixKey{from, to}]; ok {
		return v
	}
	return d.DefaultMix
}

// TrackEntry is an animation playing on a track.
type TrackEntry struct {
	Animation   *Animation
	Loop        bool
	Time        float64
	MixDuration float64
	MixTime     float64

	mixingFrom *TrackEntry
}

// MixingFrom returns the entry being faded out, or nil.
func (e *TrackEntry) MixingFrom() *TrackEntry { return e.mixingFrom }

// Complete reports whether a non-looping entry reached its end.
func (e *TrackEntry) Complete() bool {
	return !e.Loop && e.Time >= e.Animation.Duration
}

// AnimationState plays animations on numbered tracks. Higher tracks are
// applied after lower ones.
type AnimationState struct {
	data      *StateData
	tracks    []*TrackEntry
	TimeScale float64
}

// NewAnimationState returns an empty state.
func NewAnimationState(d *StateData) *AnimationState {
	return &AnimationState{data: d, TimeScale: 1}
}

// Data returns the state's mix configuration.
func (s *AnimationState) Data() *StateData { return s.data }

// SetAnimation replaces the track's animation, crossfading from the current
// one when a mix is configured.
func (s *AnimationState) SetAnimation(track int, name string, loop bool) (*TrackEntry, error) {
	if track < 0 {
		return nil, fmt.Errorf("skeleton: negative track %d", track)
	}
	a, err := s.data.Skeleton.FindAnimation(name)
	if err != nil {
		return nil, err
	}
	for len(s.tracks) <= track {
		s.tracks = append(s.tracks, nil)
	}
	entry := &TrackEntry{Animation: a, Loop: loop}
	if cur := s.tracks[track]; cur != nil {
		entry.MixDuration = s.data.Mix(cur.Animation.Name, name)
		if entry.MixDuration > 0 {
			cur.mixingFrom = nil
			entry.mixingFrom = cur
		}
	}
	s.tracks[track] = entry
	return entry, nil
}

// Current returns the entry on track, or nil.
func (s *AnimationState) Current(track int) *TrackEntry {
	if track < 0 || track >= len(s.tracks) {
		return nil
	}
	return s.tracks[track]
}

// ClearTrack stops the track.
func (s *AnimationState) ClearTrack(track int) {
	if track >= 0 && track < len(s.tracks) {
		s.tracks[track] = nil
	}
}

// ClearTracks stops every track.
func (s *AnimationState) ClearTracks() {
	s.tracks = nil
}

// Update advances every track by dt seconds.
func (s *AnimationState) Update(dt float64) {
	dt *= s.TimeScale
	for _, e := range s.tracks {
		if e == nil {
			continue
		}
		e.Time += dt
		if from := e.mixingFrom; from != nil {
			from.Time += dt
			e.MixTime += dt
			if e.MixTime >= e.MixDuration {
				e.mixingFrom = nil
			}
		}
	}
}

// Apply poses sk from the setup pose using every track.
func (s *AnimationState) Apply(sk *Skeleton) {
	sk.SetToSetupPose()
	for _, e := range s.tracks {
		if e == nil {
			continue
		}
		alpha := 1.0
		if from := e.mixingFrom; from != nil && e.MixDuration > 0 {
			from.Animation.apply(sk, from.Time, from.Loop, 1)
			alpha = min(e.MixTime/e.MixDuration, 1)
		}
		e.Animation.apply(sk, e.Time, e.Loop, alpha)
	}
}
