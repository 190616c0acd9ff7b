package scene

import "sort"

// Recorder is a Sink that keeps the latest pose of every entity.
// Used for headless runs and tests; not safe for concurrent use.
type Recorder struct {
	poses     map[EntityID]Pose
	published int
	darkMode  bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{poses: make(map[EntityID]Pose)}
}

// Publish stores the pose, replacing any earlier one for the same id.
func (r *Recorder) Publish(id EntityID, pose Pose) {
	r.poses[id] = pose
	r.published++
}

// Pose returns the latest pose for id.
func (r *Recorder) Pose(id EntityID) (Pose, bool) {
	p, ok := r.poses[id]
	return p, ok
}

// Count returns how many distinct entities of the given kind have been seen.
func (r *Recorder) Count(kind string) int {
	n := 0
	for id := range r.poses {
		if id.Kind == kind {
			n++
		}
	}
	return n
}

// Kinds returns the sorted entity kinds seen so far.
func (r *Recorder) Kinds() []string {
	set := make(map[string]struct{})
	for id := range r.poses {
		set[id.Kind] = struct{}{}
	}
	kinds := make([]string, 0, len(set))
	for k := range set {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Published returns the total number of Publish calls.
func (r *Recorder) Published() int { return r.published }

// Forget drops all poses of the given kind, as when a species is torn down.
func (r *Recorder) Forget(kind string) {
	for id := range r.poses {
		if id.Kind == kind {
			delete(r.poses, id)
		}
	}
}

// SetDarkMode records the flag so headless runs can report it.
func (r *Recorder) SetDarkMode(enabled bool) { r.darkMode = enabled }

// DarkMode reports the last flag passed to SetDarkMode.
func (r *Recorder) DarkMode() bool { return r.darkMode }
