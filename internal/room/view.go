package room

import "sync"

// View is one participant's render state of a room. It only moves forward:
// a change is applied when its version is newer than the last applied one,
// which also drops the echo of an update the view already applied locally.
type View struct {
	mu      sync.Mutex
	room    Room
	applied bool
}

func NewView() *View {
	return &View{}
}

// Apply reports whether change replaced the current state.
func (v *View) Apply(change Room) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.applied && change.Version <= v.room.Version {
		return false
	}
	v.room = change.clone()
	v.applied = true
	return true
}

func (v *View) Current() (Room, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.applied {
		return Room{}, false
	}
	return v.room.clone(), true
}

func (v *View) Version() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.room.Version
}
