package state

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"BezierBoard/internal/geom"
	"BezierBoard/internal/logging"
)

// Replica is a last-writer-wins register over a board's control points.
//
// Every peer sharing a board owns one. Local edits are stamped with the
// peer's Lamport clock; snapshots from other peers are accepted only when
// their (revision, site) stamp is newer than the last accepted one, so all
// peers converge on the same list whatever order snapshots arrive in.
type Replica struct {
	siteID string
	clock  Clock

	mu       sync.RWMutex
	last     Snapshot
	accepted int
}

// NewReplica creates a replica with a fresh random site id.
func NewReplica() *Replica {
	return NewReplicaWithSite(uuid.NewString())
}

// NewReplicaWithSite creates a replica with a fixed site id.
func NewReplicaWithSite(site string) *Replica {
	return &Replica{siteID: site}
}

// SiteID returns this replica's site id.
func (r *Replica) SiteID() string {
	return r.siteID
}

// Local records points as a local edit and returns the stamped snapshot to
// broadcast.
func (r *Replica) Local(points []geom.Point2) Snapshot {
	s := Snapshot{
		Site:     r.siteID,
		Revision: r.clock.Tick(),
		Points:   slices.Clone(points),
	}

	r.mu.Lock()
	r.last = s
	r.mu.Unlock()
	return s
}

// Merge applies a snapshot received from the network. It returns true when
// the snapshot is valid, newer than the current state and should be shown.
// Invalid snapshots are dropped without touching the clock.
func (r *Replica) Merge(s Snapshot) bool {
	if err := s.Validate(); err != nil {
		logging.Logger().Warn("snapshot rejected", "site", s.Site, "revision", s.Revision, "err", err)
		return false
	}
	r.clock.Update(s.Revision)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !s.After(r.last) {
		logging.Logger().Debug("stale snapshot ignored", "site", s.Site, "revision", s.Revision)
		return false
	}
	s.Points = slices.Clone(s.Points)
	r.last = s
	r.accepted++
	logging.Logger().Debug("snapshot merged", "site", s.Site, "revision", s.Revision, "points", len(s.Points), "clock", r.clock.Now())
	return true
}

// Latest returns the newest snapshot seen, local or remote.
func (r *Replica) Latest() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.last
	s.Points = slices.Clone(s.Points)
	return s
}

// Accepted returns the number of remote snapshots merged.
func (r *Replica) Accepted() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accepted
}

// After orders snapshots by revision, then by site id. It reports whether s
// supersedes o.
func (s Snapshot) After(o Snapshot) bool {
	if s.Revision != o.Revision {
		return s.Revision > o.Revision
	}
	return s.Site > o.Site
}
