package staging

import (
	"sync"

	"assetscan/models"
	"assetscan/services/notification"
)

const removedMessage = "Asset was removed from list"

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeRemoved   ChangeKind = "removed"
	ChangeCleared   ChangeKind = "cleared"
	// ChangeDiscarded follows a successful submission taking assets out.
	ChangeDiscarded ChangeKind = "discarded"
)

// Change is delivered to observers after every effective mutation. Assets
// is the set as it stood right after that mutation.
type Change struct {
	Kind    ChangeKind
	AssetID string
	Assets  []models.ResolvedAsset
}

// Observer must not mutate the store it is subscribed to.
type Observer func(Change)

// Store is the ordered, id-unique set of assets staged in one session.
// Lookups of missing ids are silent no-ops.
type Store struct {
	mu     sync.Mutex
	assets []models.ResolvedAsset
	ids    map[string]struct{}

	// serializes observer delivery so changes arrive in mutation order
	deliverMu sync.Mutex
	observers map[int]Observer
	nextObs   int

	notifier notification.Notifier
}

func NewStore(notifier notification.Notifier) *Store {
	return &Store{
		ids:       make(map[string]struct{}),
		observers: make(map[int]Observer),
		notifier:  notifier,
	}
}

// Add appends asset unless its id is already staged. It reports whether
// the set changed.
func (s *Store) Add(asset models.ResolvedAsset) bool {
	s.mu.Lock()
	if _, ok := s.ids[asset.ID]; ok {
		s.mu.Unlock()
		return false
	}
	s.ids[asset.ID] = struct{}{}
	s.assets = append(s.assets, asset)
	s.publishLocked(Change{Kind: ChangeAdded, AssetID: asset.ID})
	return true
}

// Remove drops id if present and emits a removal notification.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	if _, ok := s.ids[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.ids, id)
	for i, a := range s.assets {
		if a.ID == id {
			s.assets = append(s.assets[:i:i], s.assets[i+1:]...)
			break
		}
	}
	s.publishLocked(Change{Kind: ChangeRemoved, AssetID: id})

	if s.notifier != nil {
		s.notifier.Notify(removedMessage)
	}
	return true
}

// Clear empties the set. No notification is emitted.
func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.assets) == 0 {
		s.mu.Unlock()
		return
	}
	s.assets = nil
	s.ids = make(map[string]struct{})
	s.publishLocked(Change{Kind: ChangeCleared})
}

// Discard drops the listed ids without notifying. Staged assets not in ids
// are kept in order.
func (s *Store) Discard(ids []string) {
	s.mu.Lock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.ids[id]; ok {
			drop[id] = struct{}{}
			delete(s.ids, id)
		}
	}
	if len(drop) == 0 {
		s.mu.Unlock()
		return
	}
	kept := make([]models.ResolvedAsset, 0, len(s.assets)-len(drop))
	for _, a := range s.assets {
		if _, ok := drop[a.ID]; !ok {
			kept = append(kept, a)
		}
	}
	s.assets = kept
	s.publishLocked(Change{Kind: ChangeDiscarded})
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Assets returns a copy of the staged assets in insertion order.
func (s *Store) Assets() []models.ResolvedAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// IDs returns the staged ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.assets))
	for i, a := range s.assets {
		ids[i] = a.ID
	}
	return ids
}

// Subscribe registers fn for every later change and returns its cancel func.
func (s *Store) Subscribe(fn Observer) func() {
	s.deliverMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.deliverMu.Unlock()

	return func() {
		s.deliverMu.Lock()
		delete(s.observers, id)
		s.deliverMu.Unlock()
	}
}

func (s *Store) copyLocked() []models.ResolvedAsset {
	out := make([]models.ResolvedAsset, len(s.assets))
	copy(out, s.assets)
	return out
}

// publishLocked is called with s.mu held and releases it. The delivery lock
// is taken before s.mu is dropped so observers see changes in order.
func (s *Store) publishLocked(change Change) {
	change.Assets = s.copyLocked()
	s.deliverMu.Lock()
	s.mu.Unlock()
	defer s.deliverMu.Unlock()

	for _, fn := range s.observers {
		fn(change)
	}
}
