package speaker

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// CanonicalSpeaker is the resolved identity a set of appearances maps to.
type CanonicalSpeaker struct {
	SpeakerID             string
	NormalizedName        string
	NormalizedField       string
	NormalizedAffiliation string
	DisplayName           string
	FirstSeen             time.Time
	LastSeen              time.Time
	AppearanceCount       int
}

// Observation is one deduplicated appearance ready for registration.
type Observation struct {
	NameNorm        string
	FieldNorm       string
	AffiliationNorm string
	DisplayName     string
	When            time.Time
}

// Registry maintains canonical speakers keyed by speaker ID. It is safe for
// concurrent use, though registry builds are single-writer in practice.
type Registry struct {
	mu       sync.RWMutex
	speakers map[string]*CanonicalSpeaker
	aliases  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		speakers: make(map[string]*CanonicalSpeaker),
		aliases:  make(map[string]string),
	}
}

// Observe registers one appearance. The first observation of a triple creates
// the canonical speaker; later observations update counters and the seen
// window. Returns the canonical speaker ID.
func (r *Registry) Observe(obs Observation) (string, error) {
	id, err := ID(obs.NameNorm, obs.FieldNorm, obs.AffiliationNorm)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id = r.resolveLocked(id)
	sp, ok := r.speakers[id]
	if !ok {
		display := strings.TrimSpace(obs.DisplayName)
		if display == "" {
			display = obs.NameNorm
		}
		sp = &CanonicalSpeaker{
			SpeakerID:             id,
			NormalizedName:        obs.NameNorm,
			NormalizedField:       obs.FieldNorm,
			NormalizedAffiliation: obs.AffiliationNorm,
			DisplayName:           display,
			FirstSeen:             obs.When,
			LastSeen:              obs.When,
		}
		r.speakers[id] = sp
	}

	sp.AppearanceCount++
	if !obs.When.IsZero() {
		if sp.FirstSeen.IsZero() || obs.When.Before(sp.FirstSeen) {
			sp.FirstSeen = obs.When
		}
		if sp.LastSeen.IsZero() || obs.When.After(sp.LastSeen) {
			sp.LastSeen = obs.When
		}
	}
	return id, nil
}

// Restore inserts a previously persisted speaker without touching counters.
// Used when reloading the registry from the store.
func (r *Registry) Restore(sp CanonicalSpeaker) {
	if sp.SpeakerID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := sp
	r.speakers[sp.SpeakerID] = &cp
}

// RestoreAlias reinstates a persisted alias mapping. Self-referential links
// are dropped so resolution cannot loop.
func (r *Registry) RestoreAlias(aliasID, canonicalID string) {
	if aliasID == "" || canonicalID == "" || aliasID == canonicalID {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[aliasID] = canonicalID
}

// Aliases returns a copy of the recorded alias links.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.aliases))
	for alias, canonical := range r.aliases {
		out[alias] = canonical
	}
	return out
}

// Lookup returns the canonical speaker for the given ID, following any
// recorded unions.
func (r *Registry) Lookup(id string) (CanonicalSpeaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.speakers[r.resolveLocked(id)]
	if !ok {
		return CanonicalSpeaker{}, false
	}
	return *sp, true
}

// Resolve maps an ID through recorded unions to its canonical ID.
func (r *Registry) Resolve(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(id)
}

// Union records that duplicate denotes the same identity as canonical.
// Appearance counts and the seen window fold into the canonical entry; the
// duplicate key survives as an alias so old references keep resolving. This
// is a collision union, not a semantic merge: neither identity is deleted.
func (r *Registry) Union(canonicalID, duplicateID string) {
	if canonicalID == "" || duplicateID == "" || canonicalID == duplicateID {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	canonicalID = r.resolveLocked(canonicalID)
	duplicateID = r.resolveLocked(duplicateID)
	if canonicalID == duplicateID {
		return
	}

	canon, ok := r.speakers[canonicalID]
	dup, dupOK := r.speakers[duplicateID]
	if !ok || !dupOK {
		return
	}

	canon.AppearanceCount += dup.AppearanceCount
	if !dup.FirstSeen.IsZero() && (canon.FirstSeen.IsZero() || dup.FirstSeen.Before(canon.FirstSeen)) {
		canon.FirstSeen = dup.FirstSeen
	}
	if dup.LastSeen.After(canon.LastSeen) {
		canon.LastSeen = dup.LastSeen
	}
	delete(r.speakers, duplicateID)
	r.aliases[duplicateID] = canonicalID
}

// ByField returns all canonical speakers whose normalized field matches,
// sorted by speaker ID for deterministic iteration.
func (r *Registry) ByField(fieldNorm string) []CanonicalSpeaker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []CanonicalSpeaker
	for _, sp := range r.speakers {
		if sp.NormalizedField == fieldNorm {
			out = append(out, *sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpeakerID < out[j].SpeakerID })
	return out
}

// All returns every canonical speaker sorted by speaker ID.
func (r *Registry) All() []CanonicalSpeaker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CanonicalSpeaker, 0, len(r.speakers))
	for _, sp := range r.speakers {
		out = append(out, *sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpeakerID < out[j].SpeakerID })
	return out
}

// Count returns the number of distinct canonical speakers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.speakers)
}

// FieldCounts returns the number of canonical speakers per normalized field.
func (r *Registry) FieldCounts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, sp := range r.speakers {
		counts[sp.NormalizedField]++
	}
	return counts
}

// resolveLocked follows alias links to the canonical ID. Callers hold mu in
// at least read mode, so no path compression happens here.
func (r *Registry) resolveLocked(id string) string {
	seen := 0
	cur := id
	for {
		next, ok := r.aliases[cur]
		if !ok {
			return cur
		}
		cur = next
		seen++
		if seen > len(r.aliases) {
			return cur
		}
	}
}
