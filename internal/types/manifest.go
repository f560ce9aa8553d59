package types

import "time"

// Manifest is an immutable snapshot of all findings produced by one scan run,
// with aggregate counts per rule. A new scan produces a new manifest; prior
// manifests are never edited in place.
type Manifest struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Documents   []string       `json:"documents"`
	Findings    []Finding      `json:"findings"`
	Counts      map[string]int `json:"counts"`
}

// Keys returns the structural identity set of the manifest, the unit of
// before/after comparison.
func (m *Manifest) Keys() map[FindingKey]struct{} {
	keys := make(map[FindingKey]struct{}, len(m.Findings))
	for i := range m.Findings {
		keys[m.Findings[i].Key()] = struct{}{}
	}
	return keys
}

// FindingByKey returns the finding with the given structural identity, if present.
func (m *Manifest) FindingByKey(key FindingKey) (*Finding, bool) {
	for i := range m.Findings {
		if m.Findings[i].Key() == key {
			return &m.Findings[i], true
		}
	}
	return nil, false
}
