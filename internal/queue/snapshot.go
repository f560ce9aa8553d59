package queue

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// Snapshot is the flat, storage-ready form of the queue: findings keyed by
// stable ID plus decision history and window policies. Field names are the
// persistence contract; where the records live is outside the core.
type Snapshot struct {
	Findings  map[string]types.Finding      `json:"findings"`
	Decisions map[string][]types.Decision   `json:"decisions"`
	Policies  map[string]types.WindowPolicy `json:"policies"`
}

// Snapshot captures the queue's current state.
func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	snap := Snapshot{
		Findings:  make(map[string]types.Finding, len(q.findings)),
		Decisions: make(map[string][]types.Decision, len(q.decisions)),
		Policies:  make(map[string]types.WindowPolicy, len(q.policies)),
	}
	for id, f := range q.findings {
		snap.Findings[id] = *f
	}
	for id, history := range q.decisions {
		copied := make([]types.Decision, len(history))
		copy(copied, history)
		snap.Decisions[id] = copied
	}
	for id, p := range q.policies {
		snap.Policies[id] = p
	}
	return snap
}

// Restore replaces the queue's state with a previously captured snapshot.
func (q *Queue) Restore(snap Snapshot) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.findings = make(map[string]*types.Finding, len(snap.Findings))
	for id, f := range snap.Findings {
		copied := f
		q.findings[id] = &copied
	}
	q.decisions = make(map[string][]types.Decision, len(snap.Decisions))
	for id, history := range snap.Decisions {
		copied := make([]types.Decision, len(history))
		copy(copied, history)
		q.decisions[id] = copied
	}
	q.policies = make(map[string]types.WindowPolicy, len(snap.Policies))
	for id, p := range snap.Policies {
		q.policies[id] = p
	}
}

// SaveFile writes the queue snapshot to a JSON file.
func (q *Queue) SaveFile(path string) error {
	data, err := json.MarshalIndent(q.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal queue state: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write queue state %s: %w", path, err)
	}
	return nil
}

// LoadFile restores queue state from a JSON file written by SaveFile.
// A missing file leaves the queue empty, so the first review session needs
// no setup step.
func (q *Queue) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read queue state %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse queue state %s: %w", path, err)
	}
	if snap.Findings == nil {
		snap.Findings = map[string]types.Finding{}
	}
	if snap.Decisions == nil {
		snap.Decisions = map[string][]types.Decision{}
	}
	if snap.Policies == nil {
		snap.Policies = map[string]types.WindowPolicy{}
	}
	q.Restore(snap)
	return nil
}
