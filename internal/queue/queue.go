// Package queue tracks each finding's lifecycle status and enforces legal
// transitions. The queue never edits chapter content; it only gates and
// records decisions. Legal transitions: pending -> approved|rejected,
// approved -> applied, and any status -> pending via Revert (treated as a
// fresh decision).
package queue

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/pressbooks-auditor/internal/rules"
	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// Store persists queue mutations outside the core. A nil store keeps the
// queue purely in memory.
type Store interface {
	SaveFinding(ctx context.Context, f types.Finding) error
	SaveDecision(ctx context.Context, d types.Decision) error
	SavePolicy(ctx context.Context, findingID string, p types.WindowPolicy) error
}

// Queue is the approval state machine. Findings are kept in an arena keyed
// by stable ID; a single mutex serializes status changes so two reviewers
// acting on the same finding cannot lose an update.
type Queue struct {
	mu        sync.Mutex
	findings  map[string]*types.Finding
	decisions map[string][]types.Decision
	policies  map[string]types.WindowPolicy
	store     Store
}

// New creates an empty queue. store may be nil.
func New(store Store) *Queue {
	return &Queue{
		findings:  make(map[string]*types.Finding),
		decisions: make(map[string][]types.Decision),
		policies:  make(map[string]types.WindowPolicy),
		store:     store,
	}
}

// Propose seeds a finding at pending if not already tracked. Proposing an
// already-tracked ID is a no-op, so re-scans can feed the queue repeatedly
// without resetting review state. Returns true when the finding was newly
// seeded.
func (q *Queue) Propose(ctx context.Context, f types.Finding) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.findings[f.ID]; ok {
		return false, nil
	}

	f.Status = types.StatusPending
	f.DecisionNote = ""
	f.DecidedBy = ""
	f.DecidedAt = nil
	q.findings[f.ID] = &f

	if q.store != nil {
		if err := q.store.SaveFinding(ctx, f); err != nil {
			delete(q.findings, f.ID)
			return false, err
		}
	}
	return true, nil
}

// Decide records a human verdict on a pending finding. Verdict must be
// approved or rejected; any other source status fails with
// IllegalTransitionError and leaves the queue unchanged.
func (q *Queue) Decide(ctx context.Context, findingID string, verdict types.Status, note, reviewer string) (types.Finding, error) {
	if verdict != types.StatusApproved && verdict != types.StatusRejected {
		return types.Finding{}, ErrBadVerdict
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	f, ok := q.findings[findingID]
	if !ok {
		return types.Finding{}, ErrNotTracked
	}
	if f.Status != types.StatusPending {
		return types.Finding{}, &IllegalTransitionError{FindingID: findingID, From: f.Status, To: verdict}
	}

	now := time.Now().UTC()
	updated := *f
	updated.Status = verdict
	updated.DecisionNote = note
	updated.DecidedBy = reviewer
	updated.DecidedAt = &now

	decision := types.Decision{
		ID:        uuid.NewString(),
		FindingID: findingID,
		Verdict:   verdict,
		Note:      note,
		DecidedBy: reviewer,
		DecidedAt: now,
	}

	if q.store != nil {
		// Decision row first: the store must never hold a verdict status
		// without the decision record that produced it.
		if err := q.store.SaveDecision(ctx, decision); err != nil {
			return types.Finding{}, err
		}
		if err := q.store.SaveFinding(ctx, updated); err != nil {
			return types.Finding{}, err
		}
	}

	*f = updated
	q.decisions[findingID] = append(q.decisions[findingID], decision)
	return updated, nil
}

/// MarkApplied transitions an approved finding to applied. Caller contract:
// call this only after the remediation validator shows the finding's locator
// absent from the post-edit manifest; the queue cannot verify that itself
// since it performs no edits. New-window link findings additionally require
// a recorded window policy.
func (q *Queue) MarkApplied(ctx context.Context, findingID string) (types.Finding, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, ok := q.findings[findingID]
	if !ok {
		return types.Finding{}, ErrNotTracked
	}
	if f.Status != types.StatusApproved {
		return types.Finding{}, &IllegalTransitionError{FindingID: findingID, From: f.Status, To: types.StatusApplied}
	}
	if f.RuleID == rules.RuleLinkNewWindow {
		if _, ok := q.policies[findingID]; !ok {
			return types.Finding{}, ErrPolicyRequired
		}
	}

	updated := *f
	updated.Status = types.StatusApplied

	if q.store != nil {
		if err := q.store.SaveFinding(ctx, updated); err != nil {
			return types.Finding{}, err
		}
	}

	*f = updated
	return updated, nil
}

// Revert returns a finding to pending for a fresh decision, clearing the
// recorded verdict metadata. The decision history is retained.
func (q *Queue) Revert(ctx context.Context, findingID string) (types.Finding, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, ok := q.findings[findingID]
	if !ok {
		return types.Finding{}, ErrNotTracked
	}

	updated := *f
	updated.Status = types.StatusPending
	updated.DecisionNote = ""
	updated.DecidedBy = ""
	updated.DecidedAt = nil

	if q.store != nil {
		if err := q.store.SaveFinding(ctx, updated); err != nil {
			return types.Finding{}, err
		}
	}

	*f = updated
	return updated, nil
}

// RecordPolicy records the window policy decision for a new-window link
// finding. The policy is distinct from the approval verdict; both must exist
// before such a finding can reach applied.
func (q *Queue) RecordPolicy(ctx context.Context, findingID string, policy types.WindowPolicy) error {
	if !types.ValidWindowPolicy(policy) {
		return ErrBadPolicy
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.findings[findingID]; !ok {
		return ErrNotTracked
	}
	if q.store != nil {
		if err := q.store.SavePolicy(ctx, findingID, policy); err != nil {
			return err
		}
	}
	q.policies[findingID] = policy
	return nil
}

// Policy returns the recorded window policy for a finding, if any.
func (q *Queue) Policy(findingID string) (types.WindowPolicy, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	p, ok := q.policies[findingID]
	return p, ok
}

// Get returns a copy of the tracked finding.
func (q *Queue) Get(findingID string) (types.Finding, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	f, ok := q.findings[findingID]
	if !ok {
		return types.Finding{}, false
	}
	return *f, true
}

// History returns the decision history for a finding, oldest first.
func (q *Queue) History(findingID string) []types.Decision {
	q.mu.Lock()
	defer q.mu.Unlock()
	history := make([]types.Decision, len(q.decisions[findingID]))
	copy(history, q.decisions[findingID])
	return history
}

// Findings returns copies of all tracked findings ordered by document, line
// and rule, matching manifest ordering.
func (q *Queue) Findings() []types.Finding {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]types.Finding, 0, len(q.findings))
	for _, f := range q.findings {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		if out[i].RuleID != out[j].RuleID {
			return out[i].RuleID < out[j].RuleID
		}
		return out[i].Locator < out[j].Locator
	})
	return out
}

// WithStatus returns copies of all tracked findings in the given status.
func (q *Queue) WithStatus(status types.Status) []types.Finding {
	var out []types.Finding
	for _, f := range q.Findings() {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out
}

// AppliedIDs returns the IDs of all findings in the applied status, for
// regression detection by the remediation validator.
func (q *Queue) AppliedIDs() []string {
	var ids []string
	for _, f := range q.Findings() {
		if f.Status == types.StatusApplied {
			ids = append(ids, f.ID)
		}
	}
	return ids
}
