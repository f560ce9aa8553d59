package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/jonathan/pressbooks-auditor/internal/types"
)

// DiffResult is the symmetric difference of two manifests' identity sets.
type DiffResult struct {
	// OnlyBefore holds keys present in the before manifest and absent after:
	// defects that were resolved by the edit.
	OnlyBefore []types.FindingKey `json:"only_before"`
	// OnlyAfter holds keys newly present after the edit.
	OnlyAfter []types.FindingKey `json:"only_after"`
}

// Diff compares two manifests by their (rule, document, locator) identity
// tuples. Neither manifest is modified.
func Diff(before, after *types.Manifest) *DiffResult {
	beforeKeys := before.Keys()
	afterKeys := after.Keys()

	var result DiffResult
	for key := range beforeKeys {
		if _, ok := afterKeys[key]; !ok {
			result.OnlyBefore = append(result.OnlyBefore, key)
		}
	}
	for key := range afterKeys {
		if _, ok := beforeKeys[key]; !ok {
			result.OnlyAfter = append(result.OnlyAfter, key)
		}
	}

	sortKeys(result.OnlyBefore)
	sortKeys(result.OnlyAfter)
	return &result
}

func sortKeys(keys []types.FindingKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].DocumentID != keys[j].DocumentID {
			return keys[i].DocumentID < keys[j].DocumentID
		}
		if keys[i].RuleID != keys[j].RuleID {
			return keys[i].RuleID < keys[j].RuleID
		}
		return keys[i].Locator < keys[j].Locator
	})
}

// WriteFile persists a manifest as JSON. Manifests are immutable;
// re-scanning writes a new file rather than editing a prior one.
func WriteFile(m *types.Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a previously written manifest.
func ReadFile(path string) (*types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
