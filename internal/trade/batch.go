package trade

import (
	"context"
	"sync"

	"github.com/Klingon-tech/nametrade/pkg/types"
)

// MaxLookupWorkers bounds concurrent gateway lookups in LastOutputs.
const MaxLookupWorkers = 4

// OwnershipResult is the outcome of one lookup in a batch.
type OwnershipResult struct {
	Name      string
	Ownership types.NameOwnership
	Err       error
}

// LastOutputs resolves several names concurrently. Results are returned in
// the order of names and each carries its own error, so one failed lookup
// leaves the others untouched.
func (b *Builder) LastOutputs(ctx context.Context, names []string) []OwnershipResult {
	results := make([]OwnershipResult, len(names))
	if len(names) == 0 {
		return results
	}

	workers := MaxLookupWorkers
	if len(names) < workers {
		workers = len(names)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				own, err := b.LastOutput(ctx, names[i])
				results[i] = OwnershipResult{Name: names[i], Ownership: own, Err: err}
			}
		}()
	}

	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// NameStatus reports where a name claimed by an offer currently lives and
// whether the offer spends that output.
type NameStatus struct {
	Name    string
	Current types.NameOwnership
	Spent   bool
	Err     error
}

// CheckNames resolves the current output of every name claimed by the
// summary's name_update outputs. Each name is looked up once.
func (b *Builder) CheckNames(ctx context.Context, s Summary) []NameStatus {
	var names []string
	seen := make(map[string]bool)
	for _, out := range s.Outputs {
		if out.Claim == nil {
			continue
		}
		name := string(out.Claim.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	results := b.LastOutputs(ctx, names)
	statuses := make([]NameStatus, len(results))
	for i, res := range results {
		statuses[i] = NameStatus{Name: res.Name, Current: res.Ownership, Err: res.Err}
		if res.Err != nil {
			continue
		}
		for _, in := range s.Inputs {
			if in.Reference == res.Ownership.Reference {
				statuses[i].Spent = true
				break
			}
		}
	}
	return statuses
}
