package seir

import (
	"github.com/sarchlab/epinet/sim/id"
	"github.com/sarchlab/epinet/variate"
)

// TrialResult is the outcome of one Monte Carlo trial.
type TrialResult struct {
	ID      string
	Seed    uint64
	Tally   Tally
	EndTime float64
	Stats   Stats
}

// TrialSummary aggregates the number of nodes ever infected over trials.
type TrialSummary struct {
	Trials           int
	MeanEverInfected float64
	MinEverInfected  int
	MaxEverInfected  int
}

// RunTrials runs n independent trials one after another on the same
// simulation. Trial i uses the i-th generator forked from rng, so the whole
// batch is reproducible from the seed of rng. The first failing trial stops
// the batch; the results of the trials before it are returned with the error.
func RunTrials(
	sim *Simulation,
	params Params,
	rng *variate.Generator,
	n int,
) ([]TrialResult, error) {
	ids := id.NewIDGenerator()
	results := make([]TrialResult, 0, n)

	for i := 0; i < n; i++ {
		trialRng := rng.Fork()

		result, err := sim.Run(params, trialRng)
		if err != nil {
			return results, err
		}

		results = append(results, TrialResult{
			ID:      ids.Generate(),
			Seed:    trialRng.Seed(),
			Tally:   result.Tally,
			EndTime: result.EndTime,
			Stats:   result.Stats,
		})
	}

	return results, nil
}

// Summarize aggregates trial results.
func Summarize(results []TrialResult) TrialSummary {
	summary := TrialSummary{Trials: len(results)}
	if len(results) == 0 {
		return summary
	}

	total := 0
	summary.MinEverInfected = results[0].Tally.EverInfected()

	for _, r := range results {
		ever := r.Tally.EverInfected()
		total += ever
		summary.MinEverInfected = min(summary.MinEverInfected, ever)
		summary.MaxEverInfected = max(summary.MaxEverInfected, ever)
	}

	summary.MeanEverInfected = float64(total) / float64(len(results))

	return summary
}
