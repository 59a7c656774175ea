package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/epinet/datarecording"
	"github.com/sarchlab/epinet/seir"
	"github.com/spf13/cobra"
)

// trialEntry is one row of the trial table. Seeds use the full uint64 range,
// which SQLite integers cannot hold.
type trialEntry struct {
	Trial       string
	Seed        string
	EndTime     float64
	Susceptible int
	Exposed     int
	Infected    int
	Removed     int
	Contacts    uint64
}

const trialTable = "trial"

func newTrialsCommand(env *envDefaults) *cobra.Command {
	o := &simOptions{}
	var n int

	c := &cobra.Command{
		Use:   "trials",
		Short: "Run independent trials on one population and summarize them.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runTrials(o, n, c.OutOrStdout(), c.ErrOrStderr())
		},
	}

	o.register(c, env)
	c.Flags().IntVarP(&n, "trials", "n", env.Int("TRIALS", 10),
		"number of trials")

	return c
}

func runTrials(o *simOptions, n int, stdout, stderr io.Writer) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d trials", seir.ErrInvalidParameter, n)
	}

	sim, rng, err := o.build(stderr)
	if err != nil {
		return err
	}

	m, _, err := o.startMonitor(sim)
	if err != nil {
		return err
	}

	if m != nil {
		defer m.StopServer()
	}

	results, err := seir.RunTrials(sim, o.params, rng, n)

	fmt.Fprintf(stdout, "%-6s %-20s %10s %6s %6s %6s %6s\n",
		"trial", "seed", "end", "S", "E", "I", "R")
	for _, r := range results {
		fmt.Fprintf(stdout, "%-6s %-20d %10.4f %6d %6d %6d %6d\n",
			r.ID, r.Seed, r.EndTime,
			r.Tally.Susceptible, r.Tally.Exposed, r.Tally.Infected, r.Tally.Removed)
	}

	summary := seir.Summarize(results)
	fmt.Fprintf(stdout, "ever infected over %d trials: mean %.2f, min %d, max %d\n",
		summary.Trials, summary.MeanEverInfected,
		summary.MinEverInfected, summary.MaxEverInfected)

	if o.record != "" {
		recordTrials(o, results, err)
	}

	return err
}

func recordTrials(o *simOptions, results []seir.TrialResult, runErr error) {
	recorder := datarecording.New(o.record)
	defer recorder.Close()

	exec := startExecRecord(recorder, o)
	exec.Set("Trials", fmt.Sprint(len(results)))

	if runErr != nil {
		exec.Set("Error", runErr.Error())
	}

	recorder.CreateTable(trialTable, trialEntry{})
	for _, r := range results {
		recorder.InsertData(trialTable, trialEntry{
			Trial:       r.ID,
			Seed:        fmt.Sprint(r.Seed),
			EndTime:     r.EndTime,
			Susceptible: r.Tally.Susceptible,
			Exposed:     r.Tally.Exposed,
			Infected:    r.Tally.Infected,
			Removed:     r.Tally.Removed,
			Contacts:    r.Stats.Contacts,
		})
	}

	exec.End()
}
