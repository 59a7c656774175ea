package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sarchlab/epinet/monitoring"
	"github.com/sarchlab/epinet/population"
	"github.com/sarchlab/epinet/seir"
	"github.com/sarchlab/epinet/sim/timing"
	"github.com/sarchlab/epinet/variate"
	"github.com/spf13/cobra"
)

// simOptions are the flags shared by the commands that run simulations.
type simOptions struct {
	params seir.Params

	width   int
	height  int
	density float64
	seed    uint64

	record      string
	monitorPort int
	openBrowser bool
	verbose     bool
	lenient     bool
}

func (o *simOptions) register(c *cobra.Command, env *envDefaults) {
	defaults := seir.DefaultParams()
	flags := c.Flags()

	flags.Float64Var(&o.params.Horizon, "horizon",
		env.Float("HORIZON", defaults.Horizon),
		"simulated time at which the run stops")
	flags.Float64Var(&o.params.Beta, "beta",
		env.Float("BETA", defaults.Beta), "transmission rate")
	flags.Float64Var(&o.params.Epsilon, "epsilon",
		env.Float("EPSILON", defaults.Epsilon), "incubation rate")
	flags.Float64Var(&o.params.Gamma, "gamma",
		env.Float("GAMMA", defaults.Gamma), "removal rate")
	flags.IntVar(&o.params.InitialInfected, "initial-infected",
		env.Int("INITIAL_INFECTED", defaults.InitialInfected),
		"number of nodes infected at time 0")
	flags.IntSliceVar(&o.params.SeedNodes, "seed-nodes", nil,
		"nodes infected at time 0, overrides --initial-infected")
	flags.Float64Var(&o.params.ContactRate, "contact-rate",
		env.Float("CONTACT_RATE", defaults.ContactRate),
		"rate of the exponential contact radius")
	flags.Float64Var(&o.params.MaxContactRadius, "max-contact-radius",
		env.Float("MAX_CONTACT_RADIUS", defaults.MaxContactRadius),
		"cap of the contact radius, 0 for none")
	flags.IntVar(&o.params.MaxContacts, "max-contacts",
		env.Int("MAX_CONTACTS", defaults.MaxContacts),
		"maximum number of contacts per infection")

	flags.IntVar(&o.width, "width", env.Int("WIDTH", 200),
		"width of the population grid")
	flags.IntVar(&o.height, "height", env.Int("HEIGHT", 200),
		"height of the population grid")
	flags.Float64Var(&o.density, "density", env.Float("DENSITY", 0.1),
		"probability that a grid cell holds a node")
	flags.Uint64Var(&o.seed, "seed", env.Uint("SEED", 1),
		"seed of the random generators")

	flags.StringVar(&o.record, "record", env.String("RECORD", ""),
		"record the run into <path>.sqlite3")
	flags.IntVar(&o.monitorPort, "monitor", env.Int("MONITOR", -1),
		"serve the monitoring API on the port, 0 for a random port")
	flags.BoolVar(&o.openBrowser, "open-browser",
		env.Bool("OPEN_BROWSER", false), "open the monitoring API in a browser")
	flags.BoolVarP(&o.verbose, "verbose", "v", env.Bool("VERBOSE", false),
		"log every event")
	flags.BoolVar(&o.lenient, "lenient", env.Bool("LENIENT", false),
		"skip removals of nodes that are not infected instead of failing")
}

// build creates the population and the simulation. The returned generator
// drives the runs.
func (o *simOptions) build(stderr io.Writer) (
	*seir.Simulation,
	*variate.Generator,
	error,
) {
	rng := variate.New(o.seed)

	grid, err := population.RandomGrid(o.width, o.height, o.density, rng.Fork())
	if err != nil {
		return nil, nil, err
	}

	opts := []seir.Option{seir.WithLogger(log.New(stderr, "", 0))}
	if o.lenient {
		opts = append(opts, seir.WithLenientRemove())
	}

	sim, err := seir.NewSimulation(grid.Nodes(), opts...)
	if err != nil {
		return nil, nil, err
	}

	if err := sim.BuildIndex(); err != nil {
		return nil, nil, err
	}

	if o.verbose {
		sim.AcceptHook(timing.NewEventLogger(log.New(stderr, "", 0)))
	}

	return sim, rng.Fork(), nil
}

// startMonitor serves the monitoring API when asked to. The returned bar
// hook is nil without a monitor.
func (o *simOptions) startMonitor(sim *seir.Simulation) (
	*monitoring.Monitor,
	*monitoring.ProgressHook,
	error,
) {
	if o.monitorPort < 0 {
		return nil, nil, nil
	}

	m := monitoring.NewMonitor().WithPortNumber(o.monitorPort)
	m.RegisterEngine(sim.Engine())
	m.RegisterStore(sim.Store())

	bar := m.CreateProgressBar("simulated time", 1000)
	hook := monitoring.NewProgressHook(bar, o.params.Horizon)
	sim.AcceptHook(hook)

	addr, err := m.StartServer()
	if err != nil {
		return nil, nil, err
	}

	if o.openBrowser {
		if err := monitoring.OpenBrowser(addr + "/api/progress"); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return m, hook, nil
}

func (o *simOptions) describe() map[string]string {
	p := o.params

	return map[string]string{
		"Seed":             fmt.Sprint(o.seed),
		"Grid":             fmt.Sprintf("%dx%d", o.width, o.height),
		"Density":          fmt.Sprint(o.density),
		"Horizon":          fmt.Sprint(p.Horizon),
		"Beta":             fmt.Sprint(p.Beta),
		"Epsilon":          fmt.Sprint(p.Epsilon),
		"Gamma":            fmt.Sprint(p.Gamma),
		"InitialInfected":  fmt.Sprint(p.InitialInfected),
		"SeedNodes":        fmt.Sprint(p.SeedNodes),
		"ContactRate":      fmt.Sprint(p.ContactRate),
		"MaxContactRadius": fmt.Sprint(p.MaxContactRadius),
		"MaxContacts":      fmt.Sprint(p.MaxContacts),
	}
}
