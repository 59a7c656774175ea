package seir

import (
	"context"
	"database/sql"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/epinet/datarecording"
	"github.com/sarchlab/epinet/variate"
)

var _ = Describe("Recorder", func() {
	var (
		db       *sql.DB
		recorder datarecording.DataRecorder
		sim      *Simulation
	)

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3",
			filepath.Join(GinkgoT().TempDir(), "record.sqlite3"))
		Expect(err).NotTo(HaveOccurred())
		recorder = datarecording.NewWithDB(db)

		sim, err = NewSimulation(randomNodes(100, 50, 4))
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.BuildIndex()).To(Succeed())
	})

	AfterEach(func() {
		Expect(recorder.Close()).To(Succeed())
	})

	count := func(query string, args ...any) int {
		var n int
		Expect(db.QueryRow(query, args...).Scan(&n)).To(Succeed())
		return n
	}

	It("should record events and results per run", func() {
		hook := NewRecorderHook(recorder, sim.Store())
		sim.AcceptHook(hook)

		Expect(recorder.ListTables()).To(Equal(
			[]string{EventTable, FinalStatusTable, TallyTable}))

		var dispatched uint64
		for _, runID := range []string{"a", "b"} {
			hook.StartRun(runID)

			result, err := sim.Run(fastParams(), variate.New(5))
			Expect(err).NotTo(HaveOccurred())
			hook.RecordResult(sim.Store(), result)

			dispatched = result.Dispatched
		}

		Expect(count("SELECT COUNT(*) FROM event WHERE RunID = ?", "b")).
			To(Equal(int(dispatched)))
		Expect(count("SELECT COUNT(*) FROM final_status WHERE RunID = ?", "a")).
			To(Equal(100))
		Expect(count("SELECT COUNT(*) FROM tally")).To(Equal(2))
		Expect(count("SELECT COUNT(*) FROM event "+
			"WHERE Applied = 1 AND StatusBefore = StatusAfter")).To(Equal(0))

		var susceptible int
		Expect(db.QueryRow("SELECT Susceptible FROM tally WHERE RunID = ?", "b").
			Scan(&susceptible)).To(Succeed())
		Expect(susceptible).To(Equal(sim.Store().Tally().Susceptible))
	})

	It("should read recorded runs back", func() {
		hook := NewRecorderHook(recorder, sim.Store())
		sim.AcceptHook(hook)

		results := map[string]*Result{}
		for i, runID := range []string{"first", "second"} {
			hook.StartRun(runID)

			result, err := sim.Run(fastParams(), variate.New(uint64(i+3)))
			Expect(err).NotTo(HaveOccurred())
			hook.RecordResult(sim.Store(), result)

			results[runID] = result
		}

		reader := datarecording.NewReaderWithDB(db)
		MapRecordTables(reader)
		ctx := context.Background()

		runs, err := ListRuns(ctx, reader)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))
		Expect(runs[0].RunID).To(Equal("first"))
		Expect(runs[1].RunID).To(Equal("second"))

		record, err := LoadRun(ctx, reader, "first")
		Expect(err).NotTo(HaveOccurred())

		want := results["first"]
		Expect(record.Tally.EndTime).To(Equal(want.EndTime))
		Expect(record.Tally.Dispatched).To(Equal(want.Dispatched))
		Expect(record.Final).To(HaveLen(100))

		statuses, err := record.Statuses()
		Expect(err).NotTo(HaveOccurred())
		Expect(statuses).To(Equal(want.Statuses))

		tally, err := record.FinalTally()
		Expect(err).NotTo(HaveOccurred())
		Expect(tally).To(Equal(want.Tally))

		applied := 0
		for _, n := range record.Events {
			applied += n
		}
		Expect(applied).To(Equal(count(
			"SELECT COUNT(*) FROM event WHERE RunID = ? AND Applied = 1", "first")))
		Expect(record.Events[Remove]).To(BeNumerically("<=", want.Tally.Removed))

		_, err = LoadRun(ctx, reader, "third")
		Expect(err).To(MatchError(ErrRunNotFound))
	})

	It("should list no runs in a recording without a tally", func() {
		reader := datarecording.NewReaderWithDB(db)
		MapRecordTables(reader)

		runs, err := ListRuns(context.Background(), reader)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})
})
