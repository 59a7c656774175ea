package datarecording

import (
	"os"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is a property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records the properties of one program execution, such as the
// command line, the start and end times and the simulation parameters, into
// the exec_info table.
type ExecRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []ExecInfo
}

// ExecInfoTable is the name of the table written by ExecRecorder.
const ExecInfoTable = "exec_info"

// NewExecRecorder creates a new ExecRecorder writing into the given recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		tableName: ExecInfoTable,
		recorder:  recorder,
	}

	recorder.CreateTable(e.tableName, ExecInfo{})

	return e
}

// Start records the start time, the command and the working directory.
func (e *ExecRecorder) Start() {
	e.Set("Start Time", time.Now().Format(timeLayout))
	e.Set("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Set("Working Directory", cwd)
}

// Set adds a property to the execution record.
func (e *ExecRecorder) Set(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes the buffered properties along with the end time.
func (e *ExecRecorder) End() {
	e.Set("End Time", time.Now().Format(timeLayout))

	for _, entry := range e.entries {
		e.recorder.InsertData(e.tableName, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
