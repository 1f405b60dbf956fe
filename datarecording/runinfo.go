package datarecording

import (
	"os"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05.000000000"

type runInfo struct {
	Property string
	Value    string
}

// RunRecorder records how a run was started and when it ended in the
// run_info table.
type RunRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []runInfo
}

// NewRunRecorder creates the run_info table.
func NewRunRecorder(recorder DataRecorder) *RunRecorder {
	r := &RunRecorder{
		tableName: "run_info",
		recorder:  recorder,
	}

	recorder.CreateTable(r.tableName, runInfo{})

	return r
}

// Start records the start time, the command line, and the working
// directory.
func (r *RunRecorder) Start() {
	r.Set("Start Time", time.Now().Format(timeLayout))
	r.Set("Command", strings.Join(os.Args, " "))

	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	r.Set("Working Directory", wd)
}

// Set records a property of the run, such as the seed or the verdict.
func (r *RunRecorder) Set(property, value string) {
	r.entries = append(r.entries, runInfo{property, value})
}

// End writes the properties along with the end time.
func (r *RunRecorder) End() {
	r.Set("End Time", time.Now().Format(timeLayout))

	for _, entry := range r.entries {
		r.recorder.InsertData(r.tableName, entry)
	}

	r.entries = nil

	r.recorder.Flush()
}
