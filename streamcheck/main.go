// Command streamcheck runs the stream conformance suites against the
// reference device.
package main

import "github.com/sarchlab/streamcheck/streamcheck/cmd"

func main() {
	cmd.Execute()
}
