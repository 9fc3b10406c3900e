package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Package logging goes nowhere unless the test binary runs verbosely.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if arg == "-test.v" || arg == "-test.v=true" {
			return
		}
	}
	logrus.SetOutput(io.Discard)
}
