package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		state    JobState
		terminal bool
	}{
		{JobStateQueued, false},
		{JobStateRunning, false},
		{JobStateSucceeded, true},
		{JobStateFailed, true},
		{JobStateCanceled, true},
	}

	for _, tc := range cases {
		job := &StockScanJob{State: tc.state}
		assert.Equal(t, tc.terminal, job.IsTerminal(), "state %s", tc.state)
	}
}
