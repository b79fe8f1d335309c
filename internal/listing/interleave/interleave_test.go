package interleave

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursenav/listings-be/internal/listing/model"
)

func job(id int64, employerID int64) model.Job {
	return model.Job{ID: id, EmployerID: employerID, Title: fmt.Sprintf("job-%d", id)}
}

func employerRun(start int64, employerID int64, n int) []model.Job {
	jobs := make([]model.Job, 0, n)
	for i := 0; i < n; i++ {
		jobs = append(jobs, job(start+int64(i), employerID))
	}
	return jobs
}

func TestByEmployer_RoundRobin(t *testing.T) {
	// Ingestion order: a run of A, then B, then C.
	var window []model.Job
	window = append(window, employerRun(1, 100, 3)...)
	window = append(window, employerRun(10, 200, 3)...)
	window = append(window, employerRun(20, 300, 3)...)

	out := ByEmployer(window)

	require.Len(t, out, 9)
	gotEmployers := make([]int64, len(out))
	for i, j := range out {
		gotEmployers[i] = j.EmployerID
	}
	assert.Equal(t, []int64{100, 200, 300, 100, 200, 300, 100, 200, 300}, gotEmployers)
}

func TestByEmployer_SkewedSupply(t *testing.T) {
	// One employer with 10 postings, another with 2: the small employer must
	// surface near the top instead of being buried under the big one's run.
	var window []model.Job
	window = append(window, employerRun(1, 100, 10)...)
	window = append(window, employerRun(50, 200, 2)...)

	out := ByEmployer(window)
	require.Len(t, out, 12)

	distinct := make(map[int64]bool)
	for _, j := range out[:4] {
		distinct[j.EmployerID] = true
	}
	assert.GreaterOrEqual(t, len(distinct), 2, "first 4 slots should span both employers")

	// Adjacency: two consecutive same-employer jobs only once the other
	// employer's supply is exhausted.
	exhausted := false
	for i := 1; i < len(out); i++ {
		if out[i].EmployerID == out[i-1].EmployerID && !exhausted {
			remaining := 0
			for _, j := range out[i:] {
				if j.EmployerID != out[i].EmployerID {
					remaining++
				}
			}
			assert.Zero(t, remaining, "same-employer adjacency at %d with other supply left", i)
			exhausted = true
		}
	}
}

func TestByEmployer_PreservesRecencyWithinEmployer(t *testing.T) {
	var window []model.Job
	window = append(window, employerRun(1, 100, 4)...)
	window = append(window, employerRun(10, 200, 4)...)

	out := ByEmployer(window)

	var lastA, lastB int64
	for _, j := range out {
		switch j.EmployerID {
		case 100:
			assert.Greater(t, j.ID, lastA, "employer 100 order broken")
			lastA = j.ID
		case 200:
			assert.Greater(t, j.ID, lastB, "employer 200 order broken")
			lastB = j.ID
		}
	}
}

func TestByEmployer_NoJobsDroppedOrDuplicated(t *testing.T) {
	var window []model.Job
	window = append(window, employerRun(1, 100, 5)...)
	window = append(window, employerRun(20, 200, 1)...)
	window = append(window, employerRun(30, 300, 3)...)

	out := ByEmployer(window)

	require.Len(t, out, len(window))
	seen := make(map[int64]bool, len(out))
	for _, j := range out {
		assert.False(t, seen[j.ID], "job %d duplicated", j.ID)
		seen[j.ID] = true
	}
}

func TestByEmployer_Degenerate(t *testing.T) {
	assert.Empty(t, ByEmployer(nil))

	single := []model.Job{job(1, 100)}
	assert.Equal(t, single, ByEmployer(single))

	// All one employer: order unchanged.
	run := employerRun(1, 100, 5)
	assert.Equal(t, run, ByEmployer(run))
}
