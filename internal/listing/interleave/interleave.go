// Package interleave reorders a recency-sorted job window so no single
// employer dominates a listing page. Ingestion writes jobs in
// employer-clustered batches, which shows up as long same-employer runs when
// sorting purely by recency.
package interleave

import "github.com/nursenav/listings-be/internal/listing/model"

// ByEmployer round-robins the window across employers: jobs are partitioned
// into per-employer sublists preserving recency order, then drained one item
// per employer in first-appearance order. Between two consecutive items from
// the same employer at least one other employer appears, unless that
// employer is the only one with supply left.
//
// Fairness holds only within the fetched window for this request; successive
// pages re-interleave independently, trading global consistency for
// statelessness.
func ByEmployer(jobs []model.Job) []model.Job {
	if len(jobs) < 2 {
		return jobs
	}

	order := make([]int64, 0)
	byEmployer := make(map[int64][]model.Job)
	for _, job := range jobs {
		if _, seen := byEmployer[job.EmployerID]; !seen {
			order = append(order, job.EmployerID)
		}
		byEmployer[job.EmployerID] = append(byEmployer[job.EmployerID], job)
	}

	out := make([]model.Job, 0, len(jobs))
	for len(out) < len(jobs) {
		for _, id := range order {
			queue := byEmployer[id]
			if len(queue) == 0 {
				continue
			}
			out = append(out, queue[0])
			byEmployer[id] = queue[1:]
		}
	}
	return out
}
