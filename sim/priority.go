package sim

import "sort"

// OrderBacklog sorts requests by priority (escalated first), then by
// submission time (ascending), then by admission order for determinism.
func OrderBacklog(reqs []*CargoReq) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].prio != reqs[j].prio {
			return reqs[i].prio
		}
		if reqs[i].submittedAt != reqs[j].submittedAt {
			return reqs[i].submittedAt < reqs[j].submittedAt
		}
		return reqs[i].seq < reqs[j].seq
	})
}

// Conflicts reports whether two pending requests admitted at the same
// instant cannot share a batch: they start at the same station, or one
// delivers to the station the other is picked up from.
func Conflicts(a, b *CargoReq) bool {
	return a.Src == b.Src || a.Dst == b.Src || b.Dst == a.Src
}
