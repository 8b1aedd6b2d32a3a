package reconcile

// IntersectRosters returns the keys present on every roster.
// A member missing from any single device must be re-pushed, so the union is never used.
// With no rosters the result is empty.
func IntersectRosters(rosters ...Roster) Roster {
	if len(rosters) == 0 {
		return Roster{}
	}

	// Iterate the smallest roster to keep the intersection cheap.
	smallest := 0
	for i, r := range rosters {
		if len(r) < len(rosters[smallest]) {
			smallest = i
		}
	}

	out := make(Roster, len(rosters[smallest]))
	for key := range rosters[smallest] {
		present := true
		for i, r := range rosters {
			if i == smallest {
				continue
			}
			if !r.Has(key) {
				present = false
				break
			}
		}
		if present {
			out[key] = struct{}{}
		}
	}
	return out
}
