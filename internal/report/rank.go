package report

import "sort"

// RankedEntry is one salesperson's ranked revenue line: per-quarter values
// aligned to the quarter order plus their sum.
type RankedEntry struct {
	Salesperson string
	PerQuarter  []float64
	Total       float64
}

// TopPerformers derives, per allowed geography, the top-N salespeople by
// total revenue across quarters. The sort is stable: ties keep load order.
// Geographies with no salespeople map to empty lists.
func TopPerformers(cfg Config, idx *RevenueIndex, quarters []string) map[string][]RankedEntry {
	out := make(map[string][]RankedEntry, len(cfg.Geos))
	for _, geo := range cfg.Geos {
		people := idx.Salespeople(geo)
		entries := make([]RankedEntry, 0, len(people))
		for _, name := range people {
			perQuarter := idx.QuarterRevenue(geo, name, quarters)
			total := 0.0
			for _, v := range perQuarter {
				total += v
			}
			entries = append(entries, RankedEntry{Salesperson: name, PerQuarter: perQuarter, Total: total})
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Total > entries[j].Total })
		if len(entries) > cfg.TopN {
			entries = entries[:cfg.TopN]
		}
		out[geo] = entries
	}
	return out
}
