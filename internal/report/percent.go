package report

import "sort"

// GroupTotals carries per-quarter and grand totals for a bucket-wide view.
type GroupTotals struct {
	PerQuarter []float64
	Grand      float64
}

// BucketShare is the percent analysis for one geography bucket: totals over
// every salesperson, totals over the pooled top-N subset, and the top-N
// revenue share per quarter and overall.
type BucketShare struct {
	Bucket          string
	Total           GroupTotals
	TopN            GroupTotals
	PercentQuarters []float64
	PercentGrand    float64
}

// AnalyzeShares computes, for each configured bucket, the bucket-wide totals
// and the pooled top-N share. Pooling is cross-geography: every salesperson
// in the bucket competes in one flat ranking, so a geography whose
// performers all rank below the pooled cutoff contributes nothing to the
// top-N subset. Zero denominators yield a 0.0 share rather than an error.
func AnalyzeShares(cfg Config, idx *RevenueIndex, quarters []string) []BucketShare {
	out := make([]BucketShare, 0, len(cfg.Buckets))
	for _, bucket := range cfg.Buckets {
		total := groupTotals(idx, quarters, bucket.Geos)
		top := groupTopTotals(cfg.TopN, idx, quarters, bucket.Geos)

		pctQuarters := make([]float64, len(quarters))
		for i := range quarters {
			pctQuarters[i] = safeShare(top.PerQuarter[i], total.PerQuarter[i])
		}
		out = append(out, BucketShare{
			Bucket:          bucket.Name,
			Total:           total,
			TopN:            top,
			PercentQuarters: pctQuarters,
			PercentGrand:    safeShare(top.Grand, total.Grand),
		})
	}
	return out
}

// groupTotals sums every salesperson's revenue across every geography in the
// bucket, per quarter and overall, with no truncation.
func groupTotals(idx *RevenueIndex, quarters []string, geos []string) GroupTotals {
	totals := GroupTotals{PerQuarter: make([]float64, len(quarters))}
	for _, geo := range geos {
		for _, name := range idx.Salespeople(geo) {
			for i, q := range quarters {
				totals.PerQuarter[i] += idx.Revenue(geo, name, q)
			}
		}
	}
	for _, v := range totals.PerQuarter {
		totals.Grand += v
	}
	return totals
}

// groupTopTotals pools every salesperson across the bucket's geographies
// into one flat list, ranks by combined total (stable, load order on ties),
// and sums the per-quarter and total revenue of the first topN entries.
func groupTopTotals(topN int, idx *RevenueIndex, quarters []string, geos []string) GroupTotals {
	type pooled struct {
		perQuarter []float64
		total      float64
	}
	var entries []pooled
	for _, geo := range geos {
		for _, name := range idx.Salespeople(geo) {
			perQuarter := idx.QuarterRevenue(geo, name, quarters)
			total := 0.0
			for _, v := range perQuarter {
				total += v
			}
			entries = append(entries, pooled{perQuarter: perQuarter, total: total})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].total > entries[j].total })
	if len(entries) > topN {
		entries = entries[:topN]
	}

	totals := GroupTotals{PerQuarter: make([]float64, len(quarters))}
	for _, e := range entries {
		for i, v := range e.perQuarter {
			totals.PerQuarter[i] += v
		}
		totals.Grand += e.total
	}
	return totals
}

// safeShare returns top/total, defined as 0.0 when the denominator is zero.
func safeShare(top, total float64) float64 {
	if total == 0 {
		return 0.0
	}
	return top / total
}
