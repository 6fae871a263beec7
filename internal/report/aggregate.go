package report

import "strings"

// Filter names a supported record predicate for aggregation. The set is
// closed so the aggregation contract stays testable.
type Filter int

const (
	// FilterAll passes every record.
	FilterAll Filter = iota
	// FilterOffering passes records whose offering matches the configured
	// offering value, case-insensitively.
	FilterOffering
)

// RevenueIndex is the three-level aggregation geography → salesperson →
// quarter → summed revenue. Salespeople are kept in first-seen (load) order
// per geography so downstream stable sorts break ties by load order. The
// index is never mutated after Aggregate returns.
type RevenueIndex struct {
	geos map[string]*geoRevenue
}

type geoRevenue struct {
	order  []string
	people map[string]map[string]float64
}

// Aggregate reduces records into a fresh RevenueIndex, accumulating revenue
// on repeated (geo, salesperson, quarter) keys. Invocations with different
// filters share no state.
func Aggregate(cfg Config, records []SalesRecord, filter Filter) *RevenueIndex {
	idx := &RevenueIndex{geos: make(map[string]*geoRevenue, len(cfg.Geos))}
	for _, geo := range cfg.Geos {
		idx.geos[geo] = &geoRevenue{people: make(map[string]map[string]float64)}
	}
	want := strings.ToLower(cfg.FilterOfferingValue)
	for _, rec := range records {
		if filter == FilterOffering && strings.ToLower(rec.Offering) != want {
			continue
		}
		g, ok := idx.geos[rec.Geo]
		if !ok {
			continue
		}
		quarters, ok := g.people[rec.Salesperson]
		if !ok {
			quarters = make(map[string]float64)
			g.people[rec.Salesperson] = quarters
			g.order = append(g.order, rec.Salesperson)
		}
		quarters[rec.Quarter] += rec.Revenue
	}
	return idx
}

// Salespeople returns the salespeople recorded under geo, in load order.
func (idx *RevenueIndex) Salespeople(geo string) []string {
	g, ok := idx.geos[geo]
	if !ok {
		return nil
	}
	return g.order
}

// Revenue returns the accumulated revenue for a (geo, salesperson, quarter)
// key, or 0 when absent.
func (idx *RevenueIndex) Revenue(geo, salesperson, quarter string) float64 {
	g, ok := idx.geos[geo]
	if !ok {
		return 0
	}
	return g.people[salesperson][quarter]
}

// QuarterRevenue returns per-quarter revenue for a salesperson aligned to
// the given quarter order, with missing quarters as 0.
func (idx *RevenueIndex) QuarterRevenue(geo, salesperson string, quarters []string) []float64 {
	out := make([]float64, len(quarters))
	g, ok := idx.geos[geo]
	if !ok {
		return out
	}
	qm := g.people[salesperson]
	for i, q := range quarters {
		out[i] = qm[q]
	}
	return out
}
