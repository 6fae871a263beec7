package report

// Config carries the fixed vocabulary of a report run: the recognized
// geographies, the percent-analysis buckets, the owned sheet names, and the
// offering used for the filtered views. It is an immutable value passed into
// each component so tests can substitute alternate geography sets without
// shared state.
type Config struct {
	// Geos is the allowed geography set; rows outside it are dropped at load.
	Geos []string

	// RequiredColumns must all be present in a table header for the table to
	// be selected during discovery.
	RequiredColumns []string

	// Column names within the selected table.
	GeoColumn         string
	SalespersonColumn string
	QuarterColumn     string
	RevenueColumn     string
	OfferingColumn    string

	// Buckets partitions Geos for percent analysis, in output order.
	Buckets []Bucket

	// FilterOfferingValue selects rows for the offering-filtered views
	// (case-insensitive match).
	FilterOfferingValue string

	// Owned sheet names in the persisted artifact.
	SummarySheet         string
	AllSheet             string
	FilteredSheet        string
	PercentSheet         string
	PercentFilteredSheet string

	// TopN bounds every ranking.
	TopN int
}

// Bucket names a group of geographies for percent analysis.
type Bucket struct {
	Name string
	Geos []string
}

// Default returns the production configuration for the sales report pipeline.
func Default() Config {
	return Config{
		Geos:            []string{"AP", "BRAZIL", "EMEA", "LAS", "MX", "NA"},
		RequiredColumns: []string{"Geo", "FTF_Name", "Quarter", "Revenue ($M)", "oh_l3_sub_offering"},

		GeoColumn:         "Geo",
		SalespersonColumn: "FTF_Name",
		QuarterColumn:     "Quarter",
		RevenueColumn:     "Revenue ($M)",
		OfferingColumn:    "oh_l3_sub_offering",

		Buckets: []Bucket{
			{Name: "AP", Geos: []string{"AP"}},
			{Name: "EMEA", Geos: []string{"EMEA"}},
			{Name: "NA", Geos: []string{"NA"}},
			{Name: "OTHERS", Geos: []string{"BRAZIL", "LAS", "MX"}},
		},

		FilterOfferingValue: "ThinkShield Security",

		SummarySheet:         "Summary",
		AllSheet:             "Top 10 Sales by Geo",
		FilteredSheet:        "Top 10 ThinkShield by Geo",
		PercentSheet:         "Top 10% All",
		PercentFilteredSheet: "Top 10% Security",

		TopN: 10,
	}
}

// OwnedSheets lists every sheet the pipeline replaces on each run, in the
// order they appear in a fresh artifact (summary first).
func (c Config) OwnedSheets() []string {
	return []string{c.SummarySheet, c.AllSheet, c.FilteredSheet, c.PercentSheet, c.PercentFilteredSheet}
}

// AllowsGeo reports whether geo belongs to the configured geography set.
func (c Config) AllowsGeo(geo string) bool {
	for _, g := range c.Geos {
		if g == geo {
			return true
		}
	}
	return false
}
