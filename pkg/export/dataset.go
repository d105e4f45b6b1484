package export

import "time"

// Dataset is tabular report content keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// Numeric headers are right aligned in PDF output.
	Numeric map[string]bool
	// Highlight marks rows rendered with a warning fill in PDF output.
	Highlight func(row map[string]string) bool
}

// Detail is a labelled line printed above the table.
type Detail struct {
	Label string
	Value string
}

// Document is a titled report around a single dataset.
type Document struct {
	Title       string
	Details     []Detail
	Data        Dataset
	Notes       []string
	GeneratedAt time.Time
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		out[i] = row[header]
	}
	return out
}
