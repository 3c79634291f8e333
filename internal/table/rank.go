package table

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/cyra/weblog/internal/parser"
)

// Count is one distinct column value and how often it occurs.
type Count struct {
	Value string `json:"value"`
	N     int    `json:"count"`
}

// Ranking holds the value counts of one column.
type Ranking struct {
	Column string  `json:"column"`
	Counts []Count `json:"counts"`
}

// Rank counts the distinct values of column, most frequent first. Ties keep the
// order in which values first appear.
func Rank(records []parser.Record, column string) ([]Count, error) {
	if !isColumn(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	index := make(map[string]int)
	var counts []Count
	for i := range records {
		v, _ := records[i].Field(column)
		if j, ok := index[v]; ok {
			counts[j].N++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Value: v, N: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].N > counts[j].N
	})
	return counts, nil
}

// Top returns at most n counts; n <= 0 keeps all.
func Top(counts []Count, n int) []Count {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

// WriteRanks renders a ranking as an aligned two-column table.
func WriteRanks(w io.Writer, r Ranking) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tcount\n", r.Column)
	for _, c := range r.Counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Value, c.N)
	}
	return tw.Flush()
}
