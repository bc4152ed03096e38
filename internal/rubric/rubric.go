// Package rubric reads the rubric.json file that every homework directory
// carries. Tables (A, B, ...) hold items (A1, A2, ...), each made of
// subitems worth a number of points. The special "late_penalty" key is not a
// table.
package rubric

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// LatePenaltyKey is the top-level key that carries the late penalty instead
// of a rubric table.
const LatePenaltyKey = "late_penalty"

// Rubric is the parsed form of rubric.json.
type Rubric struct {
	Tables      []Table
	LatePenalty *float64
}

// Table is a lettered group of rubric items.
type Table struct {
	Key   string
	Items []Item
}

// Item is a single gradable rubric entry.
type Item struct {
	Key        string
	Name       string
	DeductFrom *int
	Subitems   []Subitem
}

// Subitem is one line of an item: points and the description shown to the TA.
type Subitem struct {
	Points int
	Desc   string
}

// Deductive reports whether the item is graded by deducting from a fixed total.
func (i Item) Deductive() bool {
	return i.DeductFrom != nil
}

// Points returns the item's maximum score.
func (i Item) Points() int {
	if i.DeductFrom != nil {
		return *i.DeductFrom
	}
	total := 0
	for _, s := range i.Subitems {
		total += s.Points
	}
	return total
}

type rawItem struct {
	Name             string   `json:"name"`
	PointsPerSubitem []int    `json:"points_per_subitem"`
	DescPerSubitem   []string `json:"desc_per_subitem"`
	DeductingFrom    *int     `json:"deducting_from,omitempty"`
}

// Parse decodes rubric JSON. Tables and items are returned in natural key
// order (A2 before A10).
func Parse(data []byte) (*Rubric, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rubric: %w", err)
	}

	r := &Rubric{}
	for _, tableKey := range sortedKeys(raw) {
		if tableKey == LatePenaltyKey {
			var penalty float64
			if err := json.Unmarshal(raw[tableKey], &penalty); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", LatePenaltyKey, err)
			}
			r.LatePenalty = &penalty
			continue
		}

		var items map[string]rawItem
		if err := json.Unmarshal(raw[tableKey], &items); err != nil {
			return nil, fmt.Errorf("invalid rubric table %s: %w", tableKey, err)
		}

		table := Table{Key: tableKey}
		for _, itemKey := range sortedKeys(items) {
			ri := items[itemKey]
			if len(ri.PointsPerSubitem) != len(ri.DescPerSubitem) {
				return nil, fmt.Errorf("rubric item %s has %d point values but %d descriptions",
					itemKey, len(ri.PointsPerSubitem), len(ri.DescPerSubitem))
			}
			item := Item{
				Key:        itemKey,
				Name:       ri.Name,
				DeductFrom: ri.DeductingFrom,
			}
			for i, pts := range ri.PointsPerSubitem {
				item.Subitems = append(item.Subitems, Subitem{Points: pts, Desc: ri.DescPerSubitem[i]})
			}
			table.Items = append(table.Items, item)
		}
		r.Tables = append(r.Tables, table)
	}

	return r, nil
}

// ItemCount returns the number of items across all tables.
func (r *Rubric) ItemCount() int {
	n := 0
	for _, t := range r.Tables {
		n += len(t.Items)
	}
	return n
}

// TotalPoints returns the maximum achievable score.
func (r *Rubric) TotalPoints() int {
	total := 0
	for _, t := range r.Tables {
		for _, item := range t.Items {
			total += item.Points()
		}
	}
	return total
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return naturalLess(keys[i], keys[j])
	})
	return keys
}

// naturalLess orders keys by their letter prefix, then by their numeric
// suffix, so that A2 sorts before A10.
func naturalLess(a, b string) bool {
	ap, an := splitKey(a)
	bp, bn := splitKey(b)
	if ap != bp {
		return ap < bp
	}
	if an != bn {
		return an < bn
	}
	return a < b
}

func splitKey(key string) (string, int) {
	i := strings.IndexFunc(key, unicode.IsDigit)
	if i < 0 {
		return key, -1
	}
	n, err := strconv.Atoi(key[i:])
	if err != nil {
		return key, -1
	}
	return key[:i], n
}
