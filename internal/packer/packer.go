package packer

import (
	"fmt"
	"sort"
	"strings"
)

type ffdPacker struct{}

// New creates a Packer based on the First-Fit-Decreasing heuristic.
func New() Packer {
	return &ffdPacker{}
}

// Pack assigns every part expanded from demands to rods of stockLength.
// Parts are sorted by length descending (stable, so equal lengths keep their
// expansion order) and each part goes onto the first rod, in creation order,
// whose leftover still holds it. A part longer than the stock gets a rod of
// its own with a negative leftover; flagging such rods is the caller's job.
func (p *ffdPacker) Pack(stockLength float64, demands []Demand) []Rod {
	parts := expand(demands)

	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].Length > parts[j].Length
	})

	var rods []Rod
	for _, part := range parts {
		placed := false
		for i := range rods {
			if rods[i].Leftover >= part.Length {
				rods[i].Parts = append(rods[i].Parts, part)
				rods[i].UsedLength += part.Length
				rods[i].Leftover = stockLength - rods[i].UsedLength
				placed = true
				break
			}
		}

		if !placed {
			rods = append(rods, Rod{
				ID:         len(rods) + 1,
				UsedLength: part.Length,
				Leftover:   stockLength - part.Length,
				Parts:      []Part{part},
			})
		}
	}

	return rods
}

// expand flattens demands into one Part per required piece, tagged with the
// index of the demand it came from.
func expand(demands []Demand) []Part {
	total := 0
	for _, d := range demands {
		total += d.Quantity
	}

	parts := make([]Part, 0, total)
	for i, d := range demands {
		for n := 0; n < d.Quantity; n++ {
			parts = append(parts, Part{Length: d.Length, DemandIndex: i})
		}
	}
	return parts
}

// Groups counts the parts on the rod by (demand, length) pair in the order
// each pair was first placed.
func (r Rod) Groups() []PartGroup {
	type key struct {
		demand int
		length float64
	}

	positions := make(map[key]int, len(r.Parts))
	groups := make([]PartGroup, 0, len(r.Parts))
	for _, part := range r.Parts {
		k := key{demand: part.DemandIndex, length: part.Length}
		if pos, ok := positions[k]; ok {
			groups[pos].Count++
			continue
		}
		positions[k] = len(groups)
		groups = append(groups, PartGroup{
			DemandIndex: part.DemandIndex,
			Length:      part.Length,
			Count:       1,
		})
	}
	return groups
}

// PartsSummary renders the rod contents as comma-joined "count × length"
// groups, lengths printed as whole units.
func (r Rod) PartsSummary() string {
	groups := r.Groups()
	entries := make([]string, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, fmt.Sprintf("%d × %d", g.Count, int(g.Length)))
	}
	return strings.Join(entries, ", ")
}

// TotalUsed sums the used length across all rods.
func TotalUsed(rods []Rod) float64 {
	total := 0.0
	for _, rod := range rods {
		total += rod.UsedLength
	}
	return total
}

// TotalParts counts the parts placed across all rods.
func TotalParts(rods []Rod) int {
	total := 0
	for _, rod := range rods {
		total += len(rod.Parts)
	}
	return total
}
