package solver

import (
	"sort"
	"strconv"

	"github.com/maruel/natural"

	"github.com/guimove/rectfit/internal/model"
)

// Analyze computes utilization metrics for a packing of shapes into bin.
// labels maps group tags to display names; groups without a label are named
// after their tag.
func Analyze(bin model.Rectangle, shapes []model.Rectangle, packed model.Packing, labels map[int]string) model.PackingReport {
	report := model.PackingReport{
		BinArea:    bin.Area(),
		Score:      packed.Score,
		WastedArea: bin.Area() - packed.Score,
		Placed:     len(packed.Shapes),
	}

	if report.BinArea > 0 {
		report.Utilization = float64(packed.Score) / float64(report.BinArea)
	}

	var requestedArea int64
	groups := make(map[int]*model.GroupReport)
	for i := range shapes {
		s := &shapes[i]
		requestedArea += s.Area()
		g, ok := groups[s.Data]
		if !ok {
			g = &model.GroupReport{ID: s.Data, Label: groupLabel(s.Data, labels), Width: s.Width, Height: s.Height}
			groups[s.Data] = g
		}
		g.Requested++
	}
	if requestedArea > 0 {
		report.Coverage = float64(packed.Score) / float64(requestedArea)
	}

	for data, n := range packed.Counts() {
		if g, ok := groups[data]; ok {
			g.Placed += n
		}
	}

	report.Groups = make([]model.GroupReport, 0, len(groups))
	for _, g := range groups {
		report.Unplaced += g.Unplaced()
		report.Groups = append(report.Groups, *g)
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		a, b := report.Groups[i], report.Groups[j]
		if a.Label == b.Label {
			return a.ID < b.ID
		}
		return natural.Less(a.Label, b.Label)
	})

	return report
}

func groupLabel(data int, labels map[int]string) string {
	if l, ok := labels[data]; ok && l != "" {
		return l
	}
	return "group-" + strconv.Itoa(data)
}
