package solver

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/guimove/rectfit/internal/model"
)

// fill commits shapes in order until one no longer fits and returns the
// placed boxes.
func fill(s Strategy, bin model.Rectangle, shapes []model.Rectangle, eval model.Evaluator) []model.Box {
	s.Reset(bin)
	var boxes []model.Box
	for _, r := range shapes {
		p, ok := s.Query(r, eval)
		if !ok {
			continue
		}
		boxes = append(boxes, s.Commit(r, p))
	}
	return boxes
}

func TestMaxRect_FreeListInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	bin := model.NewRectangle(100, 80, 0)
	m := NewMaxRect(true)
	m.Reset(bin)

	var placed []model.Box
	for i := 0; i < 200; i++ {
		r := model.NewRectangle(2+rng.Intn(20), 2+rng.Intn(20), i)
		p, ok := m.Query(r, model.AreaEvaluator)
		if !ok {
			continue
		}
		placed = append(placed, m.Commit(r, p).Bounds())

		for a := range m.free {
			fa := m.free[a]
			if fa.Width <= 0 || fa.Height <= 0 {
				t.Fatalf("degenerate free rect %+v", fa)
			}
			for b := range m.free {
				if a != b && fa.contains(m.free[b]) {
					t.Fatalf("free rect %+v contains %+v", fa, m.free[b])
				}
			}
			for _, pb := range placed {
				if fa.intersects(pb.X, pb.Y, pb.Width, pb.Height) {
					t.Fatalf("free rect %+v overlaps placement %v", fa, pb)
				}
			}
		}
	}
	if len(placed) == 0 {
		t.Fatal("nothing placed")
	}
}

func TestMaxRect_QueryPrefersTightestRegion(t *testing.T) {
	m := NewMaxRect(false)
	m.Reset(model.NewRectangle(10, 10, 0))
	// Leaves free regions 10x6 below and 6x10 to the right.
	r := model.NewRectangle(4, 4, 1)
	p, _ := m.Query(r, model.AreaEvaluator)
	m.Commit(r, p)

	p, ok := m.Query(model.NewRectangle(6, 6, 2), model.AreaEvaluator)
	if !ok {
		t.Fatal("6x6 did not fit")
	}
	// Both regions have area 60; the tie goes to lower Y.
	if p.X != 4 || p.Y != 0 {
		t.Errorf("placement at (%d, %d), want (4, 0)", p.X, p.Y)
	}
}

func TestSkyline_ProfileInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	bin := model.NewRectangle(90, 200, 0)
	s := NewSkyline(true)
	s.Reset(bin)

	for i := 0; i < 100; i++ {
		r := model.NewRectangle(1+rng.Intn(25), 1+rng.Intn(25), i)
		p, ok := s.Query(r, model.PerimeterEvaluator)
		if !ok {
			continue
		}
		s.Commit(r, p)

		x := 0
		for j, sg := range s.segments {
			if sg.X != x || sg.Width <= 0 {
				t.Fatalf("segment %d = %+v, want start %d and positive width", j, sg, x)
			}
			if j > 0 && s.segments[j-1].Y == sg.Y {
				t.Fatalf("segments %d and %d share height %d", j-1, j, sg.Y)
			}
			x += sg.Width
		}
		if x != bin.Width {
			t.Fatalf("segments cover %d, want %d", x, bin.Width)
		}
	}
}

func TestSkyline_FillsLowestFirst(t *testing.T) {
	s := NewSkyline(false)
	boxes := fill(s, model.NewRectangle(10, 10, 0), []model.Rectangle{
		model.NewRectangle(6, 4, 1),
		model.NewRectangle(4, 2, 2),
		model.NewRectangle(4, 2, 3),
	}, model.AreaEvaluator)

	want := []model.Box{
		{X: 0, Y: 0, Width: 6, Height: 4, Data: 1},
		{X: 6, Y: 0, Width: 4, Height: 2, Data: 2},
		{X: 6, Y: 2, Width: 4, Height: 2, Data: 3},
	}
	if diff := cmp.Diff(want, boxes); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
	wantProfile := []model.Box{{X: 0, Y: 4, Width: 10}}
	if diff := cmp.Diff(wantProfile, s.Profile()); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestShelf_OpensAndFillsShelves(t *testing.T) {
	s := NewShelf(true)
	bin := model.NewRectangle(10, 10, 0)
	boxes := fill(s, bin, []model.Rectangle{
		model.NewRectangle(3, 6, 1), // opens flat: 6x3
		model.NewRectangle(4, 3, 2), // same shelf at x=6
		model.NewRectangle(5, 5, 3), // new shelf at y=3
	}, model.AreaEvaluator)

	if len(boxes) != 3 {
		t.Fatalf("placed %d boxes, want 3", len(boxes))
	}
	got := []model.Box{boxes[0].Bounds(), boxes[1].Bounds(), boxes[2].Bounds()}
	want := []model.Box{
		{X: 0, Y: 0, Width: 6, Height: 3, Data: 1},
		{X: 6, Y: 0, Width: 4, Height: 3, Data: 2},
		{X: 0, Y: 3, Width: 5, Height: 5, Data: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("footprints mismatch (-want +got):\n%s", diff)
	}
	if boxes[0].Angle != 90 {
		t.Errorf("first box angle = %v, want 90", boxes[0].Angle)
	}

	wantShelves := []model.Box{{Y: 0, Width: 10, Height: 3}, {Y: 3, Width: 10, Height: 5}}
	if diff := cmp.Diff(wantShelves, s.Shelves()); diff != "" {
		t.Errorf("shelves mismatch (-want +got):\n%s", diff)
	}
}

func TestStrategies_QueryDoesNotMutate(t *testing.T) {
	bin := model.NewRectangle(20, 20, 0)
	for _, name := range strategyNames {
		t.Run(name, func(t *testing.T) {
			s := New(name, true)
			s.Reset(bin)
			r := model.NewRectangle(7, 3, 1)
			first, ok := s.Query(r, model.AreaEvaluator)
			if !ok {
				t.Fatal("no placement")
			}
			second, _ := s.Query(r, model.AreaEvaluator)
			if first != second {
				t.Errorf("repeated Query differs: %+v vs %+v", first, second)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	bin := model.NewRectangle(10, 10, 0)
	shapes := append(makeShapes(5, 5, 3, 1), makeShapes(2, 2, 2, 2)...)
	shapes = append(shapes, makeShapes(1, 1, 1, 3)...)
	packed := model.NewPacking([]model.Box{
		model.NewBox(0, 0, shapes[0], 0),
		model.NewBox(5, 0, shapes[1], 0),
		model.NewBox(0, 5, shapes[3], 0),
	})
	labels := map[int]string{1: "part-10", 2: "part-2"}

	rep := Analyze(bin, shapes, packed, labels)

	if rep.BinArea != 100 || rep.Score != 54 || rep.WastedArea != 46 {
		t.Errorf("areas = %d/%d/%d, want 100/54/46", rep.BinArea, rep.Score, rep.WastedArea)
	}
	if rep.Placed != 3 || rep.Unplaced != 3 {
		t.Errorf("placed/unplaced = %d/%d, want 3/3", rep.Placed, rep.Unplaced)
	}
	if rep.Utilization != 0.54 {
		t.Errorf("utilization = %v, want 0.54", rep.Utilization)
	}
	if want := 54.0 / 84.0; rep.Coverage != want {
		t.Errorf("coverage = %v, want %v", rep.Coverage, want)
	}

	want := []model.GroupReport{
		{ID: 3, Label: "group-3", Width: 1, Height: 1, Requested: 1, Placed: 0},
		{ID: 2, Label: "part-2", Width: 2, Height: 2, Requested: 2, Placed: 1},
		{ID: 1, Label: "part-10", Width: 5, Height: 5, Requested: 3, Placed: 2},
	}
	if diff := cmp.Diff(want, rep.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}
