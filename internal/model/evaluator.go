package model

// Evaluator scores a rectangle. Strategies use it to rank free regions and to
// break ties between otherwise equivalent placements.
type Evaluator func(Rectangle) uint64

// Evaluator names accepted in input documents.
const (
	EvaluatorArea      = "Area"
	EvaluatorPerimeter = "Perimeter"
	EvaluatorWidth     = "Width"
	EvaluatorHeight    = "Height"
)

func AreaEvaluator(r Rectangle) uint64      { return uint64(r.Area()) }
func PerimeterEvaluator(r Rectangle) uint64 { return uint64(r.Perimeter()) }
func WidthEvaluator(r Rectangle) uint64     { return uint64(r.Width) }
func HeightEvaluator(r Rectangle) uint64    { return uint64(r.Height) }

var evaluators = map[string]Evaluator{
	EvaluatorArea:      AreaEvaluator,
	EvaluatorPerimeter: PerimeterEvaluator,
	EvaluatorWidth:     WidthEvaluator,
	EvaluatorHeight:    HeightEvaluator,
}

// EvaluatorByName looks up a standard evaluator. Unknown names return the
// area evaluator and false.
func EvaluatorByName(name string) (Evaluator, bool) {
	if e, ok := evaluators[name]; ok {
		return e, true
	}
	return AreaEvaluator, false
}

// EvaluatorNames lists the accepted evaluator names.
func EvaluatorNames() []string {
	return []string{EvaluatorArea, EvaluatorPerimeter, EvaluatorWidth, EvaluatorHeight}
}
