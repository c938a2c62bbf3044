package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/uibridge/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the messages of the
// ones that failed.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %s", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertNodeCount:
		return assertNodeCount(result, a)
	case AssertComponent:
		return assertComponent(result, a)
	case AssertTargetComponent:
		return assertTargetComponent(result, a)
	case AssertResource:
		return assertResource(result, a)
	case AssertLossCount:
		return assertLossCount(result, a)
	case AssertFlag:
		return assertFlag(result, a)
	case AssertRoundTrip:
		return assertRoundTrip(result)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertNodeCount(result *Result, a Assertion) error {
	got := 0
	if result.Document != nil {
		got = result.Document.CountNodes()
	}
	if got != a.Count {
		return &AssertionError{
			Type:     AssertNodeCount,
			Expected: fmt.Sprintf("%d nodes", a.Count),
			Actual:   fmt.Sprintf("%d nodes", got),
		}
	}
	return nil
}

func assertComponent(result *Result, a Assertion) error {
	doc := result.FindNode(a.Node)
	if doc == nil {
		return &AssertionError{Type: AssertComponent, Expected: "node " + a.Node, Actual: "not found"}
	}
	var kinds []string
	for _, c := range doc.Components {
		if string(c.Type) == a.Kind {
			return nil
		}
		kinds = append(kinds, string(c.Type))
	}
	return &AssertionError{
		Type:     AssertComponent,
		Expected: fmt.Sprintf("%s on %s", a.Kind, a.Node),
		Actual:   fmt.Sprintf("components %v", kinds),
	}
}

func assertTargetComponent(result *Result, a Assertion) error {
	n := result.FindTargetNode(a.Node)
	if n == nil {
		return &AssertionError{Type: AssertTargetComponent, Expected: "node " + a.Node, Actual: "not found"}
	}
	if !n.Has(a.Kind) {
		return &AssertionError{
			Type:     AssertTargetComponent,
			Expected: fmt.Sprintf("%s on %s", a.Kind, a.Node),
			Actual:   fmt.Sprintf("components %v", n.Kinds()),
		}
	}
	return nil
}

func assertResource(result *Result, a Assertion) error {
	for _, r := range result.Resources {
		if r.UUID != a.UUID {
			continue
		}
		if a.Resource == "" || string(r.Type) == a.Resource {
			return nil
		}
	}
	want := a.UUID
	if a.Resource != "" {
		want = fmt.Sprintf("%s %s", a.Resource, a.UUID)
	}
	return &AssertionError{
		Type:     AssertResource,
		Expected: "resource " + want,
		Actual:   fmt.Sprintf("%d resources, none matching", len(result.Resources)),
	}
}

func assertLossCount(result *Result, a Assertion) error {
	got := result.Losses.Count(ir.LossKind(a.Loss))
	if got != a.Count {
		return &AssertionError{
			Type:     AssertLossCount,
			Expected: fmt.Sprintf("%d %s entries", a.Count, a.Loss),
			Actual:   fmt.Sprintf("%d entries", got),
		}
	}
	return nil
}

func assertFlag(result *Result, a Assertion) error {
	doc := result.FindNode(a.Node)
	if doc == nil {
		return &AssertionError{Type: AssertFlag, Expected: "node " + a.Node, Actual: "not found"}
	}
	set := false
	switch a.Flag {
	case FlagButton:
		set = doc.Button
	case FlagScrollView:
		set = doc.ScrollView != nil
	case FlagGrid:
		set = doc.Grid != nil
	}
	if !set {
		return &AssertionError{
			Type:     AssertFlag,
			Expected: fmt.Sprintf("%s set on %s", a.Flag, a.Node),
			Actual:   "unset",
		}
	}
	return nil
}

func assertRoundTrip(result *Result) error {
	if !result.RoundTrip {
		return &AssertionError{Type: AssertRoundTrip, Expected: "decoded IR digest unchanged", Actual: "digest changed"}
	}
	if !result.Idempotent {
		return &AssertionError{Type: AssertRoundTrip, Expected: "repeat serialization digest unchanged", Actual: "digest changed"}
	}
	return nil
}
