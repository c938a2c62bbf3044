package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/target"
)

// Outline renders a result as stable text: the IR tree, the destination
// tree, the referenced resources and the losses. Generated destination
// nodes and components carry a trailing '*'.
func Outline(scenario *Scenario, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&b, "asset: %s\n", scenario.Asset)
	fmt.Fprintf(&b, "profile: %s\n", result.Profile)

	b.WriteString("ir:\n")
	if result.Document != nil {
		outlineDoc(&b, result.Document, 1)
	}

	if result.Target != nil {
		fmt.Fprintf(&b, "target %s:\n", strings.ToLower(scenario.Target))
		outlineTarget(&b, result.Target, 1)
	}

	b.WriteString("resources:\n")
	if len(result.Resources) == 0 {
		b.WriteString("  none\n")
	}
	for _, r := range result.Resources {
		fmt.Fprintf(&b, "  %s %s %s\n", r.Type, r.Name, r.UUID)
	}

	b.WriteString("losses:\n")
	if result.Losses.IsLossless() {
		b.WriteString("  none\n")
	}
	for _, e := range result.Losses.Entries {
		fmt.Fprintf(&b, "  %s %s %s\n", e.Path, e.Kind, e.Element)
	}

	fmt.Fprintf(&b, "round trip: %s\n", stability(result.RoundTrip && result.Idempotent))
	return []byte(b.String())
}

func stability(ok bool) string {
	if ok {
		return "stable"
	}
	return "unstable"
}

func outlineDoc(b *strings.Builder, d *ir.Document, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(d.Name)
	if len(d.Components) > 0 {
		kinds := make([]string, len(d.Components))
		for i, c := range d.Components {
			kinds[i] = string(c.Type)
		}
		fmt.Fprintf(b, " [%s]", strings.Join(kinds, " "))
	}
	if d.Button {
		b.WriteString(" button")
	}
	if d.ScrollView != nil {
		fmt.Fprintf(b, " scrollView=%d", d.ScrollView.Movement)
	}
	if d.Grid != nil {
		fmt.Fprintf(b, " grid=%d", d.Grid.Arrangement)
	}
	if !d.Active {
		b.WriteString(" inactive")
	}
	b.WriteString("\n")
	for _, c := range d.Children {
		if c != nil {
			outlineDoc(b, c, depth+1)
		}
	}
}

func outlineTarget(b *strings.Builder, n *target.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Name)
	if n.Generated {
		b.WriteString("*")
	}
	if len(n.Components) > 0 {
		kinds := make([]string, len(n.Components))
		for i, c := range n.Components {
			kinds[i] = c.Kind
			if c.Generated {
				kinds[i] += "*"
			}
		}
		fmt.Fprintf(b, " [%s]", strings.Join(kinds, " "))
	}
	if !n.Active {
		b.WriteString(" inactive")
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		outlineTarget(b, c, depth+1)
	}
}

// RunWithGolden executes a scenario and compares its outline against
// testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario, result)
	return result, nil
}

// AssertGolden compares an existing result's outline against its golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Outline(scenario, result))
}
