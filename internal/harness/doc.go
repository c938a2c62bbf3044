// Package harness runs conversion scenarios against fixture projects.
//
// A scenario names a Cocos project, one prefab asset inside it and,
// optionally, a destination framework. The harness loads the prefab,
// serializes it to IR, checks that the IR survives an encode/decode round
// trip unchanged, builds the destination tree and evaluates the scenario's
// assertions. The run is summarized as a text outline suitable for golden
// comparison.
//
// # Scenario Format
//
//	name: modern_panel
//	description: "Panel prefab with a label and a button"
//	project: ../project/testdata/modern
//	asset: db://assets/ui/Panel.prefab
//	profile: modern
//	target: ngui
//	assertions:
//	  - type: node_count
//	    count: 3
//	  - type: component
//	    node: Panel/Btn
//	    kind: UISprite
//	  - type: resource
//	    uuid: frame-btn
//	    resource: SpriteFrame
//	  - type: loss_count
//	    loss: pivot_quantized
//	    count: 0
//	  - type: target_component
//	    node: Panel/Btn
//	    kind: BoxCollider
//	  - type: round_trip
//
// The project path is resolved relative to the scenario file. The asset is
// either a db:// path or a uuid.
//
// # Golden Outlines
//
// RunWithGolden compares the outline against testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
