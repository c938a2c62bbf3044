// Package ir defines the neutral intermediate representation that UI scene
// graphs are converted through.
//
// This package contains the document types, their JSON codec, canonical
// encoding, digests and the JSON Schema. All other internal packages import
// ir; ir imports nothing internal, so the schema stays the foundational layer.
//
// Key constraints:
//   - Positions, scales, rotations and anchors are rounded to 2 decimals and
//     sizes to integers before they enter a Document (see internal/geometry)
//   - Children and components keep their source encounter order
//   - Optional records are pointers so "absent" and "present with defaults"
//     stay distinguishable
//   - JSON keys use the camelCase spelling consumed by the destination importers
package ir
