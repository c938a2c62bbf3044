// Package source models the retained scene tree of a Cocos Creator prefab as
// the conversion engine sees it: nodes with a transform, a content box, a
// colour and an ordered list of components identified by kind name.
//
// Two source profiles disagree on units. Profile captures the difference so
// the serializer never branches on engine version. A profile is selected once
// per batch run.
package source
