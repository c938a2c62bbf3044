// Package geometry converts between the anchor and unit conventions of the
// three UI object models.
//
// A Cocos node stores a normalized anchor (0..1 on each axis, origin bottom
// left) and a centre-origin position. NGUI quantizes the anchor to one of nine
// named pivots. UGUI keeps the continuous value in an anchorMin/anchorMax/pivot
// triplet. All functions here are pure.
package geometry
