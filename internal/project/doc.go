// Package project is an asset database over a Cocos Creator project on disk.
//
// Assets are indexed from their .meta files: the uuid of every file and of
// every sub-asset (sprite frames inside textures and atlases). Prefabs are
// parsed from the serialized object array, where objects reference each
// other by index ({"__id__": n}) and assets by uuid ({"__uuid__": "..."}).
// Both the 1.x and 2.x layouts are understood; the detected profile decides
// how colours and rotations are stored on the resulting source nodes.
package project
