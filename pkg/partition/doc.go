// Package partition generates the edge sets that spring systems are built
// from.
//
// [Points] samples sites inside a rectangle with one of three policies and
// [Voronoi] turns the sites into the edges of their bounded Voronoi diagram.
// Border edges are included, and edges that share a vertex meet at exactly the
// same coordinates, so the spring network can pin them together.
package partition
