// Package field defines signed distance field nodes. A node graph is an
// immutable tree of primitives (sphere, plane, box), groups (union,
// intersection, difference) and unary wrappers (rigid transform,
// repetition, displacement) that is evaluated pointwise.
//
// Distances are negative inside a shape, zero on its boundary and positive
// outside. Every evaluation also reports the leaf node closest to the query
// point so that consumers can read that node's attachments (materials, tags).
package field
