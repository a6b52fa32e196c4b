// Package diag renders stitch graphs, meshes and pattern rows for people and
// for external tools.
//
// Text:     Summary (one line per course), WritePattern (a chart).
// Tables:   WriteTables dumps node and edge attributes as YAML or TSV.
// Exchange: WriteDOT (graphviz, through gonum's DOT encoder), WriteOBJ
// (Wavefront), and the YAML course file read by ReadCourses and written by
// WriteCourses.
//
// Every writer is deterministic: nodes by id, edges by edge id (DOT: by
// endpoint ids), faces in face order.
package diag
