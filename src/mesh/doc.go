// Package mesh multiplies integer matrices on a virtual two-dimensional mesh of
// compute units.
//
// A product of an M×K matrix and a K×N matrix runs on M*N processes, one per output
// cell, laid out row-major by rank. Rank 0 validates the operands, broadcasts the mesh
// Dimensions and hands row i of the left matrix to the first unit of grid row i and
// column j of the right matrix to the first unit of grid column j. Every unit then runs
// K rounds: take A from the left (or its row stream), take B from above (or its column
// stream), accumulate A*B, pass A right and B down. Afterwards rank 0 gathers the
// accumulators in rank order.
//
// Units share nothing. They exchange values over tagged lanes (see package noc) whose
// per-pair FIFO order is the only synchronisation the protocol needs besides the
// startup distribution.
package mesh
