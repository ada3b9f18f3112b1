// Package core holds the building blocks of signed-digit addition-subtraction
// chains: OddClass nodes and the Chain sequences built from them.
//
// A chain starts at the unit and every further element is
//
//	(±)p + (±)q·2^r,  r >= 1
//
// for earlier elements p and q. Only positive odd values are kept; a negative
// result is the mirror image of a positive one and is never stored.
package core
