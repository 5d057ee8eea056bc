// Package naming derives the deterministic output names of the pairing
// pipeline: base names and their normalised grouping keys, the
// "<base>_pair<N>" file names, and the per-base occurrence counter that
// assigns N.
//
// Layout of an output pair for base "a", pair index 1 and source "a.JPG":
//
//	<outputDir>/a_pair1.JPG
//	<outputDir>/a_pair1.txt
package naming
