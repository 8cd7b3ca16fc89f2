// Package viz renders bodies in the terminal.
//
// [Canvas] is a Braille dot grid with 2x4 sub-pixels per cell. [Frame]
// projects a universe of half-width radius onto it with the origin at the
// centre. [Model] is a bubbletea program that steps a simulation and redraws
// the canvas every tick.
package viz
