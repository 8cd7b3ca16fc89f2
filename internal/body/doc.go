// Package body implements a point mass under Newtonian gravitation.
//
// A [Body] carries position, velocity, mass and an opaque asset identifier
// used by renderers. The package exposes pairwise quantities
// ([Body.DistanceTo], [Body.ForceFrom], [Body.ForceX], [Body.ForceY]),
// net force over a collection ([Body.NetForceX], [Body.NetForceY]) and one
// mutating operation, [Body.Update], which advances the body by a
// semi-implicit Euler step.
//
// # Step Discipline
//
// Net forces for every body must be computed against an unmodified snapshot
// before any body is updated:
//
//	fx := make([]float64, len(bodies))
//	fy := make([]float64, len(bodies))
//	for i, b := range bodies {
//	    fx[i] = b.NetForceX(bodies)
//	    fy[i] = b.NetForceY(bodies)
//	}
//	for i, b := range bodies {
//	    b.Update(dt, fx[i], fy[i])
//	}
//
// The package does not guard against zero mass or coincident positions.
// Both produce Inf or NaN which propagates through later steps.
package body
