// Package density computes radial distribution functions.
//
// An RDF accumulates pair-distance histograms over one or more frames and
// normalizes them against an ideal gas of the same density:
//
//	g(r_i) = count_i / (frames * N_query * rho * V_shell(i))
//
// where rho = N_points / V and V_shell is the volume (area in 2D) of the
// spherical (circular) shell covered by bin i.
//
// # Usage
//
//	rdf, _ := density.New(100, 5.0, 0)
//	q := locality.NewBruteForce(b, points)
//	_ = rdf.Accumulate(ctx, q, points, locality.Ball(5.0, true))
//	centers, g := rdf.BinCenters(), rdf.RDF()
package density
