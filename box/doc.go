// Package box provides periodic simulation boxes.
//
// A Box is described by its edge lengths Lx, Ly, Lz and the tilt factors
// xy, xz, yz. Two-dimensional boxes ignore the z direction: their volume is
// the area Lx*Ly and distances are computed in the plane.
//
// # Usage
//
//	b, _ := box.New3D(10, 10, 10)
//	d := b.Distance(box.Vec3{0, 0, 0}, box.Vec3{9, 0, 0}) // 1 (minimum image)
//
//	out := make([]float64, len(a)*len(c))
//	_ = b.AllDistances(ctx, a, c, out)
package box
