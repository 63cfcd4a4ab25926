// Package locality finds neighboring points in periodic boxes.
//
// Only the brute-force strategy is provided: every query point is tested
// against every point under the minimum-image convention. Results are lazy;
// bonds are produced while ranging over a Result, so callers can split the
// query points across goroutines with Range.
package locality
