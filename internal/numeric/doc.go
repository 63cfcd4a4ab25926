// Package numeric provides the scalar kernels shared by the structure factor
// estimators: the sinc function, composite Simpson integration over uniformly
// spaced samples and compensated summation.
//
// This is an internal package - external users should use the skfactor package.
package numeric
