/*
Copyright © 2018 the OceanBox authors.
This file is part of OceanBox.

OceanBox is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

OceanBox is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with OceanBox.  If not, see <http://www.gnu.org/licenses/>.
*/

package oceanbox

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

const (
	// QuadratureTolerance is the maximum acceptable estimated absolute
	// error of the forced-step quadrature. Exceeding it aborts the whole
	// trajectory; a silently inaccurate integral would corrupt every
	// downstream tracer history.
	QuadratureTolerance = 1e-5

	// residueTolerance bounds the imaginary residue left over when a
	// propagated state is projected back to the reals.
	residueTolerance = 1e-8

	quadNodes    = 15
	maxQuadDepth = 12
)

// ErrIntegrationAccuracy reports that the forced-step quadrature could not
// reach the required accuracy.
var ErrIntegrationAccuracy = errors.New("oceanbox: quadrature error estimate exceeds tolerance")

// ErrImaginaryResidue reports that a propagated state retained an imaginary
// component too large to discard.
var ErrImaginaryResidue = errors.New("oceanbox: propagated state has non-negligible imaginary part")

// A SourceFunc returns the Dirichlet boundary forcing vector at model time
// t [s], in Grid.Boundary ordering. It must be a pure function of time: the
// adaptive quadrature samples it at integrator-chosen points in no
// guaranteed order.
type SourceFunc func(t float64) []float64

// A Trajectory is the tracer state at a monotonically increasing sequence
// of output times. Its first entry is the initial condition.
type Trajectory struct {
	Times  []float64
	Fields []*Field
}

// Series extracts the timeseries of one box by category labels.
func (tr *Trajectory) Series(m, v string) []*unit.Unit {
	o := make([]*unit.Unit, len(tr.Fields))
	for i, f := range tr.Fields {
		o[i] = f.Get(m, v)
	}
	return o
}

// A Propagator integrates the linear system dC/dt = A·C + B·f(t) exactly
// between output times: the homogeneous part through the eigendecomposition
// of A and the forced part through adaptive quadrature of the Duhamel
// integral. The eigendecomposition is computed once at construction and the
// propagator is read-only afterwards.
type Propagator struct {
	n    int
	vals []complex128
	vecs *mat.CDense
	vinv *mat.CDense
	b    *mat.Dense // nil when there is no boundary forcing
}

// NewPropagator builds a propagator from a transport operator a and an
// optional boundary operator b (nil for unforced systems). Both must carry
// inverse-time dimensions. It returns an error if a is not diagonalizable
// within floating-point tolerance.
func NewPropagator(a, b *Operator) (*Propagator, error) {
	if err := unit.New(0, a.Dims).Check(PerSecond); err != nil {
		return nil, fmt.Errorf("oceanbox: transport matrix: %v", err)
	}
	n, c := a.Data.Dims()
	if n != c {
		return nil, fmt.Errorf("oceanbox: transport matrix is %d×%d; must be square", n, c)
	}
	p := &Propagator{n: n}
	if b != nil {
		if err := unit.New(0, b.Dims).Check(PerSecond); err != nil {
			return nil, fmt.Errorf("oceanbox: boundary matrix: %v", err)
		}
		br, _ := b.Data.Dims()
		if br != n {
			return nil, fmt.Errorf("oceanbox: boundary matrix has %d rows; transport matrix has %d", br, n)
		}
		p.b = b.Data
	}

	var eig mat.Eigen
	if ok := eig.Factorize(a.Data, mat.EigenRight); !ok {
		return nil, fmt.Errorf("oceanbox: eigendecomposition of transport matrix failed")
	}
	p.vals = eig.Values(nil)
	p.vecs = mat.NewCDense(n, n, nil)
	eig.VectorsTo(p.vecs)
	vinv, err := complexInverse(p.vecs)
	if err != nil {
		return nil, fmt.Errorf("oceanbox: transport matrix is not diagonalizable: %v", err)
	}
	p.vinv = vinv
	return p, nil
}

// Evolve computes the tracer trajectory at the requested output times,
// starting from c0 at times[0]. src supplies the boundary forcing and may
// be nil for an unforced system; supplying forcing to a propagator built
// without a boundary matrix is an error rather than a silent no-op. Any
// quadrature accuracy failure aborts the whole computation; no partial
// trajectory is returned.
func (p *Propagator) Evolve(c0 *Field, times []float64, src SourceFunc) (*Trajectory, error) {
	if c0.Grid().Len() != p.n {
		return nil, fmt.Errorf("oceanbox: initial condition has %d boxes; propagator expects %d",
			c0.Grid().Len(), p.n)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("oceanbox: no output times requested")
	}
	if src != nil && p.b == nil {
		return nil, fmt.Errorf("oceanbox: source history supplied but the propagator has no boundary matrix")
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("oceanbox: output times must be strictly increasing (times[%d]=%g, times[%d]=%g)",
				i-1, times[i-1], i, times[i])
		}
	}

	tr := &Trajectory{
		Times:  append([]float64{}, times...),
		Fields: make([]*Field, 0, len(times)),
	}
	tr.Fields = append(tr.Fields, c0.Copy())

	g := c0.Grid()
	dims := c0.Dimensions()
	cur := c0.Vec()
	for i := 1; i < len(times); i++ {
		t0, t1 := times[i-1], times[i]
		hom, err := p.advance(cur, t1-t0)
		if err != nil {
			return nil, err
		}
		if src != nil {
			forced, err := p.forcedIntegral(src, t0, t1)
			if err != nil {
				return nil, err
			}
			for r := range hom {
				hom[r] += forced[r]
			}
		}
		cur = hom
		tr.Fields = append(tr.Fields, g.FromVec(cur, dims))
	}
	return tr, nil
}

// Advance propagates the state c over dt seconds with no forcing:
// V · exp(diag(μ)·dt) · V⁻¹ · c.
func (p *Propagator) Advance(c *Field, dt float64) (*Field, error) {
	v, err := p.advance(c.Vec(), dt)
	if err != nil {
		return nil, err
	}
	return c.Grid().FromVec(v, c.Dimensions()), nil
}

func (p *Propagator) advance(c []float64, dt float64) ([]float64, error) {
	y := make([]complex128, p.n)
	for i := range c {
		y[i] = complex(c[i], 0)
	}
	return p.projectReal(p.applyV(p.scaleExp(p.applyVinv(y), dt)))
}

// forcedIntegral evaluates the Duhamel integral
// ∫ V · exp(diag(μ)·(t1−t)) · V⁻¹ · B · src(t) dt over [t0, t1].
func (p *Propagator) forcedIntegral(src SourceFunc, t0, t1 float64) ([]float64, error) {
	k := 0
	if p.b != nil {
		_, k = p.b.Dims()
	}

	var evalErr error
	// The per-component quadratures all sample the same node locations, so
	// one full-vector evaluation is cached per sample time.
	cache := make(map[float64][]float64)
	eval := func(t float64) []float64 {
		if v, ok := cache[t]; ok {
			return v
		}
		s := src(t)
		if len(s) != k {
			panic(fmt.Errorf("oceanbox: source history returned %d values; boundary matrix has %d columns", len(s), k))
		}
		w := make([]complex128, p.n)
		for r := 0; r < p.n; r++ {
			var sum float64
			for c := 0; c < k; c++ {
				sum += p.b.At(r, c) * s[c]
			}
			w[r] = complex(sum, 0)
		}
		v, err := p.projectReal(p.applyV(p.scaleExp(p.applyVinv(w), t1-t)))
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			// Keep the quadrature indexable; the stored error aborts the
			// step before any value is used.
			v = make([]float64, p.n)
		}
		cache[t] = v
		return v
	}

	out := make([]float64, p.n)
	for i := 0; i < p.n; i++ {
		i := i
		fi := func(t float64) float64 { return eval(t)[i] }
		val, errEst := adaptiveQuad(fi, t0, t1, QuadratureTolerance, maxQuadDepth)
		if evalErr != nil {
			return nil, evalErr
		}
		if errEst > QuadratureTolerance {
			return nil, fmt.Errorf("%w: component %d over [%g, %g]: estimated error %g",
				ErrIntegrationAccuracy, i, t0, t1, errEst)
		}
		out[i] = val
	}
	return out, nil
}

// adaptiveQuad integrates f over [a, b] by bisection, using a fixed
// Gauss-Legendre panel as the base rule and the difference between the
// whole-interval and half-interval results as the error estimate. When the
// recursion depth limit is reached the unconverged estimate is returned to
// the caller, which treats an estimate above tolerance as fatal.
func adaptiveQuad(f func(float64) float64, a, b, tol float64, depth int) (val, errEst float64) {
	whole := quad.Fixed(f, a, b, quadNodes, quad.Legendre{}, 0)
	mid := 0.5 * (a + b)
	left := quad.Fixed(f, a, mid, quadNodes, quad.Legendre{}, 0)
	right := quad.Fixed(f, mid, b, quadNodes, quad.Legendre{}, 0)
	diff := math.Abs(whole - (left + right))
	if diff <= tol || depth <= 0 {
		return left + right, diff
	}
	lv, le := adaptiveQuad(f, a, mid, tol/2, depth-1)
	rv, re := adaptiveQuad(f, mid, b, tol/2, depth-1)
	return lv + rv, le + re
}

// applyVinv computes V⁻¹ · y.
func (p *Propagator) applyVinv(y []complex128) []complex128 {
	o := make([]complex128, p.n)
	for r := 0; r < p.n; r++ {
		var sum complex128
		for c := 0; c < p.n; c++ {
			sum += p.vinv.At(r, c) * y[c]
		}
		o[r] = sum
	}
	return o
}

// applyV computes V · y.
func (p *Propagator) applyV(y []complex128) []complex128 {
	o := make([]complex128, p.n)
	for r := 0; r < p.n; r++ {
		var sum complex128
		for c := 0; c < p.n; c++ {
			sum += p.vecs.At(r, c) * y[c]
		}
		o[r] = sum
	}
	return o
}

// scaleExp multiplies each eigencomponent by exp(μ·dt).
func (p *Propagator) scaleExp(y []complex128, dt float64) []complex128 {
	o := make([]complex128, p.n)
	for i := range y {
		o[i] = y[i] * cmplx.Exp(p.vals[i]*complex(dt, 0))
	}
	return o
}

// projectReal returns the real part of y, failing if the imaginary residue
// is too large relative to the state magnitude to be rounding noise.
func (p *Propagator) projectReal(y []complex128) ([]float64, error) {
	var maxRe, maxIm float64
	o := make([]float64, len(y))
	for i, v := range y {
		o[i] = real(v)
		if a := math.Abs(real(v)); a > maxRe {
			maxRe = a
		}
		if a := math.Abs(imag(v)); a > maxIm {
			maxIm = a
		}
	}
	if maxIm > residueTolerance*(1+maxRe) {
		return nil, fmt.Errorf("%w: |Im| = %g with |Re| = %g", ErrImaginaryResidue, maxIm, maxRe)
	}
	return o, nil
}

// complexInverse inverts a square complex matrix by LU decomposition with
// partial pivoting. The mat package has no complex analogue of
// Dense.Inverse, and the matrices here are small enough that a direct
// factorization is adequate.
func complexInverse(a *mat.CDense) (*mat.CDense, error) {
	n, c := a.Dims()
	if n != c {
		return nil, fmt.Errorf("matrix is %d×%d; must be square", n, c)
	}
	lu := make([]complex128, n*n)
	for r := 0; r < n; r++ {
		for cc := 0; cc < n; cc++ {
			lu[r*n+cc] = a.At(r, cc)
		}
	}
	piv := make([]int, n)
	for i := range piv {
		piv[i] = i
	}
	for col := 0; col < n; col++ {
		// Partial pivoting.
		pr := col
		max := cmplx.Abs(lu[col*n+col])
		for r := col + 1; r < n; r++ {
			if v := cmplx.Abs(lu[r*n+col]); v > max {
				max, pr = v, r
			}
		}
		if max == 0 {
			return nil, fmt.Errorf("eigenvector matrix is singular to working precision")
		}
		if pr != col {
			for cc := 0; cc < n; cc++ {
				lu[col*n+cc], lu[pr*n+cc] = lu[pr*n+cc], lu[col*n+cc]
			}
			piv[col], piv[pr] = piv[pr], piv[col]
		}
		for r := col + 1; r < n; r++ {
			m := lu[r*n+col] / lu[col*n+col]
			lu[r*n+col] = m
			for cc := col + 1; cc < n; cc++ {
				lu[r*n+cc] -= m * lu[col*n+cc]
			}
		}
	}

	inv := mat.NewCDense(n, n, nil)
	y := make([]complex128, n)
	for e := 0; e < n; e++ { // solve A·x = I[:,e] column by column
		for r := 0; r < n; r++ {
			y[r] = 0
			if piv[r] == e {
				y[r] = 1
			}
			for cc := 0; cc < r; cc++ {
				y[r] -= lu[r*n+cc] * y[cc]
			}
		}
		for r := n - 1; r >= 0; r-- {
			for cc := r + 1; cc < n; cc++ {
				y[r] -= lu[r*n+cc] * inv.At(cc, e)
			}
			inv.Set(r, e, y[r]/lu[r*n+r])
		}
	}
	return inv, nil
}
