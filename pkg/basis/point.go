package basis

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// Direction selects which way a conversion goes.
type Direction int

const (
	// ToPolynomialBasis converts normal-basis values to polynomial basis.
	ToPolynomialBasis Direction = iota
	// ToNormalBasis converts polynomial-basis values to normal basis.
	ToNormalBasis
)

func (d Direction) String() string {
	switch d {
	case ToPolynomialBasis:
		return "pb"
	case ToNormalBasis:
		return "nb"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "pb" or "nb", the target basis.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "pb", "polynomial":
		return ToPolynomialBasis, nil
	case "nb", "normal":
		return ToNormalBasis, nil
	default:
		return 0, fmt.Errorf("unknown basis %q, expected pb or nb", s)
	}
}

// Point is an affine curve point given by its two coordinates.
type Point struct {
	X *big.Int
	Y *big.Int
}

// Convert converts a single field element in direction d.
func (c *Conversion) Convert(e *big.Int, d Direction) (*big.Int, error) {
	switch d {
	case ToPolynomialBasis:
		return c.ConvertForward(e)
	case ToNormalBasis:
		return c.ConvertBackward(e)
	default:
		return nil, fmt.Errorf("unknown direction %d", int(d))
	}
}

// ConvertPoint converts both coordinates of p independently.
func (c *Conversion) ConvertPoint(p Point, d Direction) (Point, error) {
	x, err := c.Convert(p.X, d)
	if err != nil {
		return Point{}, fmt.Errorf("x coordinate: %w", err)
	}
	y, err := c.Convert(p.Y, d)
	if err != nil {
		return Point{}, fmt.Errorf("y coordinate: %w", err)
	}
	return Point{X: x, Y: y}, nil
}

// ConvertPoints converts a batch of points on up to workers goroutines.
// Results keep the input order. The first failure cancels the rest.
func (c *Conversion) ConvertPoints(ctx context.Context, points []Point, d Direction, workers int) ([]Point, error) {
	if workers < 1 {
		workers = 1
	}

	out := make([]Point, len(points))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range points {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := c.ConvertPoint(points[i], d)
			if err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
			out[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
