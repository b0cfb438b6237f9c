package layout

import (
	"github.com/cxtools/cxlayout/pkg/cx"
	"github.com/cxtools/cxlayout/pkg/errors"
)

// ToAspect converts a position map into cartesianLayout aspect records, one
// record per entry, preserving the order of pos. A nil position map is an
// INVALID_INPUT error; the function never returns a partial result.
func ToAspect(pos Positions) ([]cx.CartesianCoordinate, error) {
	if pos == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "position map is nil")
	}
	aspect := make([]cx.CartesianCoordinate, len(pos))
	for i, p := range pos {
		aspect[i] = cx.CartesianCoordinate{Node: p.Node, X: p.X, Y: p.Y}
	}
	return aspect, nil
}
