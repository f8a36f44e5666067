package tracker

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/num/quat"
)

// sampleKind tags a line of tracker output.
type sampleKind byte

const (
	sampleOrientation sampleKind = 'Q'
	sampleAccel       sampleKind = 'A'
)

// sample is one parsed line: "Q w x y z" (orientation) or "A x y z" (acceleration in m/s²).
type sample struct {
	kind        sampleKind
	orientation quat.Number
	accel       [3]float32
}

// parseSample decodes one line of tracker output.
// Orientation samples are normalized. NaN, infinities, a zero quaternion and out-of-range
// acceleration are rejected.
func parseSample(line string) (sample, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return sample{}, fmt.Errorf("empty line")
	}

	values := make([]float64, 0, 4)
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return sample{}, fmt.Errorf("parse %q: %w", line, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return sample{}, fmt.Errorf("parse %q: non-finite value %q", line, f)
		}
		values = append(values, v)
	}

	switch sampleKind(strings.ToUpper(fields[0])[0]) {
	case sampleOrientation:
		if len(values) != 4 {
			return sample{}, fmt.Errorf("orientation needs 4 values, got %d", len(values))
		}
		q := quat.Number{Real: values[0], Imag: values[1], Jmag: values[2], Kmag: values[3]}
		n := quat.Abs(q)
		if n == 0 {
			return sample{}, fmt.Errorf("zero orientation quaternion")
		}
		return sample{kind: sampleOrientation, orientation: quat.Scale(1/n, q)}, nil
	case sampleAccel:
		if len(values) != 3 {
			return sample{}, fmt.Errorf("acceleration needs 3 values, got %d", len(values))
		}
		for _, v := range values {
			if math.Abs(v) > math.MaxFloat32 {
				return sample{}, fmt.Errorf("acceleration %v overflows float32", v)
			}
		}
		return sample{kind: sampleAccel, accel: [3]float32{float32(values[0]), float32(values[1]), float32(values[2])}}, nil
	default:
		return sample{}, fmt.Errorf("unknown sample type %q", fields[0])
	}
}
