package analog

import (
	"fmt"
	"math"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkGain(db float64) error {
	if !finite(db) {
		return fmt.Errorf("%w: %f", ErrInvalidGain, db)
	}

	return nil
}

func checkRipple(db float64) error {
	if !finite(db) || db <= 0 {
		return fmt.Errorf("%w: %f", ErrInvalidRipple, db)
	}

	return nil
}

func checkStopband(db float64) error {
	if !finite(db) || db <= 0 {
		return fmt.Errorf("%w: %f", ErrInvalidStopband, db)
	}

	return nil
}
