package rows

import (
	"fmt"
)

const (
	TxnHashSize   = 32
	StakeHashSize = 28
	PolicyIDSize  = 28
	// A stake address is a header byte followed by a stake credential hash.
	StakeAddressSize = StakeHashSize + 1
)

func checkSize(field string, b []byte, size int) error {
	if len(b) != size {
		return fmt.Errorf("%s must be %d bytes, got %d", field, size, len(b))
	}

	return nil
}

func checkNotEmpty(field string, b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%s must not be empty", field)
	}

	return nil
}

func checkNonNegative(field string, v int64) error {
	if v < 0 {
		return fmt.Errorf("%s must not be negative, got %d", field, v)
	}

	return nil
}

// firstError returns the first non nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
