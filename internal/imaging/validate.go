package imaging

import "fmt"

// Validate rejects nil, closed and empty images before an operation runs.
func Validate(img *Gray, operation string) error {
	if img == nil {
		return fmt.Errorf("image is nil for operation: %s", operation)
	}

	if img.Empty() {
		return fmt.Errorf("image is empty for operation: %s", operation)
	}

	if img.Rows() <= 0 || img.Cols() <= 0 {
		return fmt.Errorf("image has invalid dimensions %dx%d for operation: %s",
			img.Cols(), img.Rows(), operation)
	}

	return nil
}

// ValidatePair additionally requires both images to share a shape, as the
// comparison metrics do.
func ValidatePair(a, b *Gray, operation string) error {
	if err := Validate(a, operation); err != nil {
		return err
	}
	if err := Validate(b, operation); err != nil {
		return err
	}

	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("image dimensions must match for operation %s: %dx%d vs %dx%d",
			operation, a.Cols(), a.Rows(), b.Cols(), b.Rows())
	}

	return nil
}
