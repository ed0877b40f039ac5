package services

import (
	"fmt"
	"math/rand"
)

// randomColor picks a display color for a new task bar. The color is stored
// with the record and kept across edits.
func randomColor() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rand.Intn(256), rand.Intn(256), rand.Intn(256))
}
