package inputval

import (
	"strings"

	"github.com/dalemusser/modulecredits/internal/domain/models"
)

// IsValidCategory reports whether s is a known compulsory_elective value.
// Matching is exact; callers normalize case first.
func IsValidCategory(s string) bool {
	for _, c := range models.Categories {
		if s == c {
			return true
		}
	}
	return false
}

// NormalizeCode trims and upper-cases short codes such as group and
// category names.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
