package catalog

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrSlugConflict is returned by the repository when a write trips the unique
// index on products.slug.
var ErrSlugConflict = errors.New("slug already exists")

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input, collapses every run of non-alphanumeric
// characters into a single hyphen and trims hyphens at both ends.
func Slugify(s string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// NewSlug builds a URL identifier from a product name plus a 4-digit random
// suffix so two sellers can list the same name.
func NewSlug(name string) string {
	base := Slugify(name)
	if base == "" {
		base = "product"
	}
	return fmt.Sprintf("%s-%d", base, 1000+rand.Intn(9000))
}

// RetrySlug extends an already-suffixed slug after a unique-index collision.
// Callers retry the write exactly once with the result.
func RetrySlug(slug string) string {
	return fmt.Sprintf("%s-%d", slug, rand.Intn(100000))
}

// DerivePieces converts seller box inventory into the checkout unit.
func DerivePieces(totalBoxes, piecesPerBox int) int {
	return totalBoxes * piecesPerBox
}
