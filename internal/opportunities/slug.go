package opportunities

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	pkgerrors "github.com/abronee/devex/pkg/errors"
)

// maxCodeAttempts bounds the suffix search. Collisions are driven by duplicate
// titles, so anything near the cap means something else is wrong.
const maxCodeAttempts = 500

var nonWordRuns = regexp.MustCompile(`\W+`)

// CodeLookup answers whether a candidate code is already taken.
type CodeLookup interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// NormalizeTitle lowercases the title, collapses every run of non-word
// characters into a single hyphen and trims hyphens from both ends.
func NormalizeTitle(title string) string {
	slug := nonWordRuns.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// FindUniqueCode derives a free code from the title by appending ascending
// integer suffixes until the lookup reports no collision. startSuffix is the
// first suffix to try; 0 means the bare normalized title. One lookup is issued
// per attempt, and a lookup failure aborts immediately rather than retrying.
func FindUniqueCode(ctx context.Context, title string, startSuffix int, lookup CodeLookup) (string, error) {
	base := NormalizeTitle(title)
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title produces an empty code")
	}
	if startSuffix < 0 {
		startSuffix = 0
	}

	for suffix := startSuffix; suffix < startSuffix+maxCodeAttempts; suffix++ {
		candidate := base
		if suffix > 0 {
			candidate += strconv.Itoa(suffix)
		}

		taken, err := lookup.CodeExists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up opportunity code").
				WithDetails(map[string]any{"error": err.Error()})
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", pkgerrors.New(pkgerrors.CodeConflict, "opportunity code space exhausted").
		WithDetails(map[string]any{"title": title, "attempts": maxCodeAttempts})
}
