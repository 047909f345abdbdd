package sobject

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a single version-applicability constraint: a specification name
// plus comparison bounds against dotted version numbers. A Version matches a
// concrete number only when every present bound is satisfied.
type Version struct {
	Specification        string
	ExactlyEquals        []int // ===
	Equals               []int // == or =
	CompatibleWith       []int // ~=
	NotEquals            []int // !=
	LessThan             []int // <
	LessThanOrEqualTo    []int // <=
	GreaterThan          []int // >
	GreaterThanOrEqualTo []int // >=
}

// Operator lookup order matters: longer operators must be recognized before
// their prefixes.
var versionOperators = []struct {
	symbol string
	assign func(v *Version, number []int)
}{
	{"===", func(v *Version, n []int) { v.ExactlyEquals = n }},
	{"<=", func(v *Version, n []int) { v.LessThanOrEqualTo = n }},
	{">=", func(v *Version, n []int) { v.GreaterThanOrEqualTo = n }},
	{"!=", func(v *Version, n []int) { v.NotEquals = n }},
	{"==", func(v *Version, n []int) { v.Equals = n }},
	{"~=", func(v *Version, n []int) { v.CompatibleWith = n }},
	{"<", func(v *Version, n []int) { v.LessThan = n }},
	{">", func(v *Version, n []int) { v.GreaterThan = n }},
	{"=", func(v *Version, n []int) { v.Equals = n }},
}

// ParseVersion parses the compact constraint syntax, for example "spec<1.2"
// or "spec>=2&spec<3". Specifiers may be separated by "&" or ",". Every
// specifier must name the same specification.
func ParseVersion(s string) (*Version, error) {
	v := &Version{}
	normalized := strings.ReplaceAll(s, "&", ",")
	for _, specifier := range strings.Split(normalized, ",") {
		specifier = strings.TrimSpace(specifier)
		if specifier == "" {
			continue
		}
		matched := false
		for _, op := range versionOperators {
			if !strings.Contains(specifier, op.symbol) {
				continue
			}
			parts := strings.SplitN(specifier, op.symbol, 2)
			name := strings.TrimSpace(parts[0])
			if name != "" {
				if v.Specification != "" && name != v.Specification {
					return nil, fmt.Errorf(
						"multiple specifications cannot be associated with one version constraint: %q and %q",
						v.Specification, name)
				}
				v.Specification = name
			}
			number, err := ParseVersionNumber(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, fmt.Errorf("invalid version constraint %q: %w", s, err)
			}
			op.assign(v, number)
			matched = true
			break
		}
		if !matched {
			// A bare token is a specification name with no bounds.
			v.Specification = specifier
		}
	}
	return v, nil
}

// MustVersion is like ParseVersion but panics on invalid syntax. It is
// intended for class-definition-time constants.
func MustVersion(s string) *Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseVersionNumber converts a dotted version string into integer
// components.
func ParseVersionNumber(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty version number")
	}
	parts := strings.Split(s, ".")
	number := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version number %q", s)
		}
		number[i] = n
	}
	return number, nil
}

// compareVersionNumbers compares componentwise after zero-padding the shorter
// sequence.
func compareVersionNumbers(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// compatibleVersions reports whether a satisfies the compatible-release
// constraint b: at least b, below the next value of b's second-to-last
// component.
func compatibleVersions(a, b []int) bool {
	if len(a) < len(b) {
		return compareVersionNumbers(a, b[:len(a)]) == 0
	}
	if len(b) > 1 {
		upper := append(append([]int{}, b[:len(b)-2]...), b[len(b)-2]+1, 0)
		return compareVersionNumbers(a, b) >= 0 && compareVersionNumbers(a, upper) < 0
	}
	return compareVersionNumbers(a, b) == 0
}

// Matches reports whether the dotted version number satisfies every present
// bound.
func (v *Version) Matches(number string) (bool, error) {
	parsed, err := ParseVersionNumber(number)
	if err != nil {
		return false, err
	}
	return v.MatchesNumber(parsed), nil
}

// MatchesNumber is Matches over pre-parsed components.
func (v *Version) MatchesNumber(number []int) bool {
	if v.ExactlyEquals != nil && !exactlyEqualVersions(number, v.ExactlyEquals) {
		return false
	}
	if v.Equals != nil && compareVersionNumbers(number, v.Equals) != 0 {
		return false
	}
	if v.CompatibleWith != nil && !compatibleVersions(number, v.CompatibleWith) {
		return false
	}
	if v.NotEquals != nil && compareVersionNumbers(number, v.NotEquals) == 0 {
		return false
	}
	if v.LessThan != nil && compareVersionNumbers(number, v.LessThan) >= 0 {
		return false
	}
	if v.LessThanOrEqualTo != nil && compareVersionNumbers(number, v.LessThanOrEqualTo) > 0 {
		return false
	}
	if v.GreaterThan != nil && compareVersionNumbers(number, v.GreaterThan) <= 0 {
		return false
	}
	if v.GreaterThanOrEqualTo != nil && compareVersionNumbers(number, v.GreaterThanOrEqualTo) < 0 {
		return false
	}
	return true
}

func exactlyEqualVersions(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatVersionNumber(number []int) string {
	parts := make([]string, len(number))
	for i, n := range number {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// String renders the constraint back into the compact syntax.
func (v *Version) String() string {
	specifiers := make([]string, 0, 8)
	add := func(symbol string, number []int) {
		if number != nil {
			specifiers = append(specifiers, symbol+formatVersionNumber(number))
		}
	}
	add("===", v.ExactlyEquals)
	add("==", v.Equals)
	add("~=", v.CompatibleWith)
	add("!=", v.NotEquals)
	add(">", v.GreaterThan)
	add(">=", v.GreaterThanOrEqualTo)
	add("<", v.LessThan)
	add("<=", v.LessThanOrEqualTo)
	return v.Specification + strings.Join(specifiers, ",")
}

// DeepCopy duplicates the constraint.
func (v *Version) DeepCopy() *Version {
	cp := *v
	copyInts := func(n []int) []int {
		if n == nil {
			return nil
		}
		return append([]int(nil), n...)
	}
	cp.ExactlyEquals = copyInts(v.ExactlyEquals)
	cp.Equals = copyInts(v.Equals)
	cp.CompatibleWith = copyInts(v.CompatibleWith)
	cp.NotEquals = copyInts(v.NotEquals)
	cp.LessThan = copyInts(v.LessThan)
	cp.LessThanOrEqualTo = copyInts(v.LessThanOrEqualTo)
	cp.GreaterThan = copyInts(v.GreaterThan)
	cp.GreaterThanOrEqualTo = copyInts(v.GreaterThanOrEqualTo)
	return &cp
}
