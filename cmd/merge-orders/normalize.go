package main

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// rewriteStep is one pure text rewrite. Steps run in slice order and the
// whole pipeline is idempotent after a single pass.
type rewriteStep struct {
	name  string
	apply func(string) string
}

var normalizeSteps = []rewriteStep{
	{"strip_noise", stripNoiseTokens},
	{"strip_bulk_markers", stripBulkMarkers},
	{"resolve_brackets", resolveBrackets},
	{"truncate_hyphen", truncateAtHyphen},
	{"canonicalize_minced", canonicalizeMinced},
	{"truncate_colon_slash", truncateColonSlash},
	{"collapse_arithmetic", collapseArithmetic},
	{"tidy", tidyText},
}

// normalizeOptionText runs the full rewrite pipeline over one option string.
func normalizeOptionText(s string) string {
	for _, step := range normalizeSteps {
		s = step.apply(s)
	}
	return s
}

// Brand/region tags that carry no product information. Matched
// case-insensitively so latinized storefront tags are caught too.
var noiseTokens = []string{
	"국내산",
	"국산",
	"의성",
	"남해",
	"창녕",
	"무료배송",
	"산지직송",
	"당일발송",
	"farm fresh",
	"premium",
}

func stripNoiseTokens(s string) string {
	lower := strings.ToLower(s)
	for _, tok := range noiseTokens {
		for {
			i := strings.Index(lower, tok)
			if i < 0 {
				break
			}
			s = s[:i] + s[i+len(tok):]
			lower = lower[:i] + lower[i+len(tok):]
		}
	}
	return s
}

var bulkMarkers = []string{
	"(업소용)", "[업소용]", "업소용",
	"(대용량)", "[대용량]", "대용량",
	"(벌크)", "벌크",
}

func stripBulkMarkers(s string) string {
	for _, m := range bulkMarkers {
		s = strings.ReplaceAll(s, m, "")
	}
	return s
}

// bracketKeepSet lists bracket contents that survive unwrapped; everything
// else inside brackets is discarded with the brackets.
var bracketKeepSet = map[string]struct{}{
	"특대": {},
	"특":  {},
	"대":  {},
	"중":  {},
	"소":  {},
}

var bracketRe = regexp.MustCompile(`[(\[（]([^()\[\]（）]*)[)\]）]`)

func resolveBrackets(s string) string {
	return bracketRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.TrimSpace(bracketRe.FindStringSubmatch(m)[1])
		if _, keep := bracketKeepSet[inner]; keep {
			return " " + inner + " "
		}
		return " "
	})
}

func truncateAtHyphen(s string) string {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		return s[:i]
	}
	return s
}

// weightExprRe matches a single weight expression, optionally a binary
// arithmetic form, so the minced collapse keeps the whole expression for the
// arithmetic step to fold later.
var weightExprRe = regexp.MustCompile(
	`\d+(?:\.\d+)?\s*(?:키로그램|키로|[Kk][Gg]|그램|[Gg]|키|[Kk])` +
		`(?:\s*[+xX×]\s*\d+(?:\.\d+)?\s*(?:키로그램|키로|[Kk][Gg]|그램|[Gg]|키|[Kk]))?`)

var mincedVariants = []string{
	"다진 생마늘",
	"다진생마늘",
	"다진 마늘",
	"간 마늘",
	"간마늘",
}

const mincedToken = "다진마늘"

// canonicalizeMinced folds verbose minced-garlic phrasings into the canonical
// token and then collapses the whole text down to the recognized vocabulary:
// variety, stem phrase, token, first weight expression. Destructive on
// purpose; minced listings bury the product in filler text.
func canonicalizeMinced(s string) string {
	for _, v := range mincedVariants {
		s = strings.ReplaceAll(s, v, mincedToken)
	}
	if !strings.Contains(s, mincedToken) {
		return s
	}
	parts := make([]string, 0, 4)
	if strings.Contains(s, "육쪽") || strings.Contains(s, "명품형") {
		parts = append(parts, "육쪽")
	}
	switch {
	case strings.Contains(s, "꼭지제거"), strings.Contains(s, "꼭지 제거"):
		parts = append(parts, "꼭지제거")
	case strings.Contains(s, "꼭지포함"), strings.Contains(s, "통째로"):
		parts = append(parts, "꼭지포함")
	}
	parts = append(parts, mincedToken)
	if w := weightExprRe.FindString(s); w != "" {
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

// Colon keeps the suffix, slash keeps the prefix. The last colon is used so
// one pass leaves no colon behind.
func truncateColonSlash(s string) string {
	for _, c := range []string{":", "："} {
		if i := strings.LastIndex(s, c); i >= 0 {
			s = s[i+len(c):]
		}
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}

// unitFamily is one independently collapsed unit vocabulary.
type unitFamily struct {
	name string
	re   *regexp.Regexp
}

func familyRe(units string) *regexp.Regexp {
	return regexp.MustCompile(
		`(\d+(?:\.\d+)?)\s*(` + units + `)\s*[+xX×]\s*(\d+(?:\.\d+)?)\s*(?:` + units + `)`)
}

var unitFamilies = []unitFamily{
	{"kg", familyRe(`키로그램|키로|[Kk][Gg]|키|[Kk]`)},
	{"g", familyRe(`그램|[Gg]`)},
	{"pack", familyRe(`팩`)},
	{"piece", familyRe(`개`)},
	{"bag", familyRe(`봉지|봉`)},
	{"tub", familyRe(`통`)},
}

// collapseArithmetic folds "1kg + 1kg" style binary expressions into a single
// summed value, one replacement per unit family per pass. Gram sums stay in
// grams; unit conversion happens at extraction.
func collapseArithmetic(s string) string {
	for _, fam := range unitFamilies {
		loc := fam.re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		a, errA := decimal.NewFromString(s[loc[2]:loc[3]])
		b, errB := decimal.NewFromString(s[loc[6]:loc[7]])
		if errA != nil || errB != nil {
			continue
		}
		unit := s[loc[4]:loc[5]]
		s = s[:loc[0]] + a.Add(b).String() + unit + s[loc[1]:]
	}
	return s
}

var multiSpaceRe = regexp.MustCompile(`\s+`)

func tidyText(s string) string {
	s = strings.ReplaceAll(s, ",", " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
