package main

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Category names are the Korean display values used on the packing list.
const (
	catStalk       = "마늘쫑"
	catMinced      = "다진마늘"
	catPeeled      = "깐마늘"
	catFeet        = "마늘닭발"
	catWhole       = "통마늘"
	catPowder      = "마늘가루"
	catCracker     = "마늘빠삭이"
	catOtherGarlic = "기타마늘"
	catOther       = "기타"
	catError       = "오류"
)

// parsedRecord is the per-row result of normalization + classification.
// Immutable once built.
type parsedRecord struct {
	OriginalText string
	ProductName  string
	Category     string
	Variety      string
	Size         string
	Processing   string
	Weight       decimal.Decimal
	Unit         string
	HasWeight    bool
	IsBulk       bool
}

var weightPatterns = []struct {
	re      *regexp.Regexp
	divisor int64
}{
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*키로(?:그램)?`), 1},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[Kk][Gg]`), 1},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:그램|[Gg])`), 1000},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:키|[Kk])`), 1},
}

// extractWeight pulls the first weight expression out of text. Every match is
// normalized to kilograms so downstream aggregation always compares like
// units; ok is false when no pattern matches (that is not an error).
func extractWeight(text string) (value decimal.Decimal, unit string, ok bool) {
	for _, p := range weightPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		if p.divisor != 1 {
			v = v.Div(decimal.NewFromInt(p.divisor))
		}
		return v, "KG", true
	}
	return decimal.Zero, "", false
}

// categoryRules are evaluated top to bottom; the first group with any
// matching keyword wins. The order is a contract: stalk before minced before
// peeled before the feet line, because the keyword sets overlap in free text.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{catStalk, []string{"마늘쫑", "마늘종", "쫑"}},
	{catMinced, []string{"다진마늘"}},
	{catPeeled, []string{"깐마늘"}},
	{catFeet, []string{"닭발"}},
	{catWhole, []string{"통마늘"}},
	{catPowder, []string{"마늘가루", "가루"}},
	{catCracker, []string{"빠삭이"}},
}

func classifyCategory(text string) string {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	if strings.Contains(text, "마늘") {
		return catOtherGarlic
	}
	return catOther
}

var varietyVocab = []struct {
	variety  string
	keywords []string
}{
	{varietyPremium, []string{"육쪽", "명품형"}},
	{varietyDefault, []string{"대서", "실속형"}},
}

const (
	varietyDefault = "대서"
	varietyPremium = "육쪽"
)

func extractVariety(text string) string {
	for _, v := range varietyVocab {
		for _, kw := range v.keywords {
			if strings.Contains(text, kw) {
				return v.variety
			}
		}
	}
	return ""
}

// sizeVocab is ordered longest-first so 특대 is not shadowed by 대.
var sizeVocab = []string{"특대", "대", "중", "소"}

func extractSize(text string) string {
	for _, s := range sizeVocab {
		if strings.Contains(text, s) {
			return s
		}
	}
	return ""
}

var processingVocab = []struct {
	state    string
	keywords []string
}{
	{"꼭지제거", []string{"꼭지제거", "꼭지 제거"}},
	{"통째로", []string{"통째로", "꼭지포함"}},
}

func extractProcessing(text string) string {
	for _, p := range processingVocab {
		for _, kw := range p.keywords {
			if strings.Contains(text, kw) {
				return p.state
			}
		}
	}
	return ""
}
