package classify

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Result is the taxonomy assigned to a line item.
type Result struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Classifier evaluates a fixed rule table. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New creates a classifier over rules. A nil or empty slice selects the
// built-in table.
func New(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Rules returns the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify resolves the category for one item. Empty fields are ignored.
func (c *Classifier) Classify(title, productType, variantTitle string) Result {
	haystack := SearchString(title, productType, variantTitle)

	if containsAny(haystack, bundleKeywords) {
		return Result{Category: CategoryBundle, Subcategory: bundleSubcategory(haystack)}
	}

	for _, rule := range c.rules {
		if containsAny(haystack, rule.Keywords) {
			return Result{Category: rule.Category, Subcategory: rule.Subcategory}
		}
	}

	if productType != "" {
		return Result{Category: CategoryOther, Subcategory: productType}
	}
	return Result{Category: CategoryOther, Subcategory: SubcategoryUnknown}
}

// Classify runs the built-in rule table.
func Classify(title, productType, variantTitle string) Result {
	return defaultClassifier.Classify(title, productType, variantTitle)
}

var defaultClassifier = New(nil)

// SearchString joins the non-empty fields with single spaces, NFC
// normalised and lower-cased.
func SearchString(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		parts = append(parts, f)
	}
	joined := norm.NFC.String(strings.Join(parts, " "))
	return cases.Lower(language.Und).String(joined)
}

func bundleSubcategory(haystack string) string {
	switch {
	case containsAny(haystack, bundleMass):
		return SubcategoryMass
	case containsAny(haystack, bundleDefinition):
		return SubcategoryDefine
	case containsAny(haystack, bundleMultipack):
		return SubcategorySavings
	default:
		return SubcategorySavings
	}
}

func containsAny(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}

// ErrNoRules is returned when a rule file defines no rules.
var ErrNoRules = errors.New("rule file defines no rules")

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads an ordered rule table from a YAML file of the form:
//
//	rules:
//	  - category: Proteínas
//	    subcategory: Caseína (Casein)
//	    keywords: [casein, caseína]
//
// Keywords are lower-cased and NFC normalised on load so they match the
// search string.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a YAML rule table. See LoadRules.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, ErrNoRules
	}

	for i, r := range f.Rules {
		if r.Category == "" || r.Subcategory == "" {
			return nil, fmt.Errorf("parse rules: rule %d: category and subcategory are required", i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("parse rules: rule %d (%s): no keywords", i, r.Subcategory)
		}
		for j, k := range r.Keywords {
			f.Rules[i].Keywords[j] = cases.Lower(language.Und).String(norm.NFC.String(k))
		}
	}
	return f.Rules, nil
}
