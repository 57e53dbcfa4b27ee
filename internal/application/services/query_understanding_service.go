package services

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Intent classifies what a shopper is trying to do with a query.
type Intent string

const (
	IntentPriceConscious Intent = "price_conscious"
	IntentPremiumFocused Intent = "premium_focused"
	IntentComparison     Intent = "comparison"
	IntentPurchase       Intent = "purchase_intent"
	IntentInformation    Intent = "information_seeking"
	IntentGift           Intent = "gift_seeking"
	IntentGeneral        Intent = "general_search"
)

// PriceRange bounds are inclusive; a nil bound means unbounded on that side.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether a price satisfies the range.
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// Empty reports whether no bound was extracted.
func (r PriceRange) Empty() bool {
	return r.Min == nil && r.Max == nil
}

// ParsedQuery holds the structured interpretation of a free-text search query.
type ParsedQuery struct {
	OriginalQuery string            `json:"original_query"`
	CleanQuery    string            `json:"clean_query"`
	Intent        Intent            `json:"intent"`
	Categories    []string          `json:"categories,omitempty"`
	Brands        []string          `json:"brands,omitempty"`
	PriceRange    PriceRange        `json:"price_range"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// HasCategory reports whether the category was detected (case-insensitive).
func (q *ParsedQuery) HasCategory(category string) bool {
	return containsFold(q.Categories, category)
}

// HasBrand reports whether the brand was detected (case-insensitive).
func (q *ParsedQuery) HasBrand(brand string) bool {
	return containsFold(q.Brands, brand)
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// Vocabulary is the static matching configuration: category and brand keyword
// tables plus attribute value lists. Matching is deliberately plain substring
// matching, so extending coverage means extending these tables, not the
// algorithm.
type Vocabulary struct {
	Categories map[string][]string `json:"categories"` // category -> keywords
	Synonyms   map[string][]string `json:"synonyms"`   // keyword -> synonyms
	Brands     map[string][]string `json:"brands"`     // brand -> keywords
	Colors     []string            `json:"colors"`
	Sizes      []string            `json:"sizes"`
	Materials  []string            `json:"materials"`
}

// DefaultVocabulary returns the built-in storefront vocabulary.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Categories: map[string][]string{
			"electronics": {"electronics", "phone", "smartphone", "laptop", "computer", "headphones", "earbuds", "speaker", "camera", "tv", "television", "tablet", "smartwatch", "console", "monitor"},
			"fashion":     {"fashion", "clothing", "clothes", "shirt", "tshirt", "jeans", "dress", "shoes", "sneakers", "jacket", "hoodie", "skirt", "bag"},
			"home":        {"home", "furniture", "kitchen", "sofa", "table", "chair", "lamp", "bedding", "cookware", "decor", "vacuum", "mattress"},
			"sports":      {"sports", "fitness", "gym", "running", "yoga", "bike", "bicycle", "dumbbell", "tent", "outdoor", "treadmill"},
			"books":       {"book", "books", "novel", "cookbook", "textbook", "comic", "magazine"},
		},
		Synonyms: map[string][]string{
			"phone":      {"iphone", "android", "mobile", "cell phone"},
			"laptop":     {"notebook", "macbook", "chromebook", "ultrabook"},
			"headphones": {"headset", "earphones", "airpods"},
			"tv":         {"oled", "smart tv"},
			"shoes":      {"footwear", "trainers", "boots", "heels"},
			"jeans":      {"denim"},
			"sofa":       {"couch", "sectional"},
			"bike":       {"cycling"},
			"novel":      {"fiction", "paperback", "hardcover"},
		},
		Brands: map[string][]string{
			"apple":   {"apple", "iphone", "ipad", "macbook", "airpods", "imac"},
			"samsung": {"samsung", "galaxy"},
			"sony":    {"sony", "playstation", "bravia"},
			"bose":    {"bose"},
			"dell":    {"dell", "xps"},
			"nike":    {"nike", "air jordan", "jordan"},
			"adidas":  {"adidas"},
			"levis":   {"levis", "levi's", "levi"},
			"ikea":    {"ikea"},
			"penguin": {"penguin"},
		},
		Colors:    []string{"black", "white", "red", "blue", "green", "yellow", "pink", "purple", "gray", "grey", "silver", "gold", "brown", "navy"},
		Sizes:     []string{"xs", "small", "medium", "large", "xl", "xxl"},
		Materials: []string{"leather", "cotton", "wool", "silk", "linen", "denim", "suede", "canvas", "metal", "steel", "aluminum", "plastic", "wood", "glass", "ceramic", "bamboo"},
	}
}

// LoadVocabulary reads a vocabulary from a JSON config file, so deployments
// can extend category and brand coverage without a rebuild.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vocab Vocabulary
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, err
	}
	return &vocab, nil
}

var nonWordOrSpace = regexp.MustCompile(`[^\w\s]`)

// intentPatterns are tested in order against the lowercased raw query; the
// first match wins, so earlier entries take precedence over later ones.
var intentPatterns = []struct {
	intent Intent
	re     *regexp.Regexp
}{
	{IntentPriceConscious, regexp.MustCompile(`\b(cheap|cheapest|budget|affordable|inexpensive|bargain|deal|under|below|less than)\b`)},
	{IntentPremiumFocused, regexp.MustCompile(`\b(premium|luxury|luxurious|high[\s-]?end|flagship|top of the line|best quality)\b`)},
	{IntentComparison, regexp.MustCompile(`\b(compare|comparison|vs|versus|difference between|better than)\b`)},
	{IntentPurchase, regexp.MustCompile(`\b(buy|purchase|order|shop for|shopping for|add to cart|need)\b`)},
	{IntentInformation, regexp.MustCompile(`\b(what|how|why|which|review|reviews|spec|specs|specification|tell me|info|information|about)\b`)},
	{IntentGift, regexp.MustCompile(`\b(gift|present|for him|for her|for my|birthday|anniversary)\b`)},
}

// Price patterns run against the original query, not the cleaned one, because
// cleaning strips "$". Every match is visited and overwrites the previous
// bound, so the last occurrence of each pattern type wins.
var (
	priceBetweenRE = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)\s*-\s*\$?(\d+(?:\.\d+)?)`)
	priceMaxRE     = regexp.MustCompile(`(?:under|below|less than|cheaper than|at most|up to)\s*\$?(\d+(?:\.\d+)?)`)
	priceMinRE     = regexp.MustCompile(`(?:over|above|more than|at least|starting at)\s*\$?(\d+(?:\.\d+)?)`)
)

// QueryUnderstandingService converts free text into a ParsedQuery. It holds
// only read-only vocabulary tables, so a single instance is safe for
// concurrent use.
type QueryUnderstandingService struct {
	vocab         *Vocabulary
	categoryOrder []string
	brandOrder    []string
}

// NewQueryUnderstandingService creates a parser over the given vocabulary.
// A nil vocabulary falls back to the built-in one.
func NewQueryUnderstandingService(vocab *Vocabulary) *QueryUnderstandingService {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	svc := &QueryUnderstandingService{vocab: vocab}
	for c := range vocab.Categories {
		svc.categoryOrder = append(svc.categoryOrder, c)
	}
	sort.Strings(svc.categoryOrder)
	for b := range vocab.Brands {
		svc.brandOrder = append(svc.brandOrder, b)
	}
	sort.Strings(svc.brandOrder)
	return svc
}

// Vocabulary returns the parser's vocabulary tables.
func (s *QueryUnderstandingService) Vocabulary() *Vocabulary {
	return s.vocab
}

// CategoryOrder returns the category names in their deterministic match order.
func (s *QueryUnderstandingService) CategoryOrder() []string {
	return s.categoryOrder
}

// Parse runs the full understanding pipeline. It never fails: fields that
// nothing matched stay empty.
func (s *QueryUnderstandingService) Parse(query string) *ParsedQuery {
	clean := Clean(query)
	parsed := &ParsedQuery{
		OriginalQuery: query,
		CleanQuery:    clean,
		Intent:        IntentGeneral,
	}
	if clean == "" {
		return parsed
	}

	parsed.Intent = s.detectIntent(query)
	parsed.Categories = s.extractCategories(clean)
	parsed.Brands = s.extractBrands(clean)
	parsed.PriceRange = s.extractPriceRange(query)
	parsed.Attributes = s.extractAttributes(clean)
	return parsed
}

// Clean lowercases, strips punctuation, collapses whitespace and trims.
func Clean(query string) string {
	q := strings.ToLower(query)
	q = nonWordOrSpace.ReplaceAllString(q, "")
	return strings.Join(strings.Fields(q), " ")
}

func (s *QueryUnderstandingService) detectIntent(query string) Intent {
	q := strings.ToLower(query)
	for _, p := range intentPatterns {
		if p.re.MatchString(q) {
			return p.intent
		}
	}
	return IntentGeneral
}

func (s *QueryUnderstandingService) extractCategories(clean string) []string {
	var categories []string
	for _, category := range s.categoryOrder {
		if s.matchesAnyKeyword(clean, s.vocab.Categories[category]) {
			categories = append(categories, category)
		}
	}
	return categories
}

func (s *QueryUnderstandingService) extractBrands(clean string) []string {
	var brands []string
	for _, brand := range s.brandOrder {
		if s.matchesAnyKeyword(clean, s.vocab.Brands[brand]) {
			brands = append(brands, brand)
		}
	}
	return brands
}

func (s *QueryUnderstandingService) matchesAnyKeyword(clean string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(clean, kw) {
			return true
		}
		for _, syn := range s.vocab.Synonyms[kw] {
			if strings.Contains(clean, syn) {
				return true
			}
		}
	}
	return false
}

func (s *QueryUnderstandingService) extractPriceRange(original string) PriceRange {
	q := strings.ToLower(original)
	var pr PriceRange

	for _, m := range priceBetweenRE.FindAllStringSubmatch(q, -1) {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pr.Min = &lo
		pr.Max = &hi
	}
	for _, m := range priceMaxRE.FindAllStringSubmatch(q, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			pr.Max = &v
		}
	}
	for _, m := range priceMinRE.FindAllStringSubmatch(q, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			pr.Min = &v
		}
	}
	return pr
}

// extractAttributes walks each value list in declared order and overwrites on
// every match, so the last matching value per attribute class wins.
func (s *QueryUnderstandingService) extractAttributes(clean string) map[string]string {
	attrs := make(map[string]string)
	for _, color := range s.vocab.Colors {
		if strings.Contains(clean, color) {
			attrs["color"] = color
		}
	}
	for _, size := range s.vocab.Sizes {
		if strings.Contains(clean, size) {
			attrs["size"] = size
		}
	}
	for _, material := range s.vocab.Materials {
		if strings.Contains(clean, material) {
			attrs["material"] = material
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
