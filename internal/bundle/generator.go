package bundle

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/prabscode/farmbasket-storefront/internal/catalog"
)

// Grouping reasons, in the fixed strategy order the generator runs them.
const (
	ReasonSameProduct  = "Same Product"
	ReasonSameFarmer   = "Same Farmer"
	ReasonSameCategory = "Same Category"
	ReasonSameLocation = "Same Location"
)

const (
	maxBundleItems = 3
	minDiscount    = 0.05
	discountSpread = 0.15
)

// Generator synthesizes promotional bundles from a flattened catalog.
// Composition and discounts are randomized per run through the injected rng;
// pass nil for a time-seeded source.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

type strategy struct {
	slug    string
	reason  string
	keyOf   func(catalog.Entry) string
	title   func(key string, members []catalog.Entry) string
	shuffle bool
}

var strategies = []strategy{
	{
		slug:   "name",
		reason: ReasonSameProduct,
		keyOf:  func(e catalog.Entry) string { return e.Name },
		title:  func(key string, _ []catalog.Entry) string { return key + " Bundle" },
	},
	{
		slug:   "farmer",
		reason: ReasonSameFarmer,
		keyOf:  func(e catalog.Entry) string { return e.FarmerID },
		title: func(key string, members []catalog.Entry) string {
			name := members[0].FarmerName
			if name == "" {
				name = key
			}
			return name + "'s Special Bundle"
		},
		shuffle: true,
	},
	{
		slug:    "category",
		reason:  ReasonSameCategory,
		keyOf:   func(e catalog.Entry) string { return e.Category },
		title:   func(key string, _ []catalog.Entry) string { return key + " Collection" },
		shuffle: true,
	},
	{
		slug:    "location",
		reason:  ReasonSameLocation,
		keyOf:   func(e catalog.Entry) string { return e.Location },
		title:   func(key string, _ []catalog.Entry) string { return key + " Local Bundle" },
		shuffle: true,
	},
}

// Generate runs the four grouping strategies in fixed order and emits one
// bundle per group of two or more entries. The strategy order pins ordinal
// numbering across a run; item selection inside the shuffled strategies does
// not need to be reproducible.
func (g *Generator) Generate(entries []catalog.Entry) []Bundle {
	var bundles []Bundle
	ordinal := 0
	for _, strat := range strategies {
		keys, groups := groupBy(entries, strat.keyOf)
		for _, key := range keys {
			members := groups[key]
			if len(members) < 2 {
				continue
			}
			items := strat.pick(g.rng, members)
			b := Bundle{
				ID:       fmt.Sprintf("bundle-%s-%s-%d", strat.slug, slug(key), ordinal),
				Name:     strat.title(key, members),
				Items:    items,
				Reason:   strat.reason,
				Location: bundleLocation(items),
			}
			discount := minDiscount + g.rng.Float64()*discountSpread
			total := b.ItemsTotal()
			b.Price = math.Round(total * (1 - discount))
			// whole-unit rounding must not erase the discount
			if total > 0 && b.Price >= total {
				b.Price = math.Ceil(total) - 1
			}
			bundles = append(bundles, b)
			ordinal++
		}
	}
	return bundles
}

// pick caps every bundle at three items: the name strategy keeps catalog
// order, the rest draw a shuffled subset.
func (s strategy) pick(rng *rand.Rand, members []catalog.Entry) []catalog.Entry {
	picked := make([]catalog.Entry, len(members))
	copy(picked, members)
	if s.shuffle {
		rng.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
	}
	if len(picked) > maxBundleItems {
		picked = picked[:maxBundleItems]
	}
	return picked
}

// groupBy clusters entries by key, preserving first-seen key order so group
// iteration is deterministic. Entries with an empty key are excluded from
// this dimension only.
func groupBy(entries []catalog.Entry, keyOf func(catalog.Entry) string) ([]string, map[string][]catalog.Entry) {
	var keys []string
	groups := make(map[string][]catalog.Entry)
	for _, e := range entries {
		key := keyOf(e)
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], e)
	}
	return keys, groups
}

func bundleLocation(items []catalog.Entry) string {
	for _, item := range items {
		if item.Location != "" {
			return item.Location
		}
	}
	return "Various"
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
