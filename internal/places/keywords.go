package places

import (
	"strings"

	a "github.com/petar-dambovaliev/aho-corasick"
)

// Keyword matchers used to screen upstream results whose filters cannot be
// trusted. One matcher per known label, built once; unknown labels fall back
// to a plain substring check.
var (
	cuisineMatcherBuilder = a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
	})

	cuisineMatchers = map[string]a.AhoCorasick{
		"italian":  cuisineMatcherBuilder.Build([]string{"italian", "pizza", "pasta", "trattoria", "espresso"}),
		"french":   cuisineMatcherBuilder.Build([]string{"french", "croissant", "patisserie", "boulangerie", "crepe"}),
		"georgian": cuisineMatcherBuilder.Build([]string{"georgian", "khachapuri", "khinkali"}),
		"russian":  cuisineMatcherBuilder.Build([]string{"russian", "pelmeni", "blini", "pirozhki"}),
		"asian":    cuisineMatcherBuilder.Build([]string{"asian", "ramen", "sushi", "noodle", "dumpling", "matcha"}),
	}

	dietaryMatcherBuilder = a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
	})

	dietaryMatchers = map[string]a.AhoCorasick{
		"vegan":       dietaryMatcherBuilder.Build([]string{"vegan", "plant-based", "plant based"}),
		"vegetarian":  dietaryMatcherBuilder.Build([]string{"vegetarian", "veggie", "vegan"}),
		"gluten-free": dietaryMatcherBuilder.Build([]string{"gluten-free", "gluten free", "celiac"}),
		"halal":       dietaryMatcherBuilder.Build([]string{"halal"}),
		"kosher":      dietaryMatcherBuilder.Build([]string{"kosher"}),
	}
)

// spotText joins the fields the keyword matchers scan.
func spotText(name string, tags []string) string {
	parts := make([]string, 0, len(tags)+1)
	parts = append(parts, name)
	parts = append(parts, tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesCuisine(text, cuisine string) bool {
	if cuisine == "" {
		return true
	}
	label := strings.ToLower(strings.TrimSpace(cuisine))
	if matcher, ok := cuisineMatchers[label]; ok {
		iter := matcher.Iter(text)
		return iter.Next() != nil
	}
	return strings.Contains(text, label)
}

// matchesDietary requires every dietary constraint to be satisfied.
func matchesDietary(text string, dietary []string) bool {
	for _, d := range dietary {
		label := strings.ToLower(strings.TrimSpace(d))
		if label == "" {
			continue
		}
		if matcher, ok := dietaryMatchers[label]; ok {
			iter := matcher.Iter(text)
			if iter.Next() == nil {
				return false
			}
			continue
		}
		if !strings.Contains(text, label) {
			return false
		}
	}
	return true
}
