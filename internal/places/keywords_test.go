package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesCuisine(t *testing.T) {
	tests := []struct {
		name    string
		spot    string
		tags    []string
		cuisine string
		want    bool
	}{
		{"empty cuisine matches anything", "Coffee Bean", nil, "", true},
		{"synonym hit", "Trattoria Roma", nil, "italian", true},
		{"tag hit", "Corner Cafe", []string{"pizza", "wifi"}, "italian", true},
		{"case insensitive", "PATISSERIE CLAIRE", nil, "french", true},
		{"no hit", "Burger Spot", []string{"grill"}, "georgian", false},
		{"unknown label falls back to substring", "Ethiopian Roasters", nil, "ethiopian", true},
		{"unknown label miss", "Corner Cafe", nil, "ethiopian", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesCuisine(spotText(tt.spot, tt.tags), tt.cuisine))
		})
	}
}

func TestMatchesDietary(t *testing.T) {
	tests := []struct {
		name    string
		spot    string
		tags    []string
		dietary []string
		want    bool
	}{
		{"no constraints", "Coffee Bean", nil, nil, true},
		{"single hit", "Green Cup", []string{"vegan"}, []string{"vegan"}, true},
		{"synonym hit", "Green Cup", []string{"plant-based"}, []string{"vegan"}, true},
		{"all must match", "Green Cup", []string{"vegan"}, []string{"vegan", "gluten-free"}, false},
		{"all match", "Green Cup", []string{"vegan", "gluten free"}, []string{"vegan", "gluten-free"}, true},
		{"whole words only", "Veganize Bar", nil, []string{"vegan"}, false},
		{"blank entries are ignored", "Coffee Bean", nil, []string{" "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesDietary(spotText(tt.spot, tt.tags), tt.dietary))
		})
	}
}
