package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyBasic(t *testing.T) {
	assert.Equal(t, "test-u", Slugify("Test U"))
	assert.Equal(t, "harvard-university", Slugify("Harvard University"))
	assert.Equal(t, "mit", Slugify("MIT"))
}

func TestSlugifySpecialCharacters(t *testing.T) {
	assert.Equal(t, "st-john-s-college", Slugify("St. John's College"))
	assert.Equal(t, "a-b", Slugify("A  --  B"))
	assert.Equal(t, "oxford-uk", Slugify("Oxford (UK)"))
	// non-ASCII letters are dropped, not transliterated
	assert.Equal(t, "cole-42", Slugify("École 42"))
}

func TestSlugifyEdges(t *testing.T) {
	// never a leading or trailing hyphen, never doubled hyphens
	for _, in := range []string{"  Oxford  ", "--Oxford--", "!!!Oxford!!!", "Oxford (UK)"} {
		slug := Slugify(in)
		assert.False(t, strings.HasPrefix(slug, "-"), "input %q", in)
		assert.False(t, strings.HasSuffix(slug, "-"), "input %q", in)
		assert.NotContains(t, slug, "--", "input %q", in)
	}
}

func TestSlugifyCharset(t *testing.T) {
	inputs := []string{
		"Test U", "University of São Paulo", "IIT Delhi!", "a@b#c$d",
		"   ", "ÀÉÎÕÜ University", "123 456",
	}
	for _, in := range inputs {
		for _, r := range Slugify(in) {
			valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			assert.True(t, valid, "slug of %q contains %q", in, r)
		}
	}
}

func TestSlugifyEmptyResult(t *testing.T) {
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}
