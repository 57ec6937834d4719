package commands

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateKeepsRunesWhole(t *testing.T) {
	route := "Kigali → Dar es Salaam"

	got := truncate(route, 12)
	assert.True(t, utf8.ValidString(got), "cutting mid-rune would print mojibake")
	assert.Equal(t, "Kigali → ...", got)
	assert.Len(t, []rune(got), 12)

	assert.Equal(t, route, truncate(route, 40), "short cells pass through untouched")
	assert.Equal(t, "Ki", truncate(route, 2))
}
