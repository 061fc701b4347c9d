package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyShorthandAliasing(t *testing.T) {
	in := "<mm>launched v1; it worked; celebrate; High; Long</mm> and <tz>add login; 2h; High; auth; Todo</tz>"
	out := ApplyShorthandAliasing(in)
	assert.Contains(t, out, "<memory>")
	assert.Contains(t, out, "</memory>")
	assert.Contains(t, out, "<todozi>")
	assert.Contains(t, out, "</todozi>")
	assert.NotContains(t, out, "<mm>")
}

func TestFindAll_LocatesTagInTextualOrder(t *testing.T) {
	in := "before <todozi>add login; 2h; High; auth; Todo</todozi> after"
	matches := FindAll(in, FamilyTodozi)
	assert.Len(t, matches, 1)
	assert.Equal(t, "add login; 2h; High; auth; Todo", matches[0].Body)
}

func TestFindAllFamilies_SortsByStartOffset(t *testing.T) {
	in := "<idea>dark mode; Private; Medium</idea> then <todozi>add login; 2h; High; auth; Todo</todozi>"
	matches := FindAllFamilies(in)
	if assert.Len(t, matches, 2) {
		assert.Equal(t, FamilyIdea, matches[0].Family)
		assert.Equal(t, FamilyTodozi, matches[1].Family)
		assert.True(t, matches[0].Start < matches[1].Start)
	}
}

func TestSplitFields(t *testing.T) {
	got := SplitFields("add login; 2h ; High;auth ")
	assert.Equal(t, []string{"add login", "2h", "High", "auth"}, got)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"auth", "backend"}, SplitList("auth, backend,"))
	assert.Nil(t, SplitList("  "))
}

func TestFieldAt(t *testing.T) {
	fields := []string{"a", "b"}
	assert.Equal(t, "a", FieldAt(fields, 0))
	assert.Equal(t, "", FieldAt(fields, 5))
}
