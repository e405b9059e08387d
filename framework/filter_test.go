package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("^chromium/"))
	require.NoError(t, filters.MustNotMatch.Set("TC2"))

	assert.True(t, filters.AsFilter(TestID{Path: []string{"chromium", "TC1 happy path"}}))
	assert.False(t, filters.AsFilter(TestID{Path: []string{"chromium", "TC2 email format invalid"}}))
	assert.False(t, filters.AsFilter(TestID{Path: []string{"firefox", "TC1 happy path"}}))
	assert.Equal(t, `"^chromium/"`, filters.MustMatch.String())
	assert.Equal(t, []string{"TC2"}, filters.MustNotMatch.Strings())
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var list RegexList
	assert.Error(t, list.Set("("))
	assert.False(t, list.IsDefined())
}
