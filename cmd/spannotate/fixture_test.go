package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diamondFixture = `
function foo
block ENTRY entry
block A
block D
block EXIT exit

edge ENTRY A
edge A D 5000
edge A D 5000
edge D EXIT

stmt A a.c 10
stmt A a.c 11 outer.c:5
`

func TestParseFixtureBuildsGraph(t *testing.T) {
	fn, err := parseFixture(strings.NewReader(diamondFixture))
	require.NoError(t, err)
	assert.Equal(t, "foo", fn.name)
	assert.True(t, fn.graph.Entry().IsEntry())
	assert.True(t, fn.graph.Exit().IsExit())
	assert.Len(t, fn.graph.Blocks(), 2)
	assert.Equal(t, 4, fn.graph.NumBasicBlocks())

	a := fn.graph.Blocks()[0]
	require.Len(t, a.Statements(), 2)
	assert.Equal(t, "a.c", a.Statements()[0].Location().File)

	inlined := a.Statements()[1]
	require.NotNil(t, inlined.Block())
	require.NotNil(t, inlined.Block().Enclosing())
	assert.Equal(t, "outer.c", inlined.Block().Enclosing().Location().File)
}

func TestParseFixtureRejectsMissingEntryOrExit(t *testing.T) {
	_, err := parseFixture(strings.NewReader("function foo\nblock A\n"))
	assert.Error(t, err)
}

func TestParseFixtureRejectsUnknownDirective(t *testing.T) {
	_, err := parseFixture(strings.NewReader("bogus line\n"))
	assert.Error(t, err)
}
