package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGPL(t *testing.T) {
	src := `GIMP Palette
Name: plasma
Columns: 2
# comment
 13   8 135	deep
240 249  33	yellow
1 2
300 0 0 bad
`
	p, err := ParseGPL(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "plasma", p.Name)
	assert.Equal(t, []RGB{{13, 8, 135}, {240, 249, 33}}, p.Colors)
}

func TestParseGPLEmpty(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{200, 100, 50}, p.Lookup(2))
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))
	assert.Equal(t, "#c86432", p.Lookup(1).Hex())
}

func TestNewDefaultsPalette(t *testing.T) {
	th := New(nil)
	assert.Equal(t, "ink", th.Palette.Name)
	assert.Equal(t, "#1b1b1f", string(th.BG()))
}
