package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, NordName, Normalize("  Nord "))
	assert.Equal(t, CatppuccinLatteName, Normalize("CATPPUCCIN-LATTE"))
	assert.Empty(t, Normalize("narna"))
	assert.Empty(t, Normalize(""))
}

func TestGetKnownTheme(t *testing.T) {
	th := Get(GruvboxLightName)
	require.NotNil(t, th)
	assert.Equal(t, GruvboxLightName, th.Name)
	assert.True(t, th.Light)
	assert.Equal(t, "Gruvbox Light", th.SyntaxTheme)

	th.Accent = "#000000"
	assert.NotEqual(t, th.Accent, Get(GruvboxLightName).Accent, "themes are handed out as copies")
}

func TestGetUnknownFallsBack(t *testing.T) {
	th := Get("does-not-exist")
	require.NotNil(t, th)
	assert.Contains(t, []string{DraculaName, DraculaLightName}, th.Name)
}

func TestEveryThemeIsComplete(t *testing.T) {
	names := Names()
	assert.IsIncreasing(t, names)
	for _, name := range names {
		th := Get(name)
		assert.Equal(t, name, th.Name)
		for role, c := range map[string]string{
			"accent": string(th.Accent), "selection": string(th.Selection), "text": string(th.Text),
			"sha": string(th.Sha), "added": string(th.Added), "deleted": string(th.Deleted),
			"modified": string(th.Modified), "renamed": string(th.Renamed), "muted": string(th.Muted),
		} {
			assert.NotEmpty(t, c, "%s: %s", name, role)
		}
		assert.NotEmpty(t, th.SyntaxTheme, name)
	}
}
