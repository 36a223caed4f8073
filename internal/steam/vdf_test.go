package steam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleACF = `"AppState"
{
	"appid"		"1903340"
	"Universe"		"1"
	"name"		"Clair Obscur: Expedition 33"
	"StateFlags"		"4"
	"installdir"		"Expedition 33"
	"LastUpdated"		"1745327000"
}
`

func TestACFValue(t *testing.T) {
	name, ok := ACFValue(sampleACF, "name")
	assert.True(t, ok)
	assert.Equal(t, "Clair Obscur: Expedition 33", name)

	installdir, ok := ACFValue(sampleACF, "installdir")
	assert.True(t, ok)
	assert.Equal(t, "Expedition 33", installdir)

	_, ok = ACFValue(sampleACF, "missing")
	assert.False(t, ok)
}

func TestACFValueCaseInsensitiveKey(t *testing.T) {
	got, ok := ACFValue(`	"Name"		"Half-Life"`, "name")
	assert.True(t, ok)
	assert.Equal(t, "Half-Life", got)
}

func TestACFValueIgnoresUnquotedLines(t *testing.T) {
	_, ok := ACFValue("name Half-Life", "name")
	assert.False(t, ok)
}

const sampleLibraryVDF = `"libraryfolders"
{
	"0"
	{
		"path"		"/home/alice/.local/share/Steam"
		"label"		""
	}
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
	}
	"2"
	{
		"path"		"/mnt/games/SteamLibrary"
	}
}
`

func TestLibraryRootsFromVDF(t *testing.T) {
	roots := LibraryRootsFromVDF(sampleLibraryVDF)
	assert.Equal(t, []string{"/home/alice/.local/share/Steam", "/mnt/games/SteamLibrary"}, roots)
}

func TestLibraryRootsFromVDFUnescapesBackslashes(t *testing.T) {
	roots := LibraryRootsFromVDF(`	"path"		"C:\\Games\\Steam"`)
	assert.Equal(t, []string{`C:\Games\Steam`}, roots)
}

func TestLibraryRootsFromVDFEmpty(t *testing.T) {
	assert.Empty(t, LibraryRootsFromVDF(""))
	assert.Empty(t, LibraryRootsFromVDF(`"label" "main"`))
}
