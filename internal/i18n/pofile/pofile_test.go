package pofile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `msgid ""
msgstr ""
"Project-Id-Version: site\n"
"Language: de\n"

# reviewed by anna
#: pages/index/string_table.json
msgid "greeting"
msgstr "Hallo"

#, fuzzy
#| msgid "farewell old"
msgid "farewell"
msgstr "Tschüss"

msgid "multi"
msgstr ""
"line one\n"
"line \"two\""

msgctxt "menu"
msgid "open"
msgstr "Öffnen"

msgid "apple"
msgid_plural "apples"
msgstr[0] "Apfel"
msgstr[1] "Äpfel"

#~ msgid "gone"
#~ msgstr "weg"
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "de", f.HeaderField("language"))
	require.Len(t, f.Entries, 6)
	assert.Equal(t, 5, f.Len())

	greeting := f.Lookup("greeting")
	require.NotNil(t, greeting)
	assert.Equal(t, "Hallo", greeting.Text)
	assert.Equal(t, []string{"reviewed by anna"}, greeting.Comments)
	assert.Equal(t, []string{"pages/index/string_table.json"}, greeting.References)

	farewell := f.Lookup("farewell")
	require.NotNil(t, farewell)
	assert.Equal(t, []string{"fuzzy"}, farewell.Flags)
	assert.Equal(t, "farewell old", farewell.Previous)

	assert.Equal(t, "line one\nline \"two\"", f.Lookup("multi").Text)
	assert.Nil(t, f.Lookup("open"), "context entries are not plain lookups")
	assert.Equal(t, map[int]string{0: "Apfel", 1: "Äpfel"}, f.Lookup("apple").TextPlural)
	assert.Nil(t, f.Lookup("gone"))
}

func TestIDs_SkipsContextAndObsolete(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"greeting", "farewell", "multi", "apple"}, f.IDs())
}

func TestWrite_RoundTripIsStable(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	first, err := f.Bytes()
	require.NoError(t, err)

	again, err := Parse(strings.NewReader(string(first)))
	require.NoError(t, err)
	second, err := again.Bytes()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, sample, string(first))
}

func TestAppend_KeepsExistingOrder(t *testing.T) {
	f := New("site", "en")
	f.Append("b", "B")
	f.Append("a", "A")

	data, err := f.Bytes()
	require.NoError(t, err)

	parsed, err := Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 2)
	assert.Equal(t, "b", parsed.Entries[0].ID)
	assert.Equal(t, "a", parsed.Entries[1].ID)
	assert.Equal(t, "en", parsed.HeaderField("Language"))
}

func TestParse_EntriesWithoutBlankSeparators(t *testing.T) {
	const packed = `msgid "greeting"
msgstr "Hallo"
#~ msgid "old"
#~ msgstr "Alt"
#~ msgid "older"
#~ msgstr "Älter"
msgid "farewell"
msgstr "Tschüss"
msgid "again"
msgstr "Nochmal"
`
	f, err := Parse(strings.NewReader(packed))
	require.NoError(t, err)
	require.Len(t, f.Entries, 5)

	greeting := f.Lookup("greeting")
	require.NotNil(t, greeting)
	assert.Equal(t, "Hallo", greeting.Text)
	assert.False(t, greeting.Obsolete)

	assert.True(t, f.Entries[1].Obsolete)
	assert.Equal(t, "old", f.Entries[1].ID)
	assert.Equal(t, "Alt", f.Entries[1].Text)
	assert.True(t, f.Entries[2].Obsolete)
	assert.Equal(t, "older", f.Entries[2].ID)

	assert.Equal(t, []string{"greeting", "farewell", "again"}, f.IDs())
	assert.Equal(t, "Nochmal", f.Lookup("again").Text)
}
