package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_Empty(t *testing.T) {
	for _, payload := range []string{"", `{}`, `{"sections":[]}`} {
		doc, err := ParseDocument([]byte(payload))
		require.NoError(t, err)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, BootstrapSectionTitle, doc.Sections[0].Title)
		require.Len(t, doc.Sections[0].Blocks, 1)
		assert.Equal(t, BlockTypeText, doc.Sections[0].Blocks[0].Type)
	}
}

func TestParseDocument_FillsDefaults(t *testing.T) {
	payload := `{"sections":[
		{"id":"s1","title":"","blocks":[
			{"id":"b1","type":"heading","content":"Boas-vindas","level":9},
			{"type":"list"},
			{"id":"b1","type":"checklist"}
		]},
		{"id":"s1","title":"Segunda","blocks":[]}
	]}`

	doc, err := ParseDocument([]byte(payload))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)

	first := doc.Sections[0]
	assert.Equal(t, "s1", first.ID)
	assert.Equal(t, DefaultSectionTitle(0), first.Title)
	require.Len(t, first.Blocks, 3)

	heading := first.Blocks[0]
	assert.Equal(t, "b1", heading.ID)
	assert.Equal(t, DefaultHeadingLevel, heading.Level)
	assert.Equal(t, AlignLeft, heading.Align)

	list := first.Blocks[1]
	assert.NotEmpty(t, list.ID)
	assert.Equal(t, []string{""}, list.ListItems)

	check := first.Blocks[2]
	assert.NotEqual(t, "b1", check.ID, "duplicate ids are reassigned")
	assert.Equal(t, []CheckItem{{}}, check.CheckItems)

	second := doc.Sections[1]
	assert.NotEqual(t, "s1", second.ID)
	assert.Equal(t, "Segunda", second.Title)
	require.Len(t, second.Blocks, 1, "empty sections get one text block")
}

func TestParseDocument_Errors(t *testing.T) {
	_, err := ParseDocument([]byte(`{"sections":[{"blocks":[{"type":"table"}]}]}`))
	assert.ErrorContains(t, err, "unknown block type")

	_, err = ParseDocument([]byte(`{not json`))
	assert.ErrorContains(t, err, "decode document")
}

func TestDocument_MarshalRoundTrip(t *testing.T) {
	doc := NewDocument()
	img := NewBlock(BlockTypeImage)
	img.MediaURL = "https://cdn.example.com/a.png"
	img.Caption = "Diagrama"
	doc.Sections[0].Blocks = append(doc.Sections[0].Blocks, img)

	data, err := doc.Marshal()
	require.NoError(t, err)

	back, err := ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestSection_DuplicateIsDeep(t *testing.T) {
	sec := NewSection("Módulo")
	list := NewBlock(BlockTypeList)
	list.ListItems = []string{"a"}
	sec.Blocks = append(sec.Blocks, list)

	dup := sec.Duplicate()
	assert.NotEqual(t, sec.ID, dup.ID)
	assert.Equal(t, "Módulo (cópia)", dup.Title)
	require.Len(t, dup.Blocks, 2)
	for i := range dup.Blocks {
		assert.NotEqual(t, sec.Blocks[i].ID, dup.Blocks[i].ID)
		assert.Equal(t, sec.Blocks[i].Type, dup.Blocks[i].Type)
	}
	dup.Blocks[1].ListItems[0] = "changed"
	assert.Equal(t, "a", sec.Blocks[1].ListItems[0])
}
