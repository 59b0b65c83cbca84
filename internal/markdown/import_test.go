package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainings/internal/domain"
)

func types(s *domain.Section) []domain.BlockType {
	out := make([]domain.BlockType, len(s.Blocks))
	for i, b := range s.Blocks {
		out[i] = b.Type
	}
	return out
}

func TestImport_Empty(t *testing.T) {
	doc, err := Import(nil)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, domain.BootstrapSectionTitle, doc.Sections[0].Title)
	assert.Equal(t, []domain.BlockType{domain.BlockTypeText}, types(doc.Sections[0]))
}

func TestImport_Sections(t *testing.T) {
	src := `# Boas-vindas

Bem-vindo ao **programa**.

## Objetivos

- Conhecer a empresa
- Conhecer o time
  - RH

> Cultura come estratégia no café.

---

# Segurança

- [x] Ler a política
- [ ] Assinar o termo

![Mapa das saídas](https://cdn.example.com/mapa.png)
`
	doc, err := Import([]byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)

	first := doc.Sections[0]
	assert.Equal(t, "Boas-vindas", first.Title)
	assert.Equal(t, []domain.BlockType{
		domain.BlockTypeText,
		domain.BlockTypeHeading,
		domain.BlockTypeList,
		domain.BlockTypeQuote,
		domain.BlockTypeDivider,
	}, types(first))
	assert.Equal(t, "Bem-vindo ao programa.", first.Blocks[0].Content)
	assert.Equal(t, "Objetivos", first.Blocks[1].Content)
	assert.Equal(t, 2, first.Blocks[1].Level)
	assert.Equal(t, []string{"Conhecer a empresa", "Conhecer o time", "RH"}, first.Blocks[2].ListItems)
	assert.Equal(t, "Cultura come estratégia no café.", first.Blocks[3].Content)

	second := doc.Sections[1]
	assert.Equal(t, "Segurança", second.Title)
	require.Equal(t, []domain.BlockType{domain.BlockTypeChecklist, domain.BlockTypeImage}, types(second))
	assert.Equal(t, []domain.CheckItem{
		{Text: "Ler a política", Checked: true},
		{Text: "Assinar o termo"},
	}, second.Blocks[0].CheckItems)
	assert.Equal(t, "https://cdn.example.com/mapa.png", second.Blocks[1].MediaURL)
	assert.Equal(t, "Mapa das saídas", second.Blocks[1].Caption)
}

func TestImport_LeadingContentAndDeepHeadings(t *testing.T) {
	src := "Intro sem título.\n\n## Parte 1\n\n#### Detalhe\n\ntexto\n"
	doc, err := Import([]byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, domain.BootstrapSectionTitle, doc.Sections[0].Title)
	assert.Equal(t, "Parte 1", doc.Sections[1].Title)

	h := doc.Sections[1].Blocks[0]
	assert.Equal(t, domain.BlockTypeHeading, h.Type)
	assert.Equal(t, 3, h.Level)
}

func TestImport_NoSectionHeadings(t *testing.T) {
	doc, err := Import([]byte("### Só um subtítulo\n\nparágrafo\n"))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []domain.BlockType{domain.BlockTypeHeading, domain.BlockTypeText}, types(doc.Sections[0]))
	assert.Equal(t, 3, doc.Sections[0].Blocks[0].Level)
}

func TestImport_EmptySectionGetsTextBlock(t *testing.T) {
	doc, err := Import([]byte("# A\n\n# B\n\nconteúdo\n"))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, []domain.BlockType{domain.BlockTypeText}, types(doc.Sections[0]))
	assert.Empty(t, doc.Sections[0].Blocks[0].Content)
}
