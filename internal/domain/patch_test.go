package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestBlockPatch_Apply(t *testing.T) {
	tests := []struct {
		name    string
		typ     BlockType
		patch   BlockPatch
		reason  Reason
		changed bool
	}{
		{"content on text", BlockTypeText, BlockPatch{Content: ptr("olá")}, "", true},
		{"same content", BlockTypeText, BlockPatch{Content: ptr("")}, "", false},
		{"level on text", BlockTypeText, BlockPatch{Level: ptr(1)}, ReasonFieldNotApplicable, false},
		{"level out of range", BlockTypeHeading, BlockPatch{Level: ptr(4)}, ReasonInvalidValue, false},
		{"level on heading", BlockTypeHeading, BlockPatch{Level: ptr(1)}, "", true},
		{"bad align", BlockTypeQuote, BlockPatch{Align: ptr(Align("justify"))}, ReasonInvalidValue, false},
		{"caption on image", BlockTypeImage, BlockPatch{Caption: ptr("legenda")}, "", true},
		{"media on text", BlockTypeText, BlockPatch{MediaURL: ptr("x")}, ReasonFieldNotApplicable, false},
		{"content on divider", BlockTypeDivider, BlockPatch{Content: ptr("x")}, ReasonFieldNotApplicable, false},
		{"empty list items", BlockTypeList, BlockPatch{ListItems: []string{}}, ReasonMinItems, false},
		{"check items on list", BlockTypeList, BlockPatch{CheckItems: []CheckItem{{}}}, ReasonFieldNotApplicable, false},
		{"same check items", BlockTypeChecklist, BlockPatch{CheckItems: []CheckItem{{}}}, "", false},
		{"empty patch", BlockTypeVideo, BlockPatch{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlock(tt.typ)
			before := *b
			next, reason := tt.patch.Apply(b)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, tt.changed, next != b)
			assert.Equal(t, before, *b, "the source block is never modified")
		})
	}
}

func TestBlockPatch_CopiesItems(t *testing.T) {
	items := []string{"a", "b"}
	next, reason := BlockPatch{ListItems: items}.Apply(NewBlock(BlockTypeList))
	assert.Empty(t, reason)
	items[0] = "z"
	assert.Equal(t, []string{"a", "b"}, next.ListItems)
}

func TestBlockPatch_Empty(t *testing.T) {
	assert.True(t, BlockPatch{}.Empty())
	assert.False(t, BlockPatch{MediaURL: ptr("")}.Empty())
}
