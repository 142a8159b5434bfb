package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderTextBracketedID(t *testing.T) {
	items := ParseOrderText("[RED-116] 紅磚 x 150")
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "RED-116", item.ProductID)
	assert.Equal(t, "紅磚", item.CleanName)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 150.0, *item.Quantity)
}

func TestParseOrderTextDimensionStripped(t *testing.T) {
	items := ParseOrderText("15x15cm 白磁磚 x 2000 片")
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "白磁磚", item.CleanName)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 2000.0, *item.Quantity)
	assert.Equal(t, "片", item.Unit)
}

func TestParseOrderTextOrdinalPrefix(t *testing.T) {
	items := ParseOrderText("1. 紅磚 x 100")
	require.Len(t, items, 1)
	assert.Equal(t, "紅磚", items[0].CleanName)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, 100.0, *items[0].Quantity)
}

func TestParseOrderTextUnknownQuantity(t *testing.T) {
	items := ParseOrderText("白水泥")
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Quantity)
	assert.Equal(t, "白水泥", items[0].CleanName)
}

func TestParseOrderTextBlankLinesOmitted(t *testing.T) {
	body := "紅磚 x 10\n\n   \n白磚 x 20\n"
	items := ParseOrderText(body)
	require.Len(t, items, 2)
	assert.Equal(t, "紅磚", items[0].CleanName)
	assert.Equal(t, "白磚", items[1].CleanName)
}

func TestParseOrderTextRedundantIDStripped(t *testing.T) {
	items := ParseOrderText("[RD116] RD-116 紅磚 x 50")
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "RD116", item.ProductID)
	assert.Equal(t, "紅磚", item.CleanName)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 50.0, *item.Quantity)
}

func TestParseOrderTextIDStripGuard(t *testing.T) {
	// The id IS the whole name; stripping would leave nothing, so the
	// pre-strip name is kept.
	items := ParseOrderText("[AB12] AB-12 x 3")
	require.Len(t, items, 1)
	assert.Equal(t, "AB-12", items[0].CleanName)
}

func TestParseOrderTextSeparatorVariants(t *testing.T) {
	cases := []struct {
		line string
		name string
		qty  float64
	}{
		{"紅磚×30", "紅磚", 30},
		{"紅磚*40", "紅磚", 40},
		{"紅磚 X 50", "紅磚", 50},
	}
	for _, tc := range cases {
		items := ParseOrderText(tc.line)
		require.Len(t, items, 1, tc.line)
		assert.Equal(t, tc.name, items[0].CleanName, tc.line)
		require.NotNil(t, items[0].Quantity, tc.line)
		assert.Equal(t, tc.qty, *items[0].Quantity, tc.line)
	}
}

func TestParseOrderTextCommaGroupedQuantity(t *testing.T) {
	items := ParseOrderText("磁磚 x 1,500")
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, 1500.0, *items[0].Quantity)
}

func TestParseOrderTextParentheticalNoise(t *testing.T) {
	items := ParseOrderText("紅磚(特價) x 10\n白磚（含運）x 20")
	require.Len(t, items, 2)
	assert.Equal(t, "紅磚", items[0].CleanName)
	assert.Equal(t, "白磚", items[1].CleanName)
}

func TestParseOrderTextUnitAndTrailingBracket(t *testing.T) {
	items := ParseOrderText("紅磚 x 100 包 [急件]")
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, 100.0, *items[0].Quantity)
	assert.Equal(t, "包", items[0].Unit)
}

func TestParseOrderTextSurroundingQuotes(t *testing.T) {
	items := ParseOrderText(`"紅磚 x 5"`)
	require.Len(t, items, 1)
	assert.Equal(t, "紅磚", items[0].CleanName)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, 5.0, *items[0].Quantity)
}

func TestParseOrderTextNeverEmptyName(t *testing.T) {
	lines := []string{
		"[X1]",
		"---",
		"xxx",
		"紅磚 x 10",
		"99",
	}
	for _, line := range lines {
		items := ParseOrderText(line)
		require.Len(t, items, 1, line)
		assert.NotEmpty(t, items[0].CleanName, "line %q must not produce an empty name", line)
		assert.Equal(t, line, items[0].OriginalLine, line)
	}
}

func TestParseOrderTextEmptyBody(t *testing.T) {
	assert.Empty(t, ParseOrderText(""))
	assert.Empty(t, ParseOrderText("\n\n"))
}
