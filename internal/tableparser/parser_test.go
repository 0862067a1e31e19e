package tableparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/quotegen/internal/types"
)

func TestParse_MultiSpaceRow(t *testing.T) {
	items := Parse("設計  標準  LOGO設計  5000  1  件")

	require.Len(t, items, 1)
	assert.Equal(t, types.LineItem{
		Category: "設計",
		Item:     "標準",
		Content:  "LOGO設計",
		Price:    5000,
		Count:    1,
		Unit:     "件",
		Amount:   5000,
	}, items[0])
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t\n"} {
		items := Parse(in)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}
}

func TestParse_HeaderRowSkipped(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"tab header", "類別\t項目\t內容\t單價\t數量\n設計\tLOGO\t草稿\t100\t2"},
		{"space header", "類別  項目  內容  單價  數量\n設計  LOGO  草稿  100  2"},
		{"partial header", "備註  金額\n設計  LOGO  草稿  100  2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Parse(tt.input)
			require.Len(t, items, 1)
			assert.Equal(t, "設計", items[0].Category)
			assert.Equal(t, 200.0, items[0].Amount)
		})
	}
}

func TestParse_FirstLineWithoutLabelsIsData(t *testing.T) {
	items := Parse("設計\tLOGO\t草稿\t100\t2\n開發\tAPI\t串接\t300\t1")
	require.Len(t, items, 2)
	assert.Equal(t, "LOGO", items[0].Item)
	assert.Equal(t, "API", items[1].Item)
}

func TestParse_ShortRowsSkipped(t *testing.T) {
	input := "設計\tLOGO\t100\n" +
		"只有一格\n" +
		"開發\tAPI\t串接\t300\t1"

	items := Parse(input)
	require.Len(t, items, 1)
	assert.Equal(t, "API", items[0].Item)
}

func TestParse_LegacySchema(t *testing.T) {
	items := Parse("設計\tLOGO\t1500\t3")

	require.Len(t, items, 1)
	assert.Equal(t, types.LineItem{
		Category: "設計",
		Item:     "LOGO",
		Content:  "",
		Price:    1500,
		Count:    3,
		Unit:     "",
		Amount:   4500,
	}, items[0])
}

func TestParse_RequiresCategoryAndItem(t *testing.T) {
	input := "\tLOGO\t草稿\t100\t1\n" +
		"設計\t\t草稿\t100\t1\n" +
		"設計\tLOGO\t草稿\t100\t1"

	items := Parse(input)
	require.Len(t, items, 1)
	assert.Equal(t, "設計", items[0].Category)
	assert.Equal(t, "LOGO", items[0].Item)
}

func TestParse_NumericFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		price  float64
		count  int
		amount float64
	}{
		{"unparseable price", "a\tb\tc\tfree\t2", 0, 2, 0},
		{"unparseable count", "a\tb\tc\t100\tsome", 100, 1, 100},
		{"zero count", "a\tb\tc\t100\t0", 100, 1, 100},
		{"negative count", "a\tb\tc\t100\t-3", 100, 1, 100},
		{"negative price", "a\tb\tc\t-5\t2", 0, 2, 0},
		{"suffix on price", "a\tb\tc\t5000元\t2", 5000, 2, 10000},
		{"fractional count", "a\tb\tc\t10\t2.5", 10, 2, 20},
		{"decimal price", "a\tb\tc\t12.5\t2", 12.5, 2, 25},
		{"explicit amount", "a\tb\tc\t100\t2\t式\t150", 100, 2, 150},
		{"unparseable amount", "a\tb\tc\t100\t2\t式\tn/a", 100, 2, 200},
		{"empty amount", "a\tb\tc\t100\t2\t式\t", 100, 2, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Parse(tt.line)
			require.Len(t, items, 1)
			assert.Equal(t, tt.price, items[0].Price)
			assert.Equal(t, tt.count, items[0].Count)
			assert.Equal(t, tt.amount, items[0].Amount)
		})
	}
}

func TestParse_SingleSpaceFallback(t *testing.T) {
	items := Parse("設計 LOGO 草稿 100 2 件")

	require.Len(t, items, 1)
	assert.Equal(t, "草稿", items[0].Content)
	assert.Equal(t, "件", items[0].Unit)
	assert.Equal(t, 200.0, items[0].Amount)
}

func TestParse_FullWidthSpaces(t *testing.T) {
	items := Parse("設計　　LOGO　　草稿　　100　　2")

	require.Len(t, items, 1)
	assert.Equal(t, "LOGO", items[0].Item)
	assert.Equal(t, 2, items[0].Count)
}

func TestParse_WindowsLineEndings(t *testing.T) {
	items := Parse("設計\tLOGO\t草稿\t100\t2\r\n開發\tAPI\t串接\t300\t1\r\n")

	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Count)
	assert.Equal(t, 1, items[1].Count)
}

func TestFormat_RoundTrip(t *testing.T) {
	items := []types.LineItem{
		{Category: "設計", Item: "LOGO", Content: "三款草稿", Price: 5000, Count: 1, Unit: "件", Amount: 5000},
		{Category: "設計", Item: "名片", Content: "", Price: 12.5, Count: 200, Unit: "張", Amount: 2500},
		{Category: "開發", Item: "官網", Content: "RWD 形象網站", Price: 30000, Count: 1, Unit: "", Amount: 30000},
	}

	assert.Equal(t, items, Parse(Format(items)))
}

func TestFormat_HeaderRow(t *testing.T) {
	out := Format([]types.LineItem{{Category: "a", Item: "b", Price: 1, Count: 2, Amount: 2}})
	assert.Equal(t, "類別\t項目\t內容\t單價\t數量\t單位\t金額\na\tb\t\t1\t2\t\t2", out)
}
