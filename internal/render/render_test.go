package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ginjaninja78/quotegen/internal/types"
)

func item(category, name string) types.LineItem {
	return types.LineItem{Category: category, Item: name, Price: 100, Count: 1, Amount: 100}
}

func sampleDoc() types.Document {
	return types.Document{
		QuotationName: "官網改版",
		Company:       "大同設計",
		CustomerTaxID: "12345678",
		QuoterName:    "王小明",
		Email:         "ming@example.com",
		StartDate:     "2024-03-01",
		ServiceItems: []types.LineItem{
			item("設計", "LOGO"),
			item("開發", "前端"),
			item("設計", "名片"),
			item("", "雜項"),
		},
		ExcludingTax: 400,
		TaxName:      "營業",
		Percentage:   5,
		Tax:          20,
		IncludingTax: 420,
		Desc:         "第一行\n第二行",
		IsSign:       true,
	}
}

func TestGroup_FirstSeenOrder(t *testing.T) {
	buckets := Group(sampleDoc().ServiceItems)

	require.Len(t, buckets, 3)
	assert.Equal(t, "設計", buckets[0].Category)
	assert.Equal(t, "開發", buckets[1].Category)
	assert.Equal(t, Uncategorized, buckets[2].Category)

	require.Len(t, buckets[0].Items, 2)
	assert.Equal(t, "LOGO", buckets[0].Items[0].Item)
	assert.Equal(t, "名片", buckets[0].Items[1].Item)
}

func TestGroup_NumericLookingCategoriesKeepOrder(t *testing.T) {
	buckets := Group([]types.LineItem{item("B", "1"), item("2024", "2"), item("10", "3")})

	got := []string{buckets[0].Category, buckets[1].Category, buckets[2].Category}
	assert.Equal(t, []string{"B", "2024", "10"}, got)
}

func TestRows_RowSpan(t *testing.T) {
	rows := Rows(sampleDoc().ServiceItems)

	require.Len(t, rows, 4)
	spans := []int{rows[0].RowSpan, rows[1].RowSpan, rows[2].RowSpan, rows[3].RowSpan}
	assert.Equal(t, []int{2, 0, 1, 1}, spans)
	assert.Equal(t, "名片", rows[1].Item.Item)
	assert.Equal(t, "設計", rows[1].Category)
}

func TestRows_Empty(t *testing.T) {
	assert.Empty(t, Rows(nil))
	assert.Empty(t, Group(nil))
}

func TestBuild(t *testing.T) {
	v := Build(sampleDoc())

	assert.Equal(t, "大同設計 - 報價單", v.Title)
	assert.Equal(t, "統一編號：12345678", v.Subtitle)
	assert.Equal(t, []string{
		"報價公司/人員：王小明",
		"E-Mail：ming@example.com",
		"報價日期：2024-03-01",
	}, v.MetaText())
	assert.Equal(t, []string{
		"未稅：NT$ 400 元",
		"營業稅 5%：20 元",
		"含稅：NT$ 420 元",
	}, v.Totals)
	assert.Equal(t, []string{"第一行", "第二行"}, v.DescLines())
	assert.True(t, v.Sign)
}

func TestBuild_ZeroTaxHidesTaxLines(t *testing.T) {
	doc := sampleDoc()
	doc.Tax = 0
	doc.Percentage = 0

	v := Build(doc)
	assert.Equal(t, []string{"未稅：NT$ 400 元"}, v.Totals)
}

func TestRow_Cells(t *testing.T) {
	r := Row{Category: "設計", RowSpan: 1, Item: types.LineItem{
		Item: "LOGO", Content: "草稿", Price: 12.5, Count: 2, Unit: "件", Amount: 25,
	}}

	assert.Equal(t, []string{"設計", "LOGO", "草稿", "12.5", "2/件", "NT$ 25"}, r.Cells())

	r.Item.Unit = ""
	assert.Equal(t, "2", r.Cells()[4])
}

func TestWriteText(t *testing.T) {
	doc := sampleDoc()
	doc.Company = "客戶甲"

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Build(doc)))

	out := buf.String()
	assert.Contains(t, out, "客戶甲 - 報價單")
	assert.Contains(t, out, "LOGO")
	assert.Contains(t, out, "NT$ 100")
	assert.Contains(t, out, "含稅：NT$ 420 元")
	assert.Contains(t, out, "備註")
	assert.Contains(t, out, "客戶簽章")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("設計")), "category label only on the first row of its bucket")
}

func TestRaster_Draw(t *testing.T) {
	r, err := NewRaster(0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, r.Width)

	short := sampleDoc()
	short.ServiceItems = short.ServiceItems[:1]

	small := r.Draw(Build(short))
	large := r.Draw(Build(sampleDoc()))

	assert.Equal(t, DefaultWidth, small.Bounds().Dx())
	assert.Greater(t, large.Bounds().Dy(), small.Bounds().Dy())

	// Background is white outside the content.
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, small.RGBAAt(1, 1))
}

func TestRaster_DrawWithLogo(t *testing.T) {
	logo := image.NewRGBA(image.Rect(0, 0, 80, 20))
	for x := 0; x < 80; x++ {
		for y := 0; y < 20; y++ {
			logo.Set(x, y, color.RGBA{0, 0, 0xff, 0xff})
		}
	}

	r, err := NewRaster(600, "")
	require.NoError(t, err)
	r.Logo = logo

	img := r.Draw(Build(sampleDoc()))
	assert.Equal(t, 600, img.Bounds().Dx())

	// The logo is scaled to LogoHeight and drawn at the top-left padding.
	px := img.RGBAAt(padding+10, padding+LogoHeight/2)
	assert.Equal(t, uint8(0xff), px.B)
	assert.Less(t, px.R, uint8(0x40))
}

func TestNewRaster_MissingFont(t *testing.T) {
	_, err := NewRaster(800, "/nonexistent/font.ttf")
	assert.Error(t, err)
}

// anyGlyph reports every rune as drawable.
type anyGlyph struct{ font.Face }

func (anyGlyph) GlyphAdvance(rune) (fixed.Int26_6, bool) { return fixed.I(7), true }

func TestRaster_MissingGlyphs(t *testing.T) {
	r, err := NewRaster(400, "")
	require.NoError(t, err)

	missing := r.MissingGlyphs(Build(sampleDoc()))
	require.NotEmpty(t, missing)
	assert.Equal(t, '大', missing[0])
	assert.Contains(t, missing, '類')
	assert.Contains(t, missing, '簽')
	assert.NotContains(t, missing, 'L')

	seen := make(map[rune]bool)
	for _, c := range missing {
		assert.False(t, seen[c], "duplicate %q", c)
		seen[c] = true
	}

	covered := &Raster{Width: 400, Face: anyGlyph{basicfont.Face7x13}, TitleFace: anyGlyph{basicfont.Face7x13}}
	assert.Empty(t, covered.MissingGlyphs(Build(sampleDoc())))
}
