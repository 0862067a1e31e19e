package render

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/quotegen/internal/types"
)

// Currency prefixes every displayed amount.
const Currency = "NT$"

// Columns are the table headings of the rendered document.
var Columns = []string{"類別", "項目", "內容", "單價", "數量", "金額"}

const (
	// DescLabel heads the remark block.
	DescLabel = "備註"

	// SignLabel heads the customer signature box.
	SignLabel = "客戶簽章"
)

// MetaLine is one "label: value" line under the title.
type MetaLine struct {
	Label string
	Value string
}

// View is the presentational form of a document.
type View struct {
	// Title is "<company> - 報價單".
	Title string

	// Subtitle carries the customer tax ID, when present.
	Subtitle string

	Meta   []MetaLine
	Rows   []Row
	Totals []string

	// Desc is the free-text remark block; empty hides it.
	Desc string

	// Sign shows the customer signature block.
	Sign bool
}

// Build produces the View of doc. Optional metadata lines are left out
// when empty, and the tax lines only appear when tax is non-zero.
func Build(doc types.Document) View {
	v := View{
		Title: doc.Company + " - 報價單",
		Rows:  Rows(doc.ServiceItems),
		Desc:  doc.Desc,
		Sign:  doc.IsSign,
	}
	if doc.CustomerTaxID != "" {
		v.Subtitle = "統一編號：" + doc.CustomerTaxID
	}

	v.Meta = append(v.Meta, MetaLine{"報價公司/人員", doc.QuoterName})
	if doc.QuoterTaxID != "" {
		v.Meta = append(v.Meta, MetaLine{"統一編號", doc.QuoterTaxID})
	}
	if doc.Tel != "" {
		v.Meta = append(v.Meta, MetaLine{"聯絡電話", doc.Tel})
	}
	v.Meta = append(v.Meta, MetaLine{"E-Mail", doc.Email})
	if doc.StartDate != "" {
		v.Meta = append(v.Meta, MetaLine{"報價日期", doc.StartDate})
	}
	if doc.EndDate != "" {
		v.Meta = append(v.Meta, MetaLine{"有效日期", doc.EndDate})
	}

	v.Totals = append(v.Totals, "未稅："+Currency+" "+Number(doc.ExcludingTax)+" 元")
	if doc.Tax != 0 {
		v.Totals = append(v.Totals,
			doc.TaxName+"稅 "+Number(doc.Percentage)+"%："+Number(doc.Tax)+" 元",
			"含稅："+Currency+" "+Number(doc.IncludingTax)+" 元",
		)
	}

	return v
}

// Cells returns the display cells of a row, in Columns order.
func (r Row) Cells() []string {
	count := strconv.Itoa(r.Item.Count)
	if r.Item.Unit != "" {
		count += "/" + r.Item.Unit
	}
	return []string{
		r.Category,
		r.Item.Item,
		r.Item.Content,
		Number(r.Item.Price),
		count,
		Amount(r.Item.Amount),
	}
}

// MetaText returns the metadata lines as "label：value".
func (v View) MetaText() []string {
	out := make([]string, len(v.Meta))
	for i, m := range v.Meta {
		out[i] = m.Label + "：" + m.Value
	}
	return out
}

// DescLines splits the remark block into display lines.
func (v View) DescLines() []string {
	if v.Desc == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(v.Desc, "\r\n", "\n"), "\n")
}

// Number formats v with the fewest digits that represent it.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Amount formats v as a currency amount, e.g. "NT$ 5000".
func Amount(v float64) string {
	return Currency + " " + Number(v)
}
