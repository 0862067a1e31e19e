// =============================================================================
// Quotation Generator - Raster Renderer
// =============================================================================
//
// Draws a View onto an RGBA image. The image is the single source for the
// JPEG export and for the PDF export, which embeds it as one A4 page.
//
// FONTS:
//   Latin-only basicfont is used when no font file is configured. CJK text
//   needs an OpenType/TrueType font (e.g. Noto Sans TC) set in
//   render.font_path.
//
// LAYOUT:
//   The painter runs twice: a dry pass to measure the height, then a real
//   pass into an image of exactly that height.
//
// =============================================================================

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"unicode"

	// Logo decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

const (
	// DefaultWidth is the image width in pixels.
	DefaultWidth = 800

	// LogoHeight is the height the logo is scaled to.
	LogoHeight = 40

	padding      = 24
	cellPad      = 6
	signBoxH     = 120
	sectionSpace = 12
)

var (
	colText     = color.RGBA{0x21, 0x25, 0x29, 0xff}
	colMuted    = color.RGBA{0x6c, 0x75, 0x7d, 0xff}
	colAccent   = color.RGBA{0xdc, 0x35, 0x45, 0xff}
	colBorder   = color.RGBA{0xde, 0xe2, 0xe6, 0xff}
	colCategory = color.RGBA{0xf8, 0xf9, 0xfa, 0xff}

	// columnShare is each column's fraction of the table width.
	columnShare = []float64{0.14, 0.18, 0.28, 0.12, 0.12, 0.16}
)

// Raster draws Views into images.
type Raster struct {
	// Width is the image width in pixels.
	Width int

	// Face draws body text; TitleFace draws the title.
	Face      font.Face
	TitleFace font.Face

	// Logo is drawn left of the title when set.
	Logo image.Image
}

// NewRaster returns a Raster of the given width using the font at
// fontPath, or basicfont when fontPath is empty.
func NewRaster(width int, fontPath string) (*Raster, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r := &Raster{Width: width, Face: basicfont.Face7x13, TitleFace: basicfont.Face7x13}
	if fontPath == "" {
		return r, nil
	}

	var err error
	if r.Face, err = LoadFace(fontPath, 14); err != nil {
		return nil, err
	}
	if r.TitleFace, err = LoadFace(fontPath, 24); err != nil {
		return nil, err
	}
	return r, nil
}

// MissingGlyphs returns the runes of v that the raster's faces cannot draw,
// each once, in first-seen order. basicfont has no CJK glyphs, so with no
// font configured every Chinese label shows up here.
func (r *Raster) MissingGlyphs(v View) []rune {
	seen := make(map[rune]bool)
	var out []rune
	check := func(face font.Face, s string) {
		for _, c := range s {
			if seen[c] || unicode.IsSpace(c) {
				continue
			}
			if _, ok := face.GlyphAdvance(c); !ok {
				seen[c] = true
				out = append(out, c)
			}
		}
	}

	check(r.TitleFace, v.Title)
	if v.Sign {
		check(r.TitleFace, SignLabel)
	}
	body := append([]string{v.Subtitle}, v.MetaText()...)
	body = append(body, Columns...)
	for _, row := range v.Rows {
		body = append(body, row.Cells()...)
	}
	body = append(body, v.Totals...)
	if v.Desc != "" {
		body = append(body, DescLabel)
		body = append(body, v.DescLines()...)
	}
	for _, s := range body {
		check(r.Face, s)
	}
	return out
}

// LoadFace reads an OpenType or TrueType font file at the given point size.
func LoadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// LoadLogo decodes a PNG, JPEG, GIF, BMP or WebP image.
func LoadLogo(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open logo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo %s: %w", path, err)
	}
	return img, nil
}

// =============================================================================
// DRAWING
// =============================================================================

// Draw renders v into a new image.
func (r *Raster) Draw(v View) *image.RGBA {
	dry := &painter{r: r}
	dry.paint(v)

	img := image.NewRGBA(image.Rect(0, 0, r.Width, dry.y+padding))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	p := &painter{r: r, img: img}
	p.paint(v)
	return img
}

// painter walks the layout top to bottom. With a nil img it only measures.
type painter struct {
	r   *Raster
	img *image.RGBA
	y   int
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil() + cellPad
}

func (p *painter) paint(v View) {
	p.y = padding
	p.header(v)
	p.y += sectionSpace

	body := lineHeight(p.r.Face)
	for _, line := range v.MetaText() {
		p.text(p.r.Face, line, padding, p.y, colText)
		p.y += body
	}
	p.y += sectionSpace

	p.table(v)
	p.totals(v)

	if lines := v.DescLines(); len(lines) > 0 {
		p.y += sectionSpace
		p.text(p.r.Face, DescLabel, padding, p.y, colText)
		p.y += body
		p.hline(p.y - cellPad/2)
		for _, line := range lines {
			p.text(p.r.Face, line, padding, p.y, colText)
			p.y += body
		}
	}

	if v.Sign {
		p.y += sectionSpace * 2
		p.rect(image.Rect(padding, p.y, p.r.Width-padding, p.y+signBoxH), colBorder, false)
		p.text(p.r.TitleFace, SignLabel, padding+cellPad*2, p.y+cellPad*2, colText)
		p.y += signBoxH
	}
}

func (p *painter) header(v View) {
	x := padding
	top := p.y

	if p.r.Logo != nil {
		b := p.r.Logo.Bounds()
		w := b.Dx() * LogoHeight / max(b.Dy(), 1)
		if p.img != nil {
			dst := image.Rect(x, top, x+w, top+LogoHeight)
			xdraw.CatmullRom.Scale(p.img, dst, p.r.Logo, b, xdraw.Over, nil)
		}
		x += w + 8
	}

	p.text(p.r.TitleFace, v.Title, x, top, colText)
	y := top + lineHeight(p.r.TitleFace)
	if v.Subtitle != "" {
		p.text(p.r.Face, v.Subtitle, x, y, colMuted)
		y += lineHeight(p.r.Face)
	}

	if p.r.Logo != nil {
		y = max(y, top+LogoHeight)
	}
	p.y = y
}

func (p *painter) columns() []int {
	width := p.r.Width - 2*padding
	xs := make([]int, len(columnShare)+1)
	xs[0] = padding
	for i, share := range columnShare {
		xs[i+1] = xs[i] + int(share*float64(width))
	}
	xs[len(columnShare)] = p.r.Width - padding
	return xs
}

func (p *painter) table(v View) {
	xs := p.columns()
	rowH := lineHeight(p.r.Face) + cellPad

	p.hline(p.y)
	for i, label := range Columns {
		p.cell(label, xs[i], xs[i+1], p.y, rowH, i == len(Columns)-1)
	}
	p.y += rowH
	p.hline(p.y)

	for i, row := range v.Rows {
		cells := row.Cells()
		if row.RowSpan > 0 {
			spanH := row.RowSpan * rowH
			p.rect(image.Rect(xs[0], p.y, xs[1], p.y+spanH), colCategory, true)
			p.cell(cells[0], xs[0], xs[1], p.y+(spanH-rowH)/2, rowH, false)
		}
		for c := 1; c < len(cells); c++ {
			p.cell(cells[c], xs[c], xs[c+1], p.y, rowH, c == len(cells)-1)
		}
		p.y += rowH

		// A bucket's last row closes the category cell as well.
		if i == len(v.Rows)-1 || v.Rows[i+1].RowSpan > 0 {
			p.hline(p.y)
		} else {
			p.hlineFrom(xs[1], p.y)
		}
	}
}

func (p *painter) totals(v View) {
	h := lineHeight(p.r.Face)
	p.y += cellPad
	for i, line := range v.Totals {
		c := colText
		if i == len(v.Totals)-1 {
			c = colAccent
		}
		w := font.MeasureString(p.r.Face, line).Ceil()
		p.text(p.r.Face, line, p.r.Width-padding-cellPad-w, p.y, c)
		p.y += h
	}
}

// cell draws s clipped to the column [x0, x1).
func (p *painter) cell(s string, x0, x1, y, h int, right bool) {
	if p.img == nil {
		return
	}
	clip := p.img.SubImage(image.Rect(x0+cellPad, y, x1-cellPad, y+h)).(*image.RGBA)
	x := x0 + cellPad
	if right {
		x = x1 - cellPad - font.MeasureString(p.r.Face, s).Ceil()
	}
	drawString(clip, p.r.Face, s, x, y+cellPad/2, colText)
}

func (p *painter) text(face font.Face, s string, x, y int, c color.Color) {
	if p.img == nil {
		return
	}
	drawString(p.img, face, s, x, y, c)
}

func (p *painter) hline(y int) {
	p.hlineFrom(padding, y)
}

func (p *painter) hlineFrom(x0, y int) {
	p.rect(image.Rect(x0, y, p.r.Width-padding, y+1), colBorder, true)
}

func (p *painter) rect(r image.Rectangle, c color.Color, fill bool) {
	if p.img == nil {
		return
	}
	src := image.NewUniform(c)
	if fill {
		draw.Draw(p.img, r, src, image.Point{}, draw.Src)
		return
	}
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(p.img, edge, src, image.Point{}, draw.Src)
	}
}

// drawString draws s with its top-left corner at (x, y).
func drawString(dst draw.Image, face font.Face, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
