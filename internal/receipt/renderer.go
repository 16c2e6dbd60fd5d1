// Package receipt renders checks as fixed-width plain-text receipts.
package receipt

import (
	"strings"
	"time"

	"github.com/receipthub/backend-receipt/internal/check"
)

const (
	// DefaultWidth is the line width used by Text.
	DefaultWidth = 40
	// MinWidth is the narrowest supported receipt; smaller widths are clamped.
	MinWidth = 20

	dateLayout = "02.01.2006 15:04"
)

// Labels holds the fixed captions printed on a receipt.
type Labels struct {
	Seller string
	Total  string
	Card   string
	Cash   string
	Rest   string
	Thanks string
}

// DefaultLabels are the Ukrainian captions of the printed receipt.
var DefaultLabels = Labels{
	Seller: "ФОП",
	Total:  "СУМА",
	Card:   "Картка",
	Cash:   "Готівка",
	Rest:   "Решта",
	Thanks: "Дякуємо за покупку!",
}

// Renderer formats checks. The zero value renders DefaultWidth columns in UTC
// with DefaultLabels.
type Renderer struct {
	Width    int
	Location *time.Location
	Labels   Labels
}

// New returns a Renderer with the given width and time zone.
func New(width int, loc *time.Location) Renderer {
	return Renderer{Width: width, Location: loc, Labels: DefaultLabels}
}

// Text renders c with the default width.
func Text(c check.Check) string {
	return Renderer{}.Render(c)
}

// TextWidth renders c at the given width.
func TextWidth(c check.Check, width int) string {
	return Renderer{Width: width}.Render(c)
}

// RenderWidth renders c at width, keeping the renderer's zone and labels.
func (r Renderer) RenderWidth(c check.Check, width int) string {
	r.Width = width
	return r.Render(c)
}

// Render formats c. Every line is exactly the configured width in display
// columns; lines are separated by "\n" without a trailing newline.
func (r Renderer) Render(c check.Check) string {
	w := r.Width
	if w == 0 {
		w = DefaultWidth
	}
	if w < MinWidth {
		w = MinWidth
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	labels := r.labels()

	lines := make([]string, 0, 2*len(c.Products)+10)
	header := strings.TrimSpace(labels.Seller + " " + strings.TrimSpace(c.OwnerName))
	lines = append(lines, center(header, w), rule("=", w))

	for _, p := range c.Products {
		qty := FormatMoney(p.Quantity) + " x " + FormatMoney(p.Price)
		lines = append(lines,
			spread(p.Name, qty, w),
			padLeft(FormatMoney(p.Total), w),
		)
	}
	lines = append(lines, rule("-", w))

	tendered := labels.Cash
	if c.PaymentType == check.PaymentCard {
		tendered = labels.Card
	}
	lines = append(lines,
		spread(labels.Total, FormatMoney(c.Total), w),
		spread(tendered, FormatMoney(c.PaymentAmount), w),
		spread(labels.Rest, FormatMoney(c.Rest), w),
		rule("=", w),
		center(c.CreatedAt.In(loc).Format(dateLayout), w),
		center(labels.Thanks, w),
	)
	return strings.Join(lines, "\n")
}

func (r Renderer) labels() Labels {
	l := r.Labels
	if l == (Labels{}) {
		return DefaultLabels
	}
	if l.Seller == "" {
		l.Seller = DefaultLabels.Seller
	}
	if l.Total == "" {
		l.Total = DefaultLabels.Total
	}
	if l.Card == "" {
		l.Card = DefaultLabels.Card
	}
	if l.Cash == "" {
		l.Cash = DefaultLabels.Cash
	}
	if l.Rest == "" {
		l.Rest = DefaultLabels.Rest
	}
	if l.Thanks == "" {
		l.Thanks = DefaultLabels.Thanks
	}
	return l
}
