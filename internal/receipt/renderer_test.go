package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/receipthub/backend-receipt/internal/check"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleCheck() check.Check {
	return check.Check{
		ID:            7,
		UserID:        1,
		OwnerName:     "Іван Петренко",
		CreatedAt:     time.Date(2024, 3, 1, 14, 5, 0, 0, time.UTC),
		Total:         dec("91.00"),
		PaymentType:   check.PaymentCash,
		PaymentAmount: dec("100.00"),
		Rest:          dec("9.00"),
		Products: []check.LineItem{
			{Name: "Bread", Price: dec("25.50"), Quantity: dec("2"), Total: dec("51.00")},
			{Name: "Milk", Price: dec("40.00"), Quantity: dec("1"), Total: dec("40.00")},
		},
	}
}

func TestRenderLayout(t *testing.T) {
	got := TextWidth(sampleCheck(), 32)
	want := strings.Join([]string{
		"       ФОП Іван Петренко        ",
		"================================",
		"Bread               2.00 x 25.50",
		"                           51.00",
		"Milk                1.00 x 40.00",
		"                           40.00",
		"--------------------------------",
		"СУМА                       91.00",
		"Готівка                   100.00",
		"Решта                       9.00",
		"================================",
		"        01.03.2024 14:05        ",
		"      Дякуємо за покупку!       ",
	}, "\n")
	require.Equal(t, want, got)
}

func TestRenderEveryLineHasExactWidth(t *testing.T) {
	c := sampleCheck()
	c.Products = append(c.Products, check.LineItem{
		Name:     "Дуже довга назва товару, яка точно не влізе у вузький чек",
		Price:    dec("1234567.89"),
		Quantity: dec("1000.5"),
		Total:    dec("1235185173.77"),
	}, check.LineItem{Name: "寿司セット", Price: dec("12.00"), Quantity: dec("3"), Total: dec("36.00")})
	c.OwnerName = "Олександра Костянтинівна Меркулова-Вишнева"

	for w := MinWidth; w <= 120; w++ {
		out := TextWidth(c, w)
		require.False(t, strings.HasSuffix(out, "\n"))
		for i, line := range strings.Split(out, "\n") {
			require.Equal(t, w, width(line), "width %d line %d %q", w, i, line)
		}
	}
}

func TestRenderReplacesControlCharacters(t *testing.T) {
	c := sampleCheck()
	c.Products[0].Name = "Bread\nINJECTED\tX"

	lines := strings.Split(TextWidth(c, 32), "\n")
	require.Len(t, lines, 13)
	require.Equal(t, "Bread INJECTED X    2.00 x 25.50", lines[2])
	for i, line := range lines {
		require.Equal(t, 32, width(line), "line %d: %q", i, line)
	}
}

func TestRenderClampsNarrowWidth(t *testing.T) {
	out := TextWidth(sampleCheck(), 5)
	for _, line := range strings.Split(out, "\n") {
		require.Equal(t, MinWidth, width(line))
	}
	require.Equal(t, TextWidth(sampleCheck(), MinWidth), out)
}

func TestRenderDefaultsAndIdempotence(t *testing.T) {
	c := sampleCheck()
	first := Text(c)
	require.Equal(t, first, Text(c))
	require.Equal(t, first, New(DefaultWidth, time.UTC).Render(c))
	require.Equal(t, sampleCheck(), c)
	require.Equal(t, DefaultWidth, width(strings.SplitN(first, "\n", 2)[0]))
}

func TestRenderCardAndLocation(t *testing.T) {
	c := sampleCheck()
	c.PaymentType = check.PaymentCard
	kyiv := time.FixedZone("EET", 2*60*60)

	out := New(40, kyiv).Render(c)
	require.Contains(t, out, "Картка")
	require.NotContains(t, out, "Готівка")
	require.Contains(t, out, "01.03.2024 16:05")
}

func TestRenderTruncatesHeader(t *testing.T) {
	c := sampleCheck()
	c.OwnerName = strings.Repeat("Я", 50)
	first := strings.SplitN(TextWidth(c, 24), "\n", 2)[0]
	require.True(t, strings.HasPrefix(first, "ФОП "))
	require.True(t, strings.HasSuffix(first, ellipsis))
	require.Equal(t, 24, width(first))
}

func TestRenderCustomLabels(t *testing.T) {
	r := Renderer{Width: 30, Labels: Labels{Total: "TOTAL"}}
	out := r.Render(sampleCheck())
	require.Contains(t, out, "TOTAL")
	require.Contains(t, out, "Решта")
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":           "0.00",
		"9":           "9.00",
		"999.5":       "999.50",
		"1000":        "1,000.00",
		"1234567.891": "1,234,567.89",
		"-12345.6":    "-12,345.60",
		"100000":      "100,000.00",
	}
	for in, want := range tests {
		require.Equal(t, want, FormatMoney(dec(in)), in)
	}
}
