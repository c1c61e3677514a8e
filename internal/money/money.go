package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MissingRate is shown in place of an amount whose day has no exchange rate.
const MissingRate = "Tasa no asignada"

// Formatter renders decimal amounts with the grouping and separators of a locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter falls back to es-VE when locale cannot be parsed.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("es-VE")
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Round rounds half away from zero to two decimals.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f", Round(d).InexactFloat64())
}

// Rate keeps the four decimals exchange rates are stored with.
func (f *Formatter) Rate(d decimal.Decimal) string {
	return f.printer.Sprintf("%.4f", d.Round(4).InexactFloat64())
}

// Line formats a computed payment amount, or MissingRate when ok is false.
func (f *Formatter) Line(d decimal.Decimal, ok bool) string {
	if !ok {
		return MissingRate
	}
	return f.Amount(d)
}

// Plain formats without grouping for exports that keep numbers machine readable.
func Plain(d decimal.Decimal) string {
	return Round(d).StringFixed(2)
}
