package catalogv1

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits money carries on the wire.
const AmountScale = 2

// FormatAmount renders d with AmountScale fractional digits, so 400 becomes "400.00".
// Amounts that need more digits keep them: "0.125" stays "0.125".
func FormatAmount(d decimal.Decimal) string {
	if d.Exponent() >= -AmountScale || d.Equal(d.Round(AmountScale)) {
		return d.StringFixed(AmountScale)
	}
	return d.String()
}

// The marshalers below shadow every decimal field with its FormatAmount
// string. Decoding needs no counterpart: decimal.Decimal reads quoted amounts.

func (p Product) MarshalJSON() ([]byte, error) {
	type wire Product
	return json.Marshal(struct {
		wire
		Price string `json:"price"`
	}{wire: wire(p), Price: FormatAmount(p.Price)})
}

func (l StockLine) MarshalJSON() ([]byte, error) {
	type wire StockLine
	return json.Marshal(struct {
		wire
		Price string `json:"price"`
		Value string `json:"value"`
	}{wire: wire(l), Price: FormatAmount(l.Price), Value: FormatAmount(l.Value)})
}

func (l PriceLine) MarshalJSON() ([]byte, error) {
	type wire PriceLine
	return json.Marshal(struct {
		wire
		Price string `json:"price"`
	}{wire: wire(l), Price: FormatAmount(l.Price)})
}

func (r StockValuationResponse) MarshalJSON() ([]byte, error) {
	type wire StockValuationResponse
	return json.Marshal(struct {
		wire
		Total string `json:"total"`
	}{wire: wire(r), Total: FormatAmount(r.Total)})
}
