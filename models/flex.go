package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// flexString decodes a JSON string or number. Numbers keep their literal
// text; null decodes as "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*s = flexString(n.String())
	}
	return nil
}

// flexFloat decodes a JSON number or a numeric string such as "1,234.5" or
// "42.1%". Empty, null and non-numeric values decode as 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && (b[0] == '{' || b[0] == '[') {
		return fmt.Errorf("cannot decode %.20s as a number", b)
	}

	text := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
	}

	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	text = strings.TrimSuffix(text, "%")
	d, err := decimal.NewFromString(text)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(d.InexactFloat64())
	return nil
}

// UnmarshalJSON accepts numbers for the quoted fields and strings for the
// numeric ones.
func (r *StockRecord) UnmarshalJSON(b []byte) error {
	type plain StockRecord
	aux := struct {
		*plain
		Symbol        flexString `json:"symbol"`
		Price         flexString `json:"price"`
		Change        flexString `json:"change"`
		ChangePercent flexString `json:"changePercent"`
		MarketCap     flexString `json:"marketCap"`
		PERatio       flexString `json:"peRatio"`
		PBRatio       flexString `json:"pbRatio"`
		DividendYield flexString `json:"dividendYield"`
		EPS           flexString `json:"eps"`
	}{
		plain:         (*plain)(r),
		Symbol:        flexString(r.Symbol),
		Price:         flexString(r.Price),
		Change:        flexString(r.Change),
		ChangePercent: flexString(r.ChangePercent),
		MarketCap:     flexString(r.MarketCap),
		PERatio:       flexString(r.PERatio),
		PBRatio:       flexString(r.PBRatio),
		DividendYield: flexString(r.DividendYield),
		EPS:           flexString(r.EPS),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	r.Symbol = string(aux.Symbol)
	r.Price = string(aux.Price)
	r.Change = string(aux.Change)
	r.ChangePercent = string(aux.ChangePercent)
	r.MarketCap = string(aux.MarketCap)
	r.PERatio = string(aux.PERatio)
	r.PBRatio = string(aux.PBRatio)
	r.DividendYield = string(aux.DividendYield)
	r.EPS = string(aux.EPS)
	return nil
}

func (e *RevenueEntry) UnmarshalJSON(b []byte) error {
	type plain RevenueEntry
	aux := struct {
		*plain
		Revenue flexFloat  `json:"revenue"`
		MoM     flexString `json:"mom"`
		YoY     flexString `json:"yoy"`
	}{
		plain:   (*plain)(e),
		Revenue: flexFloat(e.Revenue),
		MoM:     flexString(e.MoM),
		YoY:     flexString(e.YoY),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	e.Revenue = float64(aux.Revenue)
	e.MoM = string(aux.MoM)
	e.YoY = string(aux.YoY)
	return nil
}

func (m *MarginEntry) UnmarshalJSON(b []byte) error {
	type plain MarginEntry
	aux := struct {
		*plain
		OperatingMargin flexFloat `json:"operatingMargin"`
		NetProfitMargin flexFloat `json:"netProfitMargin"`
	}{
		plain:           (*plain)(m),
		OperatingMargin: flexFloat(m.OperatingMargin),
		NetProfitMargin: flexFloat(m.NetProfitMargin),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	m.OperatingMargin = float64(aux.OperatingMargin)
	m.NetProfitMargin = float64(aux.NetProfitMargin)
	return nil
}
