// Package chart builds the embed configuration for the third-party
// technical chart widget shown next to the quote.
package chart

import (
	"encoding/json"
	"strings"
)

// ScriptURL is the widget loader script.
const ScriptURL = "https://s3.tradingview.com/external-embedding/embed-widget-advanced-chart.js"

// DefaultExchange is prefixed to bare tickers.
const DefaultExchange = "TWSE"

// Options are the display settings shared by every widget instance.
type Options struct {
	Exchange string
	Interval string
	Timezone string
	Theme    string
	Style    string
	Locale   string
}

// DefaultOptions returns the settings for Taiwan listed stocks.
func DefaultOptions() Options {
	return Options{
		Exchange: DefaultExchange,
		Interval: "D",
		Timezone: "Asia/Taipei",
		Theme:    "light",
		Style:    "1",
		Locale:   "zh_TW",
	}
}

// WidgetConfig is serialized verbatim into the widget's script tag.
type WidgetConfig struct {
	Autosize          bool   `json:"autosize"`
	Symbol            string `json:"symbol"`
	Interval          string `json:"interval"`
	Timezone          string `json:"timezone"`
	Theme             string `json:"theme"`
	Style             string `json:"style"`
	Locale            string `json:"locale"`
	EnablePublishing  bool   `json:"enable_publishing"`
	AllowSymbolChange bool   `json:"allow_symbol_change"`
	Calendar          bool   `json:"calendar"`
	SupportHost       string `json:"support_host"`
}

// QualifiedSymbol returns symbol with an exchange prefix, adding
// exchange when symbol has none.
func QualifiedSymbol(symbol, exchange string) string {
	symbol = strings.TrimSpace(symbol)
	if strings.Contains(symbol, ":") {
		return symbol
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	return exchange + ":" + symbol
}

// NewWidgetConfig builds the widget configuration for symbol.
func NewWidgetConfig(symbol string, opts Options) WidgetConfig {
	defaults := DefaultOptions()
	if opts.Interval == "" {
		opts.Interval = defaults.Interval
	}
	if opts.Timezone == "" {
		opts.Timezone = defaults.Timezone
	}
	if opts.Theme == "" {
		opts.Theme = defaults.Theme
	}
	if opts.Style == "" {
		opts.Style = defaults.Style
	}
	if opts.Locale == "" {
		opts.Locale = defaults.Locale
	}

	return WidgetConfig{
		Autosize:          true,
		Symbol:            QualifiedSymbol(symbol, opts.Exchange),
		Interval:          opts.Interval,
		Timezone:          opts.Timezone,
		Theme:             opts.Theme,
		Style:             opts.Style,
		Locale:            opts.Locale,
		EnablePublishing:  false,
		AllowSymbolChange: true,
		Calendar:          false,
		SupportHost:       "https://www.tradingview.com",
	}
}

// JSON returns the configuration as the widget expects it inside its script tag.
func (c WidgetConfig) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
