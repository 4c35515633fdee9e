package models

import (
	"encoding/json"
	"testing"
)

func TestStockRecord_UnmarshalJSON_MixedTypes(t *testing.T) {
	raw := `{
		"symbol": 2330,
		"name": "台積電",
		"price": 1050.5,
		"change": "+15.00",
		"peRatio": 25.3,
		"pbRatio": null,
		"eps": "",
		"revenueHistory": [
			{"date": "2024/01", "revenue": ""},
			{"date": "2024/02", "revenue": "1,234", "mom": -3.2, "yoy": "+5%"},
			{"date": "2024/03", "revenue": 2157.9},
			{"date": "2024/04", "revenue": "N/A"}
		],
		"marginHistory": [
			{"quarter": "24Q1", "operatingMargin": "42.1%", "netProfitMargin": null}
		]
	}`

	var r StockRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Symbol != "2330" || r.Price != "1050.5" || r.PERatio != "25.3" {
		t.Errorf("numbers should decode as their literal text: %+v", r)
	}
	if r.PBRatio != "" || r.EPS != "" || r.Change != "+15.00" {
		t.Errorf("unexpected optional fields: %+v", r)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("record should be valid: %v", err)
	}

	wantRevenue := []float64{0, 1234, 2157.9, 0}
	if len(r.RevenueHistory) != len(wantRevenue) {
		t.Fatalf("expected %d revenue entries, got %d", len(wantRevenue), len(r.RevenueHistory))
	}
	for i, want := range wantRevenue {
		if got := r.RevenueHistory[i].Revenue; got != want {
			t.Errorf("revenue[%d] = %v, want %v", i, got, want)
		}
	}
	if r.RevenueHistory[1].MoM != "-3.2" || r.RevenueHistory[1].YoY != "+5%" {
		t.Errorf("unexpected MoM/YoY: %+v", r.RevenueHistory[1])
	}

	m := r.MarginHistory[0]
	if m.OperatingMargin != 42.1 || m.NetProfitMargin != 0 {
		t.Errorf("unexpected margins: %+v", m)
	}
}

func TestStockRecord_UnmarshalJSON_RejectsWrongShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object for string", `{"symbol":{"code":"2330"}}`},
		{"string for array", `{"revenueHistory":"none"}`},
		{"array for number", `{"revenueHistory":[{"date":"2024/01","revenue":[1,2]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r StockRecord
			if err := json.Unmarshal([]byte(tt.raw), &r); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStockRecord_MarshalRoundTrip(t *testing.T) {
	in := StockRecord{
		Symbol:         "2330",
		Name:           "台積電",
		Price:          "1,050.00",
		RevenueHistory: []RevenueEntry{{Date: "2024/06", Revenue: 2078.7, MoM: "-10.5%", YoY: "+32.9%"}},
		MarginHistory:  []MarginEntry{{Quarter: "24Q1", OperatingMargin: 42, NetProfitMargin: 38}},
	}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out StockRecord
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Price != in.Price || out.RevenueHistory[0] != in.RevenueHistory[0] || out.MarginHistory[0] != in.MarginHistory[0] {
		t.Errorf("round trip changed the record: %+v", out)
	}
}
