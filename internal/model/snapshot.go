package model

type Settings struct {
	StoreName         string  `json:"store_name" yaml:"store_name"`
	Currency          string  `json:"currency" yaml:"currency"`
	TaxRate           float64 `json:"tax_rate" yaml:"tax_rate"`
	LowStockThreshold int     `json:"low_stock_threshold" yaml:"low_stock_threshold"`
	PaymentProfile    string  `json:"payment_profile" yaml:"payment_profile"`
}

func DefaultSettings() Settings {
	return Settings{
		StoreName:         "My Store",
		Currency:          "USD",
		TaxRate:           0,
		LowStockThreshold: 5,
		PaymentProfile:    PaymentProfileStandard,
	}
}

// Snapshot is the whole local state, saved and loaded as one unit.
type Snapshot struct {
	Settings  Settings   `json:"settings" yaml:"settings"`
	Products  []Product  `json:"products" yaml:"products"`
	Customers []Customer `json:"customers" yaml:"customers"`
	Sales     []Sale     `json:"sales" yaml:"sales"`
}

func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Settings:  DefaultSettings(),
		Products:  []Product{},
		Customers: []Customer{},
		Sales:     []Sale{},
	}
}
