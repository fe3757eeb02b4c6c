package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is one weighbridge ticket. JSON field names match the persisted
// weight_receipts blob, so stored records survive round-trips unchanged.
type Receipt struct {
	ID              int64           `json:"id"`
	RSTNo           string          `json:"rstNo"`
	VehicleNo       string          `json:"vehicleNo"`
	Customer        string          `json:"customer"`
	Supplier        string          `json:"supplier"`
	Material        string          `json:"material"`
	GrossWeight     float64         `json:"grossWeight"`
	TareWeight      float64         `json:"tareWeight"`
	NetWeight       float64         `json:"netWeight"`
	ManualNetWeight bool            `json:"manualNetWeight"`
	DateTimeIn      time.Time       `json:"dateTimeIn"`
	DateTimeOut     time.Time       `json:"dateTimeOut"`
	Charges         decimal.Decimal `json:"charges"`
	Remarks         string          `json:"remarks"`
}

// NewReceipt returns a blank ticket. The ID stays zero until first save.
func NewReceipt() Receipt {
	return Receipt{Charges: decimal.Zero}
}

// TemplateConfig controls the printed receipt header, footer and optional
// lines. It lives in its own weight_config blob, independent of any receipt.
type TemplateConfig struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Footer      string `json:"footer"`
	ShowCharges bool   `json:"showCharges"`
	ShowBarcode bool   `json:"showBarcode"`
}

// DefaultTemplateConfig is what a fresh install prints with.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		CompanyName: "WEIGHBRIDGE",
		Footer:      "Thank you, visit again",
		ShowCharges: true,
	}
}
