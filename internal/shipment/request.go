// Package shipment holds the inbound load description and the rules that
// decide whether a load can be scored at all.
package shipment

import (
	"github.com/shopspring/decimal"
)

type Commodity string

const (
	CommodityDryGoods          Commodity = "dry_goods"
	CommodityBuildingMaterials Commodity = "building_materials"
	CommodityFoodBeverage      Commodity = "food_beverage"
	CommodityRetail            Commodity = "retail"
	CommodityIndustrial        Commodity = "industrial"
	CommodityOther             Commodity = "other"
)

// Commodities lists the accepted freight categories in display order.
func Commodities() []Commodity {
	return []Commodity{
		CommodityDryGoods, CommodityBuildingMaterials, CommodityFoodBeverage,
		CommodityRetail, CommodityIndustrial, CommodityOther,
	}
}

func (c Commodity) Valid() bool {
	for _, known := range Commodities() {
		if c == known {
			return true
		}
	}
	return false
}

// Request is one Check My Load submission. Pointer fields distinguish an
// omitted value from an explicit zero.
type Request struct {
	Variant        string           `json:"variant,omitempty"`
	PalletCount    *int             `json:"pallet_count"`
	OriginZip      string           `json:"origin_zip"`
	DestinationZip string           `json:"destination_zip,omitempty"`
	Reliability    *int             `json:"reliability,omitempty"`
	WeightLbs      *float64         `json:"weight_lbs,omitempty"`
	Payout         *decimal.Decimal `json:"payout,omitempty"`
	Commodity      Commodity        `json:"commodity,omitempty"`
	Email          string           `json:"email,omitempty"`
	CompanyName    string           `json:"company_name,omitempty"`
}

// Pallets returns the pallet count, or 0 when absent. Only meaningful after validation.
func (r *Request) Pallets() int {
	if r.PalletCount == nil {
		return 0
	}
	return *r.PalletCount
}
