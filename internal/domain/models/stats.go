package models

// UnknownProductName is displayed for records whose product was deleted.
const UnknownProductName = "Unknown Product"

// ProductCount is one row of the per-product shipment ranking.
type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Activity is a shipment record with its product name resolved for display.
type Activity struct {
	ShipmentRecord
	ProductName string `json:"productName"`
}

// Dashboard aggregates the statistics view.
type Dashboard struct {
	TotalRecords  int            `json:"totalRecords"`
	RecentRecords int            `json:"recentRecords"`
	ProductCount  int            `json:"productCount"`
	TopProducts   []ProductCount `json:"topProducts"`
	Recent        []Activity     `json:"recent"`
}
