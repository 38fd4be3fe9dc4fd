package models

// DefaultStatus is applied to new shipment records created without a status.
const DefaultStatus = "출고완료"

// ShipmentRecord captures one logged shipment of a serial number.
// ProductID may reference a product that no longer exists.
type ShipmentRecord struct {
	ID        int64  `json:"id" bson:"id"`
	Serial    string `json:"serial" bson:"serial"`
	ProductID string `json:"productId" bson:"productId"`
	Customer  string `json:"customer" bson:"customer"`
	ShipDate  string `json:"shipDate" bson:"shipDate"`
	Memo      string `json:"memo" bson:"memo"`
	Status    string `json:"status" bson:"status"`
}

// RecordInput carries the user supplied fields of a new shipment record.
type RecordInput struct {
	Serial    string `json:"serial"`
	ProductID string `json:"productId"`
	Customer  string `json:"customer"`
	ShipDate  string `json:"shipDate"`
	Memo      string `json:"memo"`
	Status    string `json:"status"`
}
