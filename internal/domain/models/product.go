package models

// Product is one entry of the catalog of product types that can be shipped.
type Product struct {
	ID       string `json:"id" bson:"id"`
	Code     string `json:"code" bson:"code"`
	Name     string `json:"name" bson:"name"`
	Category string `json:"category" bson:"category"`
}

// ProductInput carries the user supplied fields of a new product.
type ProductInput struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
