package models

// Backup is the canonical JSON backup document.
type Backup struct {
	Products   []Product        `json:"products"`
	Records    []ShipmentRecord `json:"records"`
	ExportedAt string           `json:"exportedAt"`
}

// RestoreCandidate is a parsed backup awaiting confirmation. A collection is
// only applied when its Has flag is set.
type RestoreCandidate struct {
	Products    []Product
	Records     []ShipmentRecord
	HasProducts bool
	HasRecords  bool
	ExportedAt  string
}

// RestorePreview summarizes a pending restore for the confirmation prompt.
type RestorePreview struct {
	ExportedAt   string `json:"exportedAt,omitempty"`
	HasProducts  bool   `json:"hasProducts"`
	HasRecords   bool   `json:"hasRecords"`
	ProductCount int    `json:"productCount"`
	RecordCount  int    `json:"recordCount"`
}

// Preview builds the confirmation summary of the candidate.
func (c RestoreCandidate) Preview() RestorePreview {
	return RestorePreview{
		ExportedAt:   c.ExportedAt,
		HasProducts:  c.HasProducts,
		HasRecords:   c.HasRecords,
		ProductCount: len(c.Products),
		RecordCount:  len(c.Records),
	}
}
