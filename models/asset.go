package models

// AssetStatus is the availability state owned by the asset catalog.
type AssetStatus string

const (
	AssetStatusAvailable  AssetStatus = "AVAILABLE"
	AssetStatusCheckedOut AssetStatus = "CHECKED_OUT"
	AssetStatusInCustody  AssetStatus = "IN_CUSTODY"
)

// ResolvedAsset is a scan result after a successful catalog lookup.
// A non-empty KitID means the asset was scanned as part of a kit.
type ResolvedAsset struct {
	ID     string      `json:"id" bson:"id"`
	Title  string      `json:"title" bson:"title"`
	Status AssetStatus `json:"status" bson:"status"`
	KitID  string      `json:"kitId,omitempty" bson:"kitId,omitempty"`
}

// AssetRecord is the catalog document an asset code resolves to.
type AssetRecord struct {
	ID       string      `bson:"id"`
	Title    string      `bson:"title"`
	Status   AssetStatus `bson:"status"`
	KitID    string      `bson:"kitId,omitempty"`
	QRID     string      `bson:"qrId,omitempty"`
	Barcodes []string    `bson:"barcodes,omitempty"`
}

// KitRecord groups assets that are scanned together through one code.
type KitRecord struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
	QRID string `bson:"qrId,omitempty"`
}

// ToResolved converts a catalog record into the scan result shape.
func (a AssetRecord) ToResolved() ResolvedAsset {
	return ResolvedAsset{
		ID:     a.ID,
		Title:  a.Title,
		Status: a.Status,
		KitID:  a.KitID,
	}
}
