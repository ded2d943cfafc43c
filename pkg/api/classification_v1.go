// pkg/api/classification_v1.go
package api

// ClassificationV1 is the stable JSONL schema for one classified read or pair.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ClassificationV1 struct {
	Status     string `json:"status"` // "C" | "U"
	ReadID     string `json:"read_id"`
	TaxID      uint64 `json:"taxid"`
	Length     string `json:"length"` // "n" or "n1|n2" for pairs
	Hits       string `json:"hits"`
	FileIndex  int    `json:"file_index"`
	ReadsIndex uint64 `json:"reads_index"`
	Paired     bool   `json:"paired,omitempty"`
}
