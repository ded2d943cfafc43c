package api

// DatabaseV1 is the JSON schema of kr2r-inspect --json.
type DatabaseV1 struct {
	Options  IndexOptionsV1 `json:"options"`
	Taxonomy TaxonomyV1     `json:"taxonomy"`
	Hash     HashConfigV1   `json:"hash"`
}

// IndexOptionsV1 mirrors opts.k2d.
type IndexOptionsV1 struct {
	K                          uint64 `json:"k"`
	L                          uint64 `json:"l"`
	SpacedSeedMask             uint64 `json:"spaced_seed_mask"`
	ToggleMask                 uint64 `json:"toggle_mask"`
	DNADB                      bool   `json:"dna_db"`
	MinimumAcceptableHashValue uint64 `json:"minimum_acceptable_hash_value"`
	RevcomVersion              int32  `json:"revcom_version"`
	DBVersion                  int32  `json:"db_version"`
	DBType                     int32  `json:"db_type"`
}

// TaxonomyV1 summarizes taxo.k2d; Nodes is filled only when taxa are requested.
type TaxonomyV1 struct {
	NodeCount int           `json:"node_count"`
	Nodes     []TaxonNodeV1 `json:"nodes,omitempty"`
}

// TaxonNodeV1 is one taxonomy node.
type TaxonNodeV1 struct {
	ID       uint32 `json:"id"`
	TaxID    uint64 `json:"taxid"`
	ParentID uint64 `json:"parent_taxid"`
	Rank     string `json:"rank,omitempty"`
	Name     string `json:"name,omitempty"`
}

// HashConfigV1 mirrors the hash.k2d header.
type HashConfigV1 struct {
	Capacity  uint64 `json:"capacity"`
	Size      uint64 `json:"size"`
	KeyBits   uint64 `json:"key_bits"`
	ValueBits uint64 `json:"value_bits"`
}
