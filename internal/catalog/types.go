package catalog

// CategoryUncategorized is the chain category used when none is recorded.
const CategoryUncategorized = "その他"

// Company is a listed company offering shareholder benefits.
type Company struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Ticker *string `json:"ticker"`
	// ChainIDs is derived from Chain.CompanyIDs at compile time: sorted,
	// de-duplicated, never nil.
	ChainIDs     []string `json:"chainIds"`
	VoucherTypes []string `json:"voucherTypes"`
	Notes        *string  `json:"notes"`
	URL          *string  `json:"url"`
}

// Chain is a retail or service brand where benefits can be used.
// CompanyIDs is the source of truth for company membership.
type Chain struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Category     string   `json:"category"`
	CompanyIDs   []string `json:"companyIds"`
	VoucherTypes []string `json:"voucherTypes"`
	Tags         []string `json:"tags"`
	URL          *string  `json:"url"`
}

// Store is a physical location belonging to a chain.
type Store struct {
	ID        string     `json:"id"`
	ChainID   string     `json:"chainId"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Lat       Coordinate `json:"lat"`
	Lng       Coordinate `json:"lng"`
	Tags      []string   `json:"tags"`
	UpdatedAt string     `json:"updatedAt"`
}

// Catalog is one compiled snapshot. It is immutable once serialized.
type Catalog struct {
	Version   string    `json:"version"`
	Companies []Company `json:"companies"`
	Chains    []Chain   `json:"chains"`
	Stores    []Store   `json:"stores"`
}

// Manifest points at the most recently published artifact.
type Manifest struct {
	Version string `json:"version"`
	Hash    string `json:"hash"` // lowercase hex SHA-256 of the artifact bytes
	URL     string `json:"url"`  // artifact filename, relative to the manifest
}

// OptionalString returns nil for the empty string, otherwise a pointer to s.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
