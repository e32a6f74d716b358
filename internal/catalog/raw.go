package catalog

// Raw records are the typed rows read from the record store, before any
// defaulting or list splitting. Every field is the string stored at rest.
// The validate tags mark the identifying fields; rows failing them are
// excluded from the compiled catalog.

// RawCompany is one row of the companies table.
type RawCompany struct {
	ID     string `validate:"required"`
	Name   string `validate:"required"`
	Ticker string
	// ChainIDs is the stale stored copy of the chain relation. It is kept
	// so the table round-trips, and is ignored by the compiler.
	ChainIDs     string
	VoucherTypes string
	Notes        string
	URL          string
}

// RawChain is one row of the chains table.
type RawChain struct {
	ID           string `validate:"required"`
	DisplayName  string `validate:"required"`
	Category     string
	CompanyIDs   string
	VoucherTypes string
	Tags         string
	URL          string
}

// RawStore is one row of the stores table.
type RawStore struct {
	ID        string `validate:"required"`
	ChainID   string `validate:"required"`
	Name      string `validate:"required"`
	Address   string
	Lat       string
	Lng       string
	Tags      string
	UpdatedAt string
}

// Column orders used when rewriting each table.
var (
	CompanyColumns = []string{"id", "name", "ticker", "chainIds", "voucherTypes", "notes", "url"}
	ChainColumns   = []string{"id", "displayName", "category", "companyIds", "voucherTypes", "tags", "url"}
	StoreColumns   = []string{"id", "chainId", "name", "address", "lat", "lng", "tags", "updatedAt"}
)

// VoucherTypes lists the benefit categories the admin forms offer.
var VoucherTypes = []string{"食事", "買い物", "レジャー", "その他"}
