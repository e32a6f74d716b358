package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/yutaicat/internal/catalog"
)

// Integrity finding codes (E200-E299)
const (
	ErrUnknownChain   = "E201" // store.chainId names no chain
	ErrUnknownCompany = "E202" // chain.companyIds names no company
	ErrDuplicateID    = "E203" // id repeated within one kind
	ErrUnknownVoucher = "E204" // voucherTypes entry outside catalog.VoucherTypes
)

// Finding is one referential-integrity problem in a compiled catalog.
type Finding struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"` // "company", "chain", or "store"
	ID      string `json:"id"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (f Finding) Error() string {
	return fmt.Sprintf("[%s] %s %q: %s: %s", f.Code, f.Kind, f.ID, f.Field, f.Message)
}

// IntegrityError is returned by a strict compile with findings.
type IntegrityError struct {
	Findings []Finding
}

func (e *IntegrityError) Error() string {
	msgs := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("integrity check failed with %d finding(s): %s", len(e.Findings), strings.Join(msgs, "; "))
}

// CheckIntegrity reports cross-entity problems in c.
// Returns all findings (does not fail fast) in catalog order.
func CheckIntegrity(c *catalog.Catalog) []Finding {
	var findings []Finding

	companyIDs := make(map[string]bool, len(c.Companies))
	for _, co := range c.Companies {
		if companyIDs[co.ID] {
			findings = append(findings, duplicate("company", co.ID))
		}
		companyIDs[co.ID] = true
	}

	chainIDs := make(map[string]bool, len(c.Chains))
	for _, ch := range c.Chains {
		if chainIDs[ch.ID] {
			findings = append(findings, duplicate("chain", ch.ID))
		}
		chainIDs[ch.ID] = true
	}

	for _, co := range c.Companies {
		findings = append(findings, unknownVouchers("company", co.ID, co.VoucherTypes)...)
	}

	for _, ch := range c.Chains {
		findings = append(findings, unknownVouchers("chain", ch.ID, ch.VoucherTypes)...)
		for _, companyID := range ch.CompanyIDs {
			if !companyIDs[companyID] {
				findings = append(findings, Finding{
					Code:    ErrUnknownCompany,
					Kind:    "chain",
					ID:      ch.ID,
					Field:   "companyIds",
					Message: fmt.Sprintf("unknown company %q", companyID),
				})
			}
		}
	}

	storeIDs := make(map[string]bool, len(c.Stores))
	for _, st := range c.Stores {
		if storeIDs[st.ID] {
			findings = append(findings, duplicate("store", st.ID))
		}
		storeIDs[st.ID] = true

		if !chainIDs[st.ChainID] {
			findings = append(findings, Finding{
				Code:    ErrUnknownChain,
				Kind:    "store",
				ID:      st.ID,
				Field:   "chainId",
				Message: fmt.Sprintf("unknown chain %q", st.ChainID),
			})
		}
	}

	return findings
}

func unknownVouchers(kind, id string, voucherTypes []string) []Finding {
	var findings []Finding
	for _, v := range voucherTypes {
		if !slices.Contains(catalog.VoucherTypes, v) {
			findings = append(findings, Finding{
				Code:    ErrUnknownVoucher,
				Kind:    kind,
				ID:      id,
				Field:   "voucherTypes",
				Message: fmt.Sprintf("unknown voucher type %q", v),
			})
		}
	}
	return findings
}

func duplicate(kind, id string) Finding {
	return Finding{
		Code:    ErrDuplicateID,
		Kind:    kind,
		ID:      id,
		Field:   "id",
		Message: "duplicate id",
	}
}
