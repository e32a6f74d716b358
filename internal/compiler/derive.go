package compiler

import (
	"slices"

	"github.com/roach88/yutaicat/internal/catalog"
)

// DeriveCompanyChains inverts chain→company ownership into company→chain
// membership. Each list is de-duplicated and sorted ascending so the
// output is identical however the chains are ordered.
//
// Companies listed by no chain are absent from the map; callers treat a
// missing entry as an empty list.
func DeriveCompanyChains(chains []catalog.Chain) map[string][]string {
	membership := make(map[string][]string)
	for _, ch := range chains {
		for _, companyID := range ch.CompanyIDs {
			membership[companyID] = append(membership[companyID], ch.ID)
		}
	}

	for companyID, ids := range membership {
		slices.Sort(ids)
		membership[companyID] = slices.Compact(ids)
	}

	return membership
}
