package recordstore

import (
	"github.com/roach88/yutaicat/internal/normalize"
)

// ChainsReferencingCompany returns the ids of chains whose companyIds list
// companyID. A company with referencing chains should not be deleted.
func (s *Store) ChainsReferencingCompany(companyID string) ([]string, error) {
	chains, err := s.ReadChains()
	if err != nil {
		return nil, err
	}
	refs := []string{}
	for _, ch := range chains {
		for _, id := range normalize.SplitList(ch.CompanyIDs) {
			if id == companyID {
				refs = append(refs, ch.ID)
				break
			}
		}
	}
	return refs, nil
}

// StoresReferencingChain returns the ids of stores whose chainId is
// chainID. A chain with stores should not be deleted.
func (s *Store) StoresReferencingChain(chainID string) ([]string, error) {
	stores, err := s.ReadStores()
	if err != nil {
		return nil, err
	}
	refs := []string{}
	for _, st := range stores {
		if st.ChainID == chainID {
			refs = append(refs, st.ID)
		}
	}
	return refs, nil
}
