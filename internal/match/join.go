// Package match pairs owner and custodian records into joined rows with
// full outer-join semantics on the composite event key.
package match

import (
	"github.com/divrecon-dev/divrecon/internal/model"
)

// Join performs a full outer join of the two record sets on
// (EventKey, ISIN, Account). Every input record appears in exactly one
// output row. When a key occurs more than once on a side, records pair up
// positionally so duplicates are never fabricated or dropped.
//
// Output order is deterministic: paired and owner-only rows in owner input
// order, then custodian-only rows in custodian input order.
func Join(owner, custodian []model.Record) []model.JoinedRecord {
	// Index custodian rows by key, preserving input order per key.
	byKey := make(map[model.Key][]int, len(custodian))
	for i, rec := range custodian {
		k := rec.Key()
		byKey[k] = append(byKey[k], i)
	}
	taken := make([]bool, len(custodian))

	joined := make([]model.JoinedRecord, 0, len(owner)+len(custodian))
	for i := range owner {
		rec := owner[i]
		k := rec.Key()
		if idxs := byKey[k]; len(idxs) > 0 {
			ci := idxs[0]
			byKey[k] = idxs[1:]
			taken[ci] = true
			joined = append(joined, model.JoinedRecord{
				Key:       k,
				Owner:     &owner[i],
				Custodian: &custodian[ci],
				Origin:    model.OriginBoth,
			})
			continue
		}
		joined = append(joined, model.JoinedRecord{
			Key:    k,
			Owner:  &owner[i],
			Origin: model.OriginOwnerOnly,
		})
	}

	for i := range custodian {
		if taken[i] {
			continue
		}
		joined = append(joined, model.JoinedRecord{
			Key:       custodian[i].Key(),
			Custodian: &custodian[i],
			Origin:    model.OriginCustodianOnly,
		})
	}

	return joined
}
