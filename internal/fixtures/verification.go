package fixtures

import (
	"errors"
	"fmt"

	"github.com/okian/rankview/internal/adapters/repository"
	"github.com/okian/rankview/internal/domain/model"
)

// Verification errors.
var (
	ErrDuplicateID  = errors.New("duplicate player id")
	ErrRankSequence = errors.New("ranks are not 1..n")
	ErrMismatch     = errors.New("decoded dataset does not match")
)

// Verify checks that every channel has unique ids and ranks 1..n in order.
func Verify(ds repository.Dataset) error {
	var errs []error
	for _, ch := range model.Channels() {
		seen := make(map[string]struct{}, len(ds[ch]))
		for i, e := range ds[ch] {
			if _, dup := seen[e.ID]; dup {
				errs = append(errs, fmt.Errorf("%w: %s %q", ErrDuplicateID, ch, e.ID))
			}
			seen[e.ID] = struct{}{}
			if e.Rank != i+1 {
				errs = append(errs, fmt.Errorf("%w: %s position %d has rank %d", ErrRankSequence, ch, i, e.Rank))
			}
		}
	}
	return errors.Join(errs...)
}

// VerifyDocument decodes data and checks it carries the players of want in
// the same order. Damaged fields are tolerated; ids and ranks are not
// damaged by Encode and must survive.
func VerifyDocument(data []byte, want repository.Dataset) error {
	got, err := repository.Decode(data)
	if err != nil {
		return err
	}
	var errs []error
	for _, ch := range model.Channels() {
		if len(got[ch]) != len(want[ch]) {
			errs = append(errs, fmt.Errorf("%w: %s has %d players, want %d", ErrMismatch, ch, len(got[ch]), len(want[ch])))
			continue
		}
		for i := range want[ch] {
			if got[ch][i].ID != want[ch][i].ID || got[ch][i].Rank != want[ch][i].Rank {
				errs = append(errs, fmt.Errorf("%w: %s position %d", ErrMismatch, ch, i))
				break
			}
		}
	}
	return errors.Join(errs...)
}
