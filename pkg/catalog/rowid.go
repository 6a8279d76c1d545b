package catalog

import "github.com/pkg/errors"

var ErrRowIDDrift = errors.New("catalog row id out of step with scene index")

// RowIDForIndex maps a zero-based scene document index to the one-based row
// id sqlite assigns the entity when entities are inserted in document order
// into a fresh table.
func RowIDForIndex(index int) int64 {
	return int64(index) + 1
}

// CheckRowID returns ErrRowIDDrift when id isn't the row id that index should
// have received.
func CheckRowID(index int, id int64) error {
	if want := RowIDForIndex(index); id != want {
		return errors.Wrapf(ErrRowIDDrift, "index %d got row id %d, expected %d", index, id, want)
	}

	return nil
}
