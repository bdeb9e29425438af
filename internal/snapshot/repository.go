// Package snapshot loads, saves, exports and imports the register's whole
// local state as one document.
package snapshot

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-register/internal/model"
)

// Repository persists the whole snapshot. Load returns
// model.DefaultSnapshot() when nothing has been stored yet.
type Repository interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snap *model.Snapshot) error
}

// Encode is the stored form shared by every repository.
func Encode(snap *model.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// Decode fills missing fields from the defaults and replaces null
// collections with empty ones.
func Decode(data []byte) (*model.Snapshot, error) {
	snap := model.DefaultSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	normalize(snap)
	return snap, nil
}

func normalize(snap *model.Snapshot) {
	if snap.Products == nil {
		snap.Products = []model.Product{}
	}
	if snap.Customers == nil {
		snap.Customers = []model.Customer{}
	}
	if snap.Sales == nil {
		snap.Sales = []model.Sale{}
	}
}
