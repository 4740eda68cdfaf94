package cache

import (
	"github.com/dgraph-io/ristretto"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

var S *ristretto_store.RistrettoStore

func NewStore() error {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}

	S = ristretto_store.NewRistretto(inner)
	return nil
}
