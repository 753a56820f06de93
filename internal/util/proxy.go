package util

import (
	"crypto/rand"
	"math/big"
)

// PickProxy draws one proxy URL at random so consecutive jobs spread across
// the pool. Returns "" for an empty pool.
func PickProxy(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return pool[0]
	}
	return pool[nBig.Int64()]
}
