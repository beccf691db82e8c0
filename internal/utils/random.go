package utils

import (
	"math/rand"
)

const base36Bytes = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandBase36 returns n random lowercase base36 characters. Used for anon
// token suffixes, generated nicknames and uploaded file names; not for
// anything secret.
func RandBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Bytes[rand.Intn(len(base36Bytes))]
	}
	return string(b)
}
