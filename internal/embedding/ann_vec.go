//go:build sqlite_vec && cgo

package embedding

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// When built with -tags sqlite_vec, register the sqlite-vec extension so a
// cgo-linked sqlite driver can create a vec0 virtual table and run true
// approximate-nearest-neighbor search instead of ANNStore's brute-force
// scan. Wiring the vec0 table itself is left to deployments that opt into
// this build tag; the default build (modernc.org/sqlite, no cgo) never
// reaches this file.
func init() {
	vec.Auto()
}
