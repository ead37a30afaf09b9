package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, which keeps
// DynamoDB partition keys friendly and ids readable in logs.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
