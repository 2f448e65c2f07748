package crypto

import "github.com/google/uuid"

// IDGenerator mints the opaque identifiers sessions travel under. IDs must
// be unguessable; they are the only credential a session cookie carries.
type IDGenerator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	return uuid.NewString(), nil
}
