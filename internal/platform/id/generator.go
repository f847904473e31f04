package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxInboundIDLength = 128

// Generator creates opaque IDs used for request correlation.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	return v.String(), nil
}

// Sanitize accepts a caller-supplied correlation id when it is short and printable.
func Sanitize(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" || len(value) > maxInboundIDLength {
		return "", false
	}
	for _, r := range value {
		if r < 0x21 || r > 0x7e {
			return "", false
		}
	}
	return value, true
}
