package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Institution is an approved certificate issuer.
//
// Invariants:
//   - No two institutions share a case-insensitive domain
//   - No two institutions share a trimmed, case-insensitive name
//   - Created by approval only; there is no update or delete path
type Institution struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Code   string `json:"code"`
}

// PendingRequest is a self-service institution registration request. It lives
// until an operator approves (converting it into an Institution) or rejects
// it. Duplicate pending requests for the same domain are tolerated; uniqueness
// is enforced only against approved institutions at approval time.
type PendingRequest struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ConflictsWith reports whether an approved institution blocks approval of a
// candidate with the given name and domain. Name and domain are each
// independently unique across all institutions.
func (i Institution) ConflictsWith(name, domain string) bool {
	if strings.EqualFold(i.Domain, domain) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(i.Name), strings.TrimSpace(name))
}

// NewRegistrarCode generates an approval code of the form CERT-#### with the
// four digits in [1000, 9999]. The code space is narrow, so callers must
// check freshly generated codes against existing ones.
func NewRegistrarCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate registrar code: %w", err)
	}
	return fmt.Sprintf("CERT-%d", n.Int64()+1000), nil
}
