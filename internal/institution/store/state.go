package store

import (
	"fmt"

	"certledger/internal/institution/models"
	"certledger/pkg/platform/sentinel"
)

const maxCodeAttempts = 100

// state is the full onboarding dataset. The memory and file backends both
// mutate it through the transition functions below while holding their lock,
// which keeps the approve sequence race-free within a process.
type state struct {
	Pending  []models.PendingRequest `json:"pending"`
	Approved []models.Institution    `json:"approved"`
}

func (s *state) appendPending(req models.PendingRequest) {
	s.Pending = append(s.Pending, req)
}

func (s *state) clone() state {
	c := state{
		Pending:  make([]models.PendingRequest, len(s.Pending)),
		Approved: make([]models.Institution, len(s.Approved)),
	}
	copy(c.Pending, s.Pending)
	copy(c.Approved, s.Approved)
	return c
}

func (s *state) findApproved(domain string) *models.Institution {
	for i := range s.Approved {
		if s.Approved[i].Domain == domain {
			inst := s.Approved[i]
			return &inst
		}
	}
	return nil
}

// approve performs the full pending-to-approved transition for domain.
func (s *state) approve(domain string, newCode CodeFunc) (*models.Institution, error) {
	var match *models.PendingRequest
	for i := range s.Pending {
		if s.Pending[i].Domain == domain {
			match = &s.Pending[i]
			break
		}
	}
	if match == nil {
		return nil, sentinel.ErrNotFound
	}

	for _, inst := range s.Approved {
		if inst.ConflictsWith(match.Name, match.Domain) {
			return nil, sentinel.ErrConflict
		}
	}

	code, err := s.unusedCode(newCode)
	if err != nil {
		return nil, err
	}

	inst := models.Institution{
		Name:   match.Name,
		Domain: match.Domain,
		Code:   code,
	}
	s.Approved = append(s.Approved, inst)
	s.removePending(domain)
	return &inst, nil
}

func (s *state) removePending(domain string) int {
	kept := s.Pending[:0]
	removed := 0
	for _, req := range s.Pending {
		if req.Domain == domain {
			removed++
			continue
		}
		kept = append(kept, req)
	}
	s.Pending = kept
	return removed
}

func (s *state) unusedCode(newCode CodeFunc) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newCode()
		if err != nil {
			return "", err
		}
		if !s.codeInUse(code) {
			return code, nil
		}
	}
	return "", fmt.Errorf("no unused registrar code after %d attempts", maxCodeAttempts)
}

func (s *state) codeInUse(code string) bool {
	for _, inst := range s.Approved {
		if inst.Code == code {
			return true
		}
	}
	return false
}
