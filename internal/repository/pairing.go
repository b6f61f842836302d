package repository

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"thinking-of-you-backend/internal/models"
)

const (
	// DefaultCodeTTL is how long a pairing code stays redeemable
	DefaultCodeTTL = 10 * time.Minute

	maxCodeAttempts = 10
	codeNumberRange = 100
)

var (
	codeAdjectives = []string{"gentle", "warm", "soft", "kind", "calm", "quiet", "tender", "sweet", "bright", "light"}
	codeNouns      = []string{"sun", "moon", "star", "river", "ocean", "mountain", "forest", "meadow", "garden", "cloud"}
)

// PairingRegistry holds the live pairing codes, keyed by code string
type PairingRegistry struct {
	mu          sync.Mutex
	codes       map[string]models.PairingCode
	byOwner     map[string]string
	ttl         time.Duration
	uniqueCodes bool
	now         func() time.Time
	generate    func() string
}

// NewPairingRegistry creates a registry issuing codes valid for ttl.
// With uniqueCodes set, issuance avoids strings held live by another owner
func NewPairingRegistry(ttl time.Duration, uniqueCodes bool) *PairingRegistry {
	return NewPairingRegistryWithClock(ttl, uniqueCodes, time.Now)
}

// NewPairingRegistryWithClock is NewPairingRegistry with an explicit time source
func NewPairingRegistryWithClock(ttl time.Duration, uniqueCodes bool, now func() time.Time) *PairingRegistry {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &PairingRegistry{
		codes:       make(map[string]models.PairingCode),
		byOwner:     make(map[string]string),
		ttl:         ttl,
		uniqueCodes: uniqueCodes,
		now:         now,
		generate:    generateCode,
	}
}

// generateCode builds an adjective-noun-number code
func generateCode() string {
	return fmt.Sprintf("%s-%s-%d",
		codeAdjectives[randomIndex(len(codeAdjectives))],
		codeNouns[randomIndex(len(codeNouns))],
		randomIndex(codeNumberRange),
	)
}

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Issue creates a new code for owner, retracting any code the owner already holds
func (r *PairingRegistry) Issue(ownerUserID string) (models.PairingCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.retractLocked(ownerUserID)

	code, err := r.candidateLocked(ownerUserID, now)
	if err != nil {
		return models.PairingCode{}, err
	}

	// A displaced owner loses its code; keep byOwner consistent with codes
	if prev, ok := r.codes[code]; ok && r.byOwner[prev.OwnerUserID] == code {
		delete(r.byOwner, prev.OwnerUserID)
	}

	entry := models.PairingCode{
		Code:        code,
		OwnerUserID: ownerUserID,
		ExpiresAt:   now.Add(r.ttl),
	}
	r.codes[code] = entry
	r.byOwner[ownerUserID] = code
	return entry, nil
}

func (r *PairingRegistry) candidateLocked(ownerUserID string, now time.Time) (string, error) {
	if !r.uniqueCodes {
		return r.generate(), nil
	}
	for i := 0; i < maxCodeAttempts; i++ {
		code := r.generate()
		existing, taken := r.codes[code]
		if !taken || existing.Expired(now) || existing.OwnerUserID == ownerUserID {
			return code, nil
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", maxCodeAttempts, models.ErrCodeSpaceExhausted)
}

// retractLocked removes the live code of owner, if any
func (r *PairingRegistry) retractLocked(ownerUserID string) {
	code, ok := r.byOwner[ownerUserID]
	if !ok {
		return
	}
	delete(r.byOwner, ownerUserID)
	if entry, ok := r.codes[code]; ok && entry.OwnerUserID == ownerUserID {
		delete(r.codes, code)
	}
}

// Redeem consumes code on behalf of joinerUserID and returns the owner's ID
func (r *PairingRegistry) Redeem(code, joinerUserID string) (string, error) {
	return r.RedeemFunc(code, joinerUserID, nil)
}

// RedeemFunc validates code like Redeem and then runs commit with the owner's ID
// while the registry is locked. The code is consumed only if commit returns nil,
// so a rejected pairing leaves it redeemable
func (r *PairingRegistry) RedeemFunc(code, joinerUserID string, commit func(ownerUserID string) error) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.codes[code]
	if !ok {
		return "", fmt.Errorf("code %q: %w", code, models.ErrNotFound)
	}
	if entry.Expired(r.now()) {
		r.deleteLocked(entry)
		return "", fmt.Errorf("code %q: %w", code, models.ErrExpired)
	}
	if entry.OwnerUserID == joinerUserID {
		return "", models.ErrSelfPairing
	}

	if commit != nil {
		if err := commit(entry.OwnerUserID); err != nil {
			return "", err
		}
	}

	r.deleteLocked(entry)
	return entry.OwnerUserID, nil
}

func (r *PairingRegistry) deleteLocked(entry models.PairingCode) {
	delete(r.codes, entry.Code)
	if r.byOwner[entry.OwnerUserID] == entry.Code {
		delete(r.byOwner, entry.OwnerUserID)
	}
}

// Lookup returns the live entry for code without consuming it
func (r *PairingRegistry) Lookup(code string) (models.PairingCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.codes[code]
	return entry, ok
}

// Sweep removes every code that expired before now and returns how many were removed
func (r *PairingRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, entry := range r.codes {
		if entry.ExpiresAt.Before(now) {
			r.deleteLocked(entry)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored codes
func (r *PairingRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}
