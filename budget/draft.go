package budget

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/paycheck/generic"
)

// ProfilePatch carries the fields a user edited. Nil fields keep their
// current value.
type ProfilePatch struct {
	Gross      *generic.Amount  `json:"gross,omitempty"`
	Bonus      *generic.Amount  `json:"bonus,omitempty"`
	PremiumPct *decimal.Decimal `json:"premiumPct,omitempty"`
	StartMonth *int             `json:"startMonth,omitempty"`
}

// ApplyTo returns base with the patched fields replaced.
func (p ProfilePatch) ApplyTo(base IncomeProfile) IncomeProfile {
	if p.Gross != nil {
		base.Gross = *p.Gross
	}
	if p.Bonus != nil {
		base.Bonus = *p.Bonus
	}
	if p.PremiumPct != nil {
		base.PremiumPct = *p.PremiumPct
	}
	if p.StartMonth != nil {
		base.StartMonth = *p.StartMonth
	}
	return base
}

// ProfileDraft is an optimistic edit of the income profile. Until Commit
// returns, the pending profile is shown in place of the confirmed one; a
// failed commit discards it.
type ProfileDraft struct {
	svc  *Service
	user generic.UserID

	mu        sync.Mutex
	confirmed IncomeProfile
	pending   *IncomeProfile
}

// Apply merges patch onto the effective profile and holds the result as
// pending. The full merged profile is returned.
func (d *ProfileDraft) Apply(patch ProfilePatch) IncomeProfile {
	d.mu.Lock()
	defer d.mu.Unlock()

	merged := patch.ApplyTo(d.effectiveLocked())
	d.pending = &merged
	return merged
}

// Effective returns the pending profile if any, else the confirmed one.
func (d *ProfileDraft) Effective() IncomeProfile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.effectiveLocked()
}

func (d *ProfileDraft) effectiveLocked() IncomeProfile {
	if d.pending != nil {
		return *d.pending
	}
	return d.confirmed
}

// Confirmed returns the last profile known to be stored.
func (d *ProfileDraft) Confirmed() IncomeProfile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.confirmed
}

// HasPending reports whether an uncommitted edit is held.
func (d *ProfileDraft) HasPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Discard drops the pending edit.
func (d *ProfileDraft) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil
}

// Commit writes the pending profile as a whole. On success it becomes the
// confirmed profile; on any failure it is discarded and the error returned.
// Committing with nothing pending is a no-op.
func (d *ProfileDraft) Commit(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return nil
	}
	p := *d.pending
	d.pending = nil

	if err := d.svc.SaveProfile(ctx, d.user, p); err != nil {
		return err
	}
	d.confirmed = p
	return nil
}
