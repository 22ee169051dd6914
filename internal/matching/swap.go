package matching

import (
	"sort"
	"strings"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// SwapPool is the replacement pool for one seat.
type SwapPool struct {
	Assignable   []Candidate
	Unassignable []Candidate
}

func (e *Engine) swapOptions(seat models.Seat) evalOptions {
	return evalOptions{replacing: seat.TAEmail, swap: true}
}

// SwapCandidates evaluates every TA as a replacement for the seat holder.
// The seat under swap does not count against anyone and its holder is left
// out of the pool. Assignable TAs come best first; unassignable ones by email.
func (e *Engine) SwapCandidates(snap *Snapshot, seat models.Seat) (SwapPool, error) {
	candidates, _, err := e.evaluate(snap, e.swapOptions(seat))
	if err != nil {
		return SwapPool{}, err
	}
	pool := SwapPool{Assignable: Rank(candidates)}
	for _, c := range candidates {
		if !c.Assignable {
			pool.Unassignable = append(pool.Unassignable, c)
		}
	}
	sort.SliceStable(pool.Unassignable, func(i, j int) bool {
		return pool.Unassignable[i].TA.Email < pool.Unassignable[j].TA.Email
	})
	return pool, nil
}

// CheckReplacement evaluates a single TA as the new holder of seat. The
// returned candidate is unassignable with a reason when the TA may not take
// the seat.
func (e *Engine) CheckReplacement(snap *Snapshot, seat models.Seat, email string) (Candidate, error) {
	return e.replacement(snap, seat, email, e.swapOptions(seat))
}

// ValidateReplacement is CheckReplacement without the pending-request
// exclusion, for accepting a request whose target is by definition pending.
func (e *Engine) ValidateReplacement(snap *Snapshot, seat models.Seat, email string) (Candidate, error) {
	opts := e.swapOptions(seat)
	opts.swap = false
	return e.replacement(snap, seat, email, opts)
}

func (e *Engine) replacement(snap *Snapshot, seat models.Seat, email string, opts evalOptions) (Candidate, error) {
	if strings.EqualFold(email, seat.TAEmail) {
		return Candidate{TA: models.TA{Email: email}, Reason: ReasonCurrentHolder}, nil
	}
	candidates, _, err := e.evaluate(snap, opts)
	if err != nil {
		return Candidate{}, err
	}
	for _, c := range candidates {
		if strings.EqualFold(c.TA.Email, email) {
			return c, nil
		}
	}
	return Candidate{TA: models.TA{Email: email}, Reason: ReasonUnknownTA}, nil
}
