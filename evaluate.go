package edgelimit

import "time"

// Evaluation is the outcome of running a rule set against one record at a
// single instant.
type Evaluation struct {
	// Allowed is false when at least one rule is at its limit.
	Allowed bool
	// Rule is the violated rule whose oldest counted action ages out
	// soonest. Only meaningful when Allowed is false.
	Rule Rule
	// RetryAfter is how long until that action ages out. Only meaningful
	// when Allowed is false.
	RetryAfter time.Duration
	// Pruned is the history inside the horizon at now. It is what a commit
	// persists, so commit need not re-fetch and re-prune.
	Pruned Record
	// Stamp is the unix second to record if the action proceeds.
	Stamp int64
}

// Evaluate prunes rec against the rule-set horizon and tests every rule at
// now. The evaluation is pure: callers own fetching the record and
// persisting the result.
//
// An action one window old still counts; it stops counting one second
// later. Stamps in the future relative to a regressed clock count normally.
//
// Nothing guards the gap between the read that produced rec and the write
// that persists the outcome. Two overlapping check/commit sequences for the
// same key may interleave, and the later write wins, so an action can go
// uncounted. The limiter is best-effort by contract.
func (rs *RuleSet) Evaluate(rec Record, now time.Time) Evaluation {
	nowSec := now.Unix()

	// No rules configured: trivially allowed, nothing worth recording.
	if len(rs.rules) == 0 {
		return Evaluation{Allowed: true, Pruned: rec, Stamp: nowSec}
	}

	horizonSecs := int64(rs.Horizon() / time.Second)
	pruned := rec.prune(nowSec, horizonSecs)

	eval := Evaluation{Allowed: true, Pruned: pruned, Stamp: nowSec}
	for _, rule := range rs.rules {
		windowSecs := int64(rule.Window / time.Second)
		sum, oldest, ok := pruned.countWithin(nowSec, windowSecs)
		if sum < rule.Max || !ok {
			continue
		}
		retry := time.Duration(windowSecs-(nowSec-oldest)) * time.Second
		if eval.Allowed || retry < eval.RetryAfter {
			eval.Allowed = false
			eval.Rule = rule
			eval.RetryAfter = retry
		}
	}
	return eval
}
