// Package edgelimit implements best-effort sliding-window rate limiting on
// top of an external key-value store, for environments like edge workers
// where no in-process state survives between invocations.
//
// A RuleSet holds one or more "N actions per window" rules under a storage
// namespace. Check loads the history for a key, tests every rule at an
// explicit instant, and returns a Verdict. An allowing verdict carries a
// Ticket; the action is only charged against the limit when the caller
// redeems it, so actions that never happen cost nothing:
//
//	rules, _ := edgelimit.NewRuleSet("ratelimit")
//	_ = rules.AddLimit(5*time.Second, 2)
//	_ = rules.AddLimit(time.Hour, 50)
//
//	lim, _ := edgelimit.New(store, rules)
//	v, err := lim.Check(ctx, clientIP, time.Now())
//	if err != nil { ... }          // store failure: caller picks the policy
//	if !v.Allowed { ... }          // reject, hint v.RetryAfter
//	doTheThing()
//	_ = v.Ticket.Redeem(ctx)       // count it, best effort
//
// The store gives no atomicity: checks and redemptions for the same key may
// interleave across invocations and the last write wins, so clients can
// transiently exceed a limit. That trade is deliberate.
package edgelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/AlexKimmel/edgelimit/kv"
)

// Verdict is the outcome of a Check.
type Verdict struct {
	// Allowed reports whether the action may proceed.
	Allowed bool
	// Ticket commits the action to storage when redeemed. Set only when
	// Allowed is true and at least one rule is configured.
	Ticket *Ticket
	// Rule is the violated rule with the nearest free slot, when denied.
	Rule Rule
	// RetryAfter is how long until that slot frees, when denied.
	RetryAfter time.Duration
}

// Limiter binds a rule set to a store.
type Limiter struct {
	store   kv.Store
	rules   *RuleSet
	log     zerolog.Logger
	metrics *Metrics
}

// New creates a limiter for rules backed by store.
func New(store kv.Store, rules *RuleSet, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("edgelimit: store is required")
	}
	if rules == nil {
		return nil, errors.New("edgelimit: rule set is required")
	}
	l := &Limiter{
		store: store,
		rules: rules,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Check decides whether an action for key is permitted at now. It reads
// from the store and never writes; a discarded verdict leaves the stored
// history exactly as it was. The instant is an explicit parameter so hosts
// control the time source and tests can use synthetic clocks.
//
// A store failure is returned as-is with no default verdict; whether to
// fail open or closed is the caller's policy.
func (l *Limiter) Check(ctx context.Context, key string, now time.Time) (Verdict, error) {
	storeKey := l.rules.namespace + "/" + key

	raw, found, err := l.store.Get(ctx, storeKey)
	if err != nil {
		l.metrics.storeError("get")
		return Verdict{}, fmt.Errorf("edgelimit: load record %q: %w", storeKey, err)
	}

	var rec Record
	if found {
		var decodeErr error
		rec, decodeErr = decodeRecord(raw)
		if decodeErr != nil {
			// Fail open: treat foreign or corrupted bytes as no history.
			l.metrics.decodeFallback()
			l.log.Warn().Str("key", storeKey).Err(decodeErr).Msg("discarding undecodable record")
		}
	}

	eval := l.rules.Evaluate(rec, now)
	if !eval.Allowed {
		l.metrics.check(false)
		l.log.Debug().Str("key", storeKey).Dur("retry_after", eval.RetryAfter).Msg("deny")
		return Verdict{Rule: eval.Rule, RetryAfter: eval.RetryAfter}, nil
	}

	l.metrics.check(true)
	l.log.Debug().Str("key", storeKey).Msg("allow")

	v := Verdict{Allowed: true}
	if len(l.rules.rules) > 0 {
		v.Ticket = &Ticket{
			limiter: l,
			key:     storeKey,
			stamp:   eval.Stamp,
			pruned:  eval.Pruned,
		}
	}
	return v, nil
}

// ErrTicketRedeemed is returned by Redeem after a ticket has already been
// consumed.
var ErrTicketRedeemed = errors.New("edgelimit: ticket already redeemed")

// Ticket is a one-shot capability to commit an allowed action to storage.
// It is only meaningful for the key and instant it was issued against.
// Discarding it is free and leaves the store untouched.
type Ticket struct {
	limiter  *Limiter
	key      string
	stamp    int64
	pruned   Record
	redeemed bool
}

// Redeem records the action the ticket was issued for: the pruned history
// captured at check time plus the new stamp is written back under the same
// key, unconditionally. The value expires one second after the horizon, so
// idle keys clean themselves up.
//
// Redeem consumes the ticket; a second call returns ErrTicketRedeemed. A
// failed write does not consume it, so the caller may retry if it wants to.
// Tickets are not safe for concurrent use.
func (t *Ticket) Redeem(ctx context.Context) error {
	if t.redeemed {
		return ErrTicketRedeemed
	}

	raw, err := EncodeRecord(t.pruned.add(t.stamp))
	if err != nil {
		return fmt.Errorf("edgelimit: encode record %q: %w", t.key, err)
	}

	ttl := t.limiter.rules.Horizon() + time.Second
	if err := t.limiter.store.Put(ctx, t.key, raw, ttl); err != nil {
		t.limiter.metrics.storeError("put")
		return fmt.Errorf("edgelimit: persist record %q: %w", t.key, err)
	}

	t.redeemed = true
	t.limiter.metrics.redemption()
	t.limiter.log.Debug().Str("key", t.key).Int64("stamp", t.stamp).Msg("redeemed")
	return nil
}
