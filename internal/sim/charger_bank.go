package sim

import (
	"math"
	"sort"

	"evtolsim/internal/model"
)

// chargerSlot is one active charging session.
type chargerSlot struct {
	aircraft    *model.Aircraft
	startWait   int64
	startCharge int64
	endCharge   int64
	seq         int64
}

// waiter is one aircraft queued for a free charger.
type waiter struct {
	aircraft  *model.Aircraft
	startWait int64
}

// ChargerBank is the fixed-size pool of charging slots plus a FIFO wait
// list. It is the second of the two long-lived EventSources.
type ChargerBank struct {
	slotCount int
	active    []chargerSlot // sorted by (endCharge, seq) ascending
	waitList  []waiter
	seq       int64
}

// NewChargerBank constructs an empty bank with the given slot count.
func NewChargerBank(slotCount int) *ChargerBank {
	return &ChargerBank{slotCount: slotCount}
}

// admit hands aircraft to the bank at time now: it either starts charging
// immediately in a free slot, or joins the FIFO wait list.
func (b *ChargerBank) admit(ctx *dispatchContext, now int64, aircraft *model.Aircraft) {
	if len(b.active) < b.slotCount {
		chargeSeconds := ctx.derivedFor(aircraft.Class).ChargeSeconds
		b.insertActive(chargerSlot{
			aircraft:    aircraft,
			startWait:   now,
			startCharge: now,
			endCharge:   now + chargeSeconds,
			seq:         b.nextSeq(),
		}, ctx, true)
		return
	}
	b.waitList = append(b.waitList, waiter{aircraft: aircraft, startWait: now})
}

func (b *ChargerBank) nextSeq() int64 {
	s := b.seq
	b.seq++
	return s
}

// insertActive inserts a slot preserving (endCharge, seq) order. notify is
// true when the caller is mutating the bank from outside its own dispatch
// (e.g. Flight.Dispatch calling admit); the run loop already re-installs the
// bank after its own dispatch returns, so the internal waiter-promotion path
// passes false to avoid resorting a source during its own dispatch.
func (b *ChargerBank) insertActive(s chargerSlot, ctx *dispatchContext, notify bool) {
	i := sort.Search(len(b.active), func(i int) bool {
		if b.active[i].endCharge != s.endCharge {
			return b.active[i].endCharge > s.endCharge
		}
		return b.active[i].seq > s.seq
	})
	b.active = append(b.active, chargerSlot{})
	copy(b.active[i+1:], b.active[i:])
	b.active[i] = s

	if notify && i == 0 && ctx != nil {
		ctx.scheduler.Resort(b)
	}
}

// NextDue implements EventSource.
func (b *ChargerBank) NextDue() int64 {
	if len(b.active) == 0 {
		return math.MaxInt64
	}
	return b.active[0].endCharge
}

// Label implements EventSource.
func (b *ChargerBank) Label() string { return "charger-bank" }

// Dispatch implements EventSource: release every slot due at now, recording
// a ChargeRecord and returning the aircraft to the pending queue, then
// promote waiters into any slots that freed up.
func (b *ChargerBank) Dispatch(now int64, ctx *dispatchContext) bool {
	for len(b.active) > 0 && b.active[0].endCharge <= now {
		s := b.active[0]
		b.active = b.active[1:]

		ctx.records.addCharge(ChargeRecord{
			Tail:                  s.aircraft.Tail,
			Class:                 s.aircraft.Class,
			StartWaitTime:         s.startWait,
			StartChargeTime:       s.startCharge,
			EndTime:               now,
			ChargeSeconds:         now - s.startCharge,
			ChargePlusWaitSeconds: now - s.startWait,
		})

		readyAt := now + ctx.passengerDelay()
		ctx.pending.insert(ctx, s.aircraft, readyAt)
	}

	for len(b.active) < b.slotCount && len(b.waitList) > 0 {
		w := b.waitList[0]
		b.waitList = b.waitList[1:]
		chargeSeconds := ctx.derivedFor(w.aircraft.Class).ChargeSeconds
		b.insertActive(chargerSlot{
			aircraft:    w.aircraft,
			startWait:   w.startWait,
			startCharge: now,
			endCharge:   now + chargeSeconds,
			seq:         b.nextSeq(),
		}, ctx, false)
	}

	return true
}

// CloseOut implements EventSource: every active session is recorded as a
// truncated ChargeRecord; the wait list is discarded without record. A slot
// with no elapsed charge time (the horizon landed at or before it started)
// produced no observable event and is not recorded.
func (b *ChargerBank) CloseOut(now int64, ctx *dispatchContext) {
	for _, s := range b.active {
		if now-s.startCharge <= 0 {
			continue
		}
		ctx.records.addCharge(ChargeRecord{
			Tail:                  s.aircraft.Tail,
			Class:                 s.aircraft.Class,
			StartWaitTime:         s.startWait,
			StartChargeTime:       s.startCharge,
			EndTime:               now,
			ChargeSeconds:         now - s.startCharge,
			ChargePlusWaitSeconds: now - s.startWait,
			Truncated:             true,
		})
	}
	b.active = nil
	b.waitList = nil
}
