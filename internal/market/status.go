package market

import "github.com/shopspring/decimal"

type ParentStatus string

const (
	ParentPending   ParentStatus = "pending"
	ParentPaid      ParentStatus = "paid"
	ParentCompleted ParentStatus = "completed"
	ParentCancelled ParentStatus = "cancelled"
)

type SubStatus string

const (
	SubReceived       SubStatus = "received"
	SubPreparing      SubStatus = "preparing"
	SubReadyForPickup SubStatus = "ready_for_pickup"
	SubShipped        SubStatus = "shipped"
	SubCompleted      SubStatus = "completed"
	SubCancelled      SubStatus = "cancelled"
)

var parentNext = map[ParentStatus]map[ParentStatus]bool{
	ParentPending:   {ParentPaid: true, ParentCancelled: true},
	ParentPaid:      {ParentCompleted: true},
	ParentCompleted: {},
	ParentCancelled: {},
}

// A sub order may skip preparing/shipped: small stalls mark pickup-ready or done
// straight from received.
var subNext = map[SubStatus]map[SubStatus]bool{
	SubReceived:       {SubPreparing: true, SubReadyForPickup: true, SubShipped: true, SubCancelled: true},
	SubPreparing:      {SubReadyForPickup: true, SubShipped: true, SubCancelled: true},
	SubReadyForPickup: {SubCompleted: true, SubCancelled: true},
	SubShipped:        {SubCompleted: true, SubCancelled: true},
	SubCompleted:      {},
	SubCancelled:      {},
}

func CanTransitionParent(from, to ParentStatus) bool { return parentNext[from][to] }

func CanTransitionSub(from, to SubStatus) bool { return subNext[from][to] }

func ValidParentStatus(s ParentStatus) bool {
	_, ok := parentNext[s]
	return ok
}

func ValidSubStatus(s SubStatus) bool {
	_, ok := subNext[s]
	return ok
}

// pointsPerUnit: one loyalty point per 50 spent.
var pointsPerUnit = decimal.NewFromInt(50)

// EarnedPoints returns floor(amount / 50).
func EarnedPoints(amount decimal.Decimal) int {
	return int(amount.Div(pointsPerUnit).Floor().IntPart())
}

type EffectKind string

const EffectCreditPoints EffectKind = "credit_points"

// SideEffect is a command produced by a status transition and applied inside the
// same transaction as the status write.
type SideEffect struct {
	Kind   EffectKind
	Points int
}

// ParentTransitionEffects compares the status before and after an update. Crossing
// the non-paid -> paid boundary yields a credit-points effect; any other pair,
// including a re-save of an already paid order, yields nothing.
func ParentTransitionEffects(before, after ParentStatus, finalAmount decimal.Decimal) []SideEffect {
	if before == ParentPaid || after != ParentPaid {
		return nil
	}
	earned := EarnedPoints(finalAmount)
	if earned <= 0 {
		return nil
	}
	return []SideEffect{{Kind: EffectCreditPoints, Points: earned}}
}
