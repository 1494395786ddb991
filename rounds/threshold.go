package rounds

import (
	rtypes "votingfsm_demo/rounds/types"
	"votingfsm_demo/types"
)

// ThresholdResult is the verdict of one evaluation of a round's collection.
type ThresholdResult struct {
	Status rtypes.OutcomeStatus

	// Winner is a representative payload of the settled group; nil unless
	// Status is OutcomeSettled.
	Winner types.Payload
	// Count is the size of the largest selection group seen.
	Count int
}

// Evaluate groups the collection's payloads by selection key and decides
// whether a threshold agreement exists, is still reachable, or has failed.
//
// The verdict depends only on the set of live payloads, never on arrival
// order: groups are compared by size and, between equal sizes, by selection
// key, so independent evaluators of the same collection always agree.
//
// Unreachability is detected early: if the largest group plus every
// participant who has not submitted yet still falls short of the threshold,
// no future submission can change the verdict.
func Evaluate(collection *rtypes.PayloadSet, nbParticipants, threshold int) ThresholdResult {
	groups := make(map[string]int)
	representatives := make(map[string]types.Payload)

	collection.Iterate(func(_ string, p types.Payload) bool {
		key := p.SelectionKey()
		groups[key]++
		if _, ok := representatives[key]; !ok {
			representatives[key] = p
		}
		return false
	})

	bestKey := ""
	bestCount := 0
	for key, count := range groups {
		if count > bestCount || (count == bestCount && key < bestKey) {
			bestKey, bestCount = key, count
		}
	}

	if bestCount >= threshold {
		return ThresholdResult{
			Status: rtypes.OutcomeSettled,
			Winner: representatives[bestKey],
			Count:  bestCount,
		}
	}

	remaining := nbParticipants - collection.Size()
	if bestCount+remaining < threshold {
		return ThresholdResult{
			Status: rtypes.OutcomeUnreachable,
			Count:  bestCount,
		}
	}

	return ThresholdResult{
		Status: rtypes.OutcomePending,
		Count:  bestCount,
	}
}
