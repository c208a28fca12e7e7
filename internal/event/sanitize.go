package event

// Sanitize returns the persistable view of a raw event sequence.
//
// Events whose content carries an empty parts slice are runtime-internal
// markers and are dropped. Retained events are copied with execution-action
// and token-usage bookkeeping cleared; all other fields pass through verbatim.
// The function is pure and idempotent: Sanitize(Sanitize(evs)) == Sanitize(evs).
func Sanitize(evs []Event) []Event {
	if evs == nil {
		return nil
	}
	out := make([]Event, 0, len(evs))
	for _, ev := range evs {
		if ev.Content != nil && ev.Content.Parts != nil && len(ev.Content.Parts) == 0 {
			continue
		}
		ev.Actions = nil
		ev.UsageMetadata = nil
		out = append(out, ev)
	}
	return out
}
