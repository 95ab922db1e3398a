package a2a

import "regexp"

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9-]+)`)

// Decision is the outcome of scanning an envelope's text against a registry
// snapshot. It is computed fresh per request and never stored.
type Decision struct {
	// Target is the id of the first mention that resolves to a registered
	// peer. Empty means local handling.
	Target string
	// Mention is the first @token seen at all, resolved or not. It lets
	// strict-mode callers distinguish "no mention" from "unknown mention".
	Mention string
}

func (d Decision) Remote() bool { return d.Target != "" }

// ParseMention scans text for @id tokens and resolves the first one that
// exactly matches a key of known. Later tokens are ordinary content. The
// text itself is never rewritten; peers receive the original message,
// mention included.
func ParseMention(text string, known map[string]string) Decision {
	var d Decision
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		id := m[1]
		if d.Mention == "" {
			d.Mention = id
		}
		if _, ok := known[id]; ok {
			d.Target = id
			return d
		}
	}
	return d
}
