package models

// RoutingTag is a selectable category supplied by a tag-capable destination
// channel. Moderated tags are staff-only classifications and are never offered
// to requesters.
type RoutingTag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji,omitempty"`
	Moderated bool   `json:"moderated"`
}

// EligibleRoutingTags filters out moderated tags, leaving the set a requester
// may pick from.
func EligibleRoutingTags(tags []RoutingTag) []RoutingTag {
	eligible := make([]RoutingTag, 0, len(tags))
	for _, tag := range tags {
		if tag.Moderated {
			continue
		}
		eligible = append(eligible, tag)
	}
	return eligible
}
