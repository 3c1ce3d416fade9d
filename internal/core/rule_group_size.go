package core

import (
	"context"
	"fmt"

	"eventcore/pkg/domain"
)

// NewGroupSizeRule returns the in-transaction rule bounding group registration
// sizes by the owning event's configured limits.
func NewGroupSizeRule() domain.Rule {
	return groupSizeRule{}
}

type groupSizeRule struct{}

func (groupSizeRule) Name() string { return "group_size_bounds" }

func (groupSizeRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	type group struct {
		size       int
		subEventID string
	}
	groups := make(map[string]*group)
	for _, row := range view.ListSubEventParticipants() {
		if row.GroupID == nil {
			continue
		}
		g, ok := groups[*row.GroupID]
		if !ok {
			g = &group{subEventID: row.SubEventID}
			groups[*row.GroupID] = g
		}
		g.size++
	}

	res := domain.Result{}
	for groupID, g := range groups {
		subEvent, ok := view.FindSubEvent(g.subEventID)
		if !ok {
			continue
		}
		event, ok := view.FindEvent(subEvent.EventID)
		if !ok || !event.IsGroupEvent || event.MinGroupSize == nil || event.MaxGroupSize == nil {
			continue
		}
		if g.size < *event.MinGroupSize || g.size > *event.MaxGroupSize {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "group_size_bounds",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("group %s has %d members, outside [%d,%d] for event %s", groupID, g.size, *event.MinGroupSize, *event.MaxGroupSize, event.Name),
				Entity:   domain.EntitySubEventParticipant,
				EntityID: groupID,
			})
		}
	}
	return res, nil
}
