// Package chore resolves which assigned chores a child should see at a
// given moment. Nothing here writes; callers re-run it whenever
// completions, assignments or the active period change.
package chore

import (
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

type Status string

const (
	StatusDue      Status = "due"
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
)

// Instance is one checklist row: an assignment joined with its chore and
// today's completion, if any.
type Instance struct {
	Assignment model.ChoreAssignment `json:"assignment"`
	Chore      model.Chore           `json:"chore"`
	Completion *model.Completion     `json:"completion"`
	Status     Status                `json:"status"`
}

// Snapshot is everything the resolver reads. Completions should already be
// narrowed to the current local day.
type Snapshot struct {
	Assignments []model.ChoreAssignment
	Chores      []model.Chore
	Completions []model.Completion
	Day         time.Weekday
	Period      *model.TimePeriod
}

// CurrentChores returns the child's chores due on the snapshot day in the
// active period. With no active period the result is empty.
func CurrentChores(childID string, s Snapshot) []Instance {
	if s.Period == nil {
		return nil
	}
	return resolve(childID, s, func(a model.ChoreAssignment) bool {
		return a.TimePeriods.Contains(s.Period.ID)
	})
}

// AllTodayChores returns the child's chores due on the snapshot day in any
// period.
func AllTodayChores(childID string, s Snapshot) []Instance {
	return resolve(childID, s, func(model.ChoreAssignment) bool { return true })
}

func resolve(childID string, s Snapshot, inPeriod func(model.ChoreAssignment) bool) []Instance {
	chores := make(map[string]model.Chore, len(s.Chores))
	for _, c := range s.Chores {
		chores[c.ID] = c
	}

	var out []Instance
	for _, a := range s.Assignments {
		if a.ChildID != childID || !a.DaysOfWeek.Contains(s.Day) || !inPeriod(a) {
			continue
		}
		c, ok := chores[a.ChoreID]
		if !ok {
			// chore deleted out from under the assignment
			continue
		}
		inst := Instance{Assignment: a, Chore: c, Status: StatusDue}
		if comp := firstCompletion(s.Completions, a.ID); comp != nil {
			inst.Completion = comp
			inst.Status = StatusPending
			if comp.Terminal() {
				inst.Status = StatusVerified
			}
		}
		out = append(out, inst)
	}
	return out
}

func firstCompletion(completions []model.Completion, assignmentID string) *model.Completion {
	for i := range completions {
		if completions[i].AssignmentID == assignmentID {
			c := completions[i]
			return &c
		}
	}
	return nil
}

// Progress counts rows that have been marked done, pending or verified.
func Progress(instances []Instance) (done, total int) {
	for _, inst := range instances {
		if inst.Completion != nil {
			done++
		}
	}
	return done, len(instances)
}
