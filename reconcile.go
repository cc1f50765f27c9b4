package prefcenter

import "sort"

// Submission is the state a user asked for on the manage-subscriptions form.
// Newsletters holds exactly the ids they left checked.
type Submission struct {
	Lang        string
	Format      string
	Country     string
	Newsletters []string
	RemoveAll   bool
}

// Plan is the set of remote writes needed to move a subscriber from their
// current record to a submitted state: either nothing, one combined update,
// or one unsubscribe-all. Never both.
type Plan struct {
	Update    UserUpdate
	RemoveAll bool
}

// Empty reports whether no remote write is needed.
func (p Plan) Empty() bool {
	return !p.RemoveAll && p.Update.Empty()
}

// Reconcile computes the minimal remote writes for a submission. When
// RemoveAll is set no diffing happens at all: the only write is an
// unsubscribe-everything call with the opt-out flag. Otherwise each of lang,
// format and country is included only when it differs from the current
// record, and the newsletter membership is included, as a full replacement
// list, only when the desired set differs from the current one.
func Reconcile(user *Subscriber, sub Submission) Plan {
	if sub.RemoveAll {
		return Plan{RemoveAll: true}
	}

	var update UserUpdate
	if sub.Lang != user.Lang {
		update.Lang = sub.Lang
	}
	if sub.Format != user.Format {
		update.Format = sub.Format
	}
	if sub.Country != user.Country {
		update.Country = sub.Country
	}
	if !sameSet(user.Newsletters, sub.Newsletters) {
		desired := make([]string, len(sub.Newsletters))
		copy(desired, sub.Newsletters)
		sort.Strings(desired)
		update.Newsletters = desired
	}

	return Plan{Update: update}
}

func sameSet(a, b []string) bool {
	as := make(map[string]bool, len(a))
	for _, s := range a {
		as[s] = true
	}
	bs := make(map[string]bool, len(b))
	for _, s := range b {
		bs[s] = true
	}
	if len(as) != len(bs) {
		return false
	}
	for s := range bs {
		if !as[s] {
			return false
		}
	}
	return true
}
