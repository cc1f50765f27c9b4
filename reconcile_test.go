package prefcenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSubscriber() *Subscriber {
	return &Subscriber{
		Email:       "user@example.com",
		Token:       "f81d4fae-7dec-11d0-a765-00a0c91e6bf6",
		Lang:        "en",
		Format:      FormatHTML,
		Country:     "us",
		Newsletters: []string{"firefox-tips", "mobile"},
	}
}

func TestReconcileNoChanges(t *testing.T) {
	t.Parallel()

	user := testSubscriber()
	plan := Reconcile(user, Submission{
		Lang:        "en",
		Format:      FormatHTML,
		Country:     "us",
		Newsletters: []string{"mobile", "firefox-tips"},
	})

	assert.True(t, plan.Empty())
	assert.False(t, plan.RemoveAll)
	assert.Nil(t, plan.Update.Newsletters)
}

func TestReconcileSingleFieldChange(t *testing.T) {
	t.Parallel()

	user := testSubscriber()

	plan := Reconcile(user, Submission{
		Lang:        "fr",
		Format:      FormatHTML,
		Country:     "us",
		Newsletters: []string{"firefox-tips", "mobile"},
	})
	assert.False(t, plan.Empty())
	assert.Equal(t, "fr", plan.Update.Lang)
	assert.Empty(t, plan.Update.Format)
	assert.Empty(t, plan.Update.Country)
	assert.Nil(t, plan.Update.Newsletters)

	plan = Reconcile(user, Submission{
		Lang:        "en",
		Format:      FormatText,
		Country:     "us",
		Newsletters: []string{"firefox-tips", "mobile"},
	})
	assert.Equal(t, UserUpdate{Format: FormatText}, plan.Update)
}

func TestReconcileNewsletterChange(t *testing.T) {
	t.Parallel()

	user := testSubscriber()
	plan := Reconcile(user, Submission{
		Lang:        "en",
		Format:      FormatHTML,
		Country:     "us",
		Newsletters: []string{"mobile"},
	})

	assert.False(t, plan.Empty())
	assert.Equal(t, []string{"mobile"}, plan.Update.Newsletters)
	assert.Empty(t, plan.Update.Lang)
}

func TestReconcileUncheckEverything(t *testing.T) {
	t.Parallel()

	user := testSubscriber()
	plan := Reconcile(user, Submission{
		Lang:    "en",
		Format:  FormatHTML,
		Country: "us",
	})

	// An empty desired set is still a replacement list, not a no-op.
	assert.False(t, plan.Empty())
	assert.NotNil(t, plan.Update.Newsletters)
	assert.Len(t, plan.Update.Newsletters, 0)
}

func TestReconcileRemoveAllSkipsDiffing(t *testing.T) {
	t.Parallel()

	user := testSubscriber()
	plan := Reconcile(user, Submission{
		Lang:        "de",
		Format:      FormatText,
		Country:     "fr",
		Newsletters: []string{"something-else"},
		RemoveAll:   true,
	})

	assert.True(t, plan.RemoveAll)
	assert.True(t, plan.Update.Empty())
}

func TestReconcileSortsDesiredSet(t *testing.T) {
	t.Parallel()

	user := testSubscriber()
	plan := Reconcile(user, Submission{
		Lang:        "en",
		Format:      FormatHTML,
		Country:     "us",
		Newsletters: []string{"zebra", "alpha", "mobile"},
	})

	assert.Equal(t, []string{"alpha", "mobile", "zebra"}, plan.Update.Newsletters)
}
