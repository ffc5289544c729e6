package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

func TestToChange(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "a@example.com"}

	ev := changeEvent{OperationType: "insert", FullDocument: user}
	ev.DocumentKey.ID = "u1"
	ch, ok := toChange(ev)
	assert.True(t, ok)
	assert.Equal(t, domain.ChangeInsert, ch.Kind)
	assert.Same(t, user, ch.User)

	ev.OperationType = "replace"
	ch, ok = toChange(ev)
	assert.True(t, ok)
	assert.Equal(t, domain.ChangeUpdate, ch.Kind)

	ev.OperationType = "update"
	ev.FullDocument = nil
	_, ok = toChange(ev)
	assert.False(t, ok, "update without a looked-up document")

	ev.OperationType = "delete"
	ch, ok = toChange(ev)
	assert.True(t, ok)
	assert.Equal(t, domain.Change{Kind: domain.ChangeDelete, ID: "u1"}, ch)

	ev.OperationType = "invalidate"
	_, ok = toChange(ev)
	assert.False(t, ok)
}

func TestPatchDocument(t *testing.T) {
	assert.Empty(t, patchDocument(domain.UserPatch{}))

	name := "New"
	version := int64(7)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	set := patchDocument(domain.UserPatch{DisplayName: &name, Version: &version, UpdatedAt: &at})

	assert.Len(t, set, 3)
	assert.Equal(t, "New", set["display_name"])
	assert.Equal(t, int64(7), set["version"])
	assert.Equal(t, time.UTC, set["updated_at"].(time.Time).Location())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", normalizeEmail("  Ada@Example.COM "))
}
