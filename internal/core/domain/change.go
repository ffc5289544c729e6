package domain

// ChangeKind identifies the type of a store notification.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// Change is a single push notification from the data store.
// User is nil for deletions.
type Change struct {
	Kind ChangeKind
	ID   string
	User *User
}
