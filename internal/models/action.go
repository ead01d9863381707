package models

// Action identifies a document mutation kind flowing through the
// pipeline. Only a subset of actions produce history versions.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionPublish   Action = "publish"
	ActionUnpublish Action = "unpublish"
	ActionFindOne   Action = "findOne"
	ActionDelete    Action = "delete"
)

// RecordsHistory reports whether the action qualifies for a history
// snapshot at all. Reads and deletes never do.
func (a Action) RecordsHistory() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionPublish, ActionUnpublish:
		return true
	default:
		return false
	}
}
