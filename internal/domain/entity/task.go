package entity

// Task is a single task record. Owner is the username of the principal that
// created it, stamped at creation time and never reassigned.
type Task struct {
	ID        int64
	Title     string
	Completed bool
	Owner     string
}
