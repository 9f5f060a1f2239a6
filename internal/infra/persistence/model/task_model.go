package model

// TaskModel mirrors the 'tasks' table. Owner holds the username of the
// creating principal.
type TaskModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"type:varchar(255);index;not null"`
	Completed bool   `gorm:"not null;default:false"`
	Owner     string `gorm:"type:varchar(255);index;not null"`
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}
