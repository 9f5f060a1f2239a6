// Package model contains the GORM persistence models. They mirror the
// database schema and are mapped to and from the pure domain entities at the
// repository boundary.
package model

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Username       string `gorm:"type:varchar(255);uniqueIndex;not null"`
	HashedPassword string `gorm:"type:text;not null"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
