package model

// UserModel mirrors the 'users' table owned by the authentication service.
// It is only migrated so that reviews can reference it.
type UserModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email    string `gorm:"type:varchar(254)"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
