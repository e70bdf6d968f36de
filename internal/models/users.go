package models

// User is an account belonging to a school.
type User struct {
	Base
	SchoolID  string `gorm:"type:char(36);not null;index" json:"schoolId"`
	Email     string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName string `gorm:"size:128" json:"firstName"`
	LastName  string `gorm:"size:128" json:"lastName"`
	Active    bool   `gorm:"not null;default:true" json:"active"`

	School  *School      `json:"school,omitempty"`
	Profile *UserProfile `json:"profile,omitempty"`
	Roles   []Role       `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// UserProfile holds optional personal details, one row per user.
type UserProfile struct {
	Base
	UserID      string     `gorm:"type:char(36);not null;uniqueIndex" json:"userId"`
	Phone       string     `gorm:"size:32" json:"phone"`
	Preferences Attributes `json:"preferences"`

	User *User `json:"user,omitempty"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for UserProfile
func (UserProfile) TableName() string {
	return "user_profiles"
}
