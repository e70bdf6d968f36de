package models

import "time"

// Role is a named set of permissions within a school.
type Role struct {
	Base
	SchoolID    string `gorm:"type:char(36);not null;index" json:"schoolId"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_roles" json:"users,omitempty"`
}

// Permission grants an action on a resource, e.g. "subjects:write".
type Permission struct {
	Base
	Name       string     `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Resource   string     `gorm:"size:64;not null" json:"resource"`
	Action     string     `gorm:"size:32;not null" json:"action"`
	Conditions Attributes `json:"conditions"`

	Roles []Role `gorm:"many2many:role_permissions" json:"roles,omitempty"`
}

// RolePermission is the join entity between Role and Permission.
type RolePermission struct {
	RoleID       string    `gorm:"type:char(36);primaryKey" json:"roleId"`
	PermissionID string    `gorm:"type:char(36);primaryKey" json:"permissionId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRole is the join entity between User and Role.
type UserRole struct {
	UserID    string    `gorm:"type:char(36);primaryKey" json:"userId"`
	RoleID    string    `gorm:"type:char(36);primaryKey" json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for Role
func (Role) TableName() string {
	return "roles"
}

// TableName overrides the table name for Permission
func (Permission) TableName() string {
	return "permissions"
}

// TableName overrides the table name for RolePermission
func (RolePermission) TableName() string {
	return "role_permissions"
}

// TableName overrides the table name for UserRole
func (UserRole) TableName() string {
	return "user_roles"
}
