package model

import "fmt"

// EntityKind is the namespace a username is looked up in.
type EntityKind string

const (
	EntityUser  EntityKind = "user"
	EntityPage  EntityKind = "page"
	EntityGroup EntityKind = "group"
)

// ParseEntityKind validates a kind received from a client.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case EntityUser, EntityPage, EntityGroup:
		return EntityKind(s), nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
}

// Page is a public page; its page_name shares the username namespace rules.
type Page struct {
	ID    uint   `json:"page_id" gorm:"column:page_id;primaryKey"`
	Name  string `json:"page_name" gorm:"column:page_name;size:64;uniqueIndex;not null"`
	Title string `json:"page_title" gorm:"column:page_title;size:255;not null"`
	Admin uint   `json:"page_admin" gorm:"column:page_admin;not null;index"`
}

// TableName overrides the default table name.
func (Page) TableName() string {
	return "pages"
}

// Group is a user group; its group_name shares the username namespace rules.
type Group struct {
	ID    uint   `json:"group_id" gorm:"column:group_id;primaryKey"`
	Name  string `json:"group_name" gorm:"column:group_name;size:64;uniqueIndex;not null"`
	Title string `json:"group_title" gorm:"column:group_title;size:255;not null"`
	Admin uint   `json:"group_admin" gorm:"column:group_admin;not null;index"`
}

// TableName overrides the default table name.
func (Group) TableName() string {
	return "groups"
}
