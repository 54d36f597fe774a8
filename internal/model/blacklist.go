package model

import "time"

// BlacklistType is the kind of value a blacklist row bans.
type BlacklistType string

const (
	BlacklistEmail    BlacklistType = "email"
	BlacklistUsername BlacklistType = "username"
)

// BlacklistEntry bans an email domain or a username.
type BlacklistEntry struct {
	ID        uint          `json:"node_id" gorm:"column:node_id;primaryKey"`
	NodeType  BlacklistType `json:"node_type" gorm:"column:node_type;type:varchar(20);not null;index:idx_blacklist_node,priority:1"`
	NodeValue string        `json:"node_value" gorm:"column:node_value;size:191;not null;index:idx_blacklist_node,priority:2"`
	CreatedAt time.Time     `json:"created_time" gorm:"column:created_time;autoCreateTime"`
}

// TableName overrides the default table name.
func (BlacklistEntry) TableName() string {
	return "blacklist"
}
