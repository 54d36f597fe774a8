package model

import "time"

// ClientInfo is the client metadata captured when a session is issued.
type ClientInfo struct {
	IP         string `json:"ip"`
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	OSVersion  string `json:"os_version"`
	DeviceName string `json:"device_name"`
}

// Session is a persisted login. Rows are only ever inserted.
type Session struct {
	ID         uint      `json:"session_id" gorm:"column:session_id;primaryKey"`
	Token      string    `json:"-" gorm:"column:session_token;size:64;uniqueIndex;not null"`
	UserID     uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	CreatedAt  time.Time `json:"session_date" gorm:"column:session_date;not null"`
	IP         string    `json:"user_ip" gorm:"column:user_ip;size:64"`
	Browser    string    `json:"user_browser" gorm:"column:user_browser;size:255"`
	OS         string    `json:"user_os" gorm:"column:user_os;size:64"`
	OSVersion  string    `json:"user_os_version" gorm:"column:user_os_version;size:64"`
	DeviceName string    `json:"user_device_name" gorm:"column:user_device_name;size:64"`
}

// TableName overrides the default table name.
func (Session) TableName() string {
	return "users_sessions"
}
