package model

// ProfileSettings 用户个性化设置，每个用户最多一条
type ProfileSettings struct {
	ID                   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Theme                string `gorm:"size:20" json:"theme"`
	Language             string `gorm:"size:10" json:"language"`
}

func (ProfileSettings) TableName() string {
	return "profile_settings"
}

const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
)
