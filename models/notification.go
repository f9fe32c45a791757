package models

// RecipientsAll is the audience selector that targets every user except the creator.
const RecipientsAll = "all"

// Notification is the authored content of an announcement. It is immutable
// after creation; only an explicit admin delete removes it, together with
// its delivery records.
type Notification struct {
	Model
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"not null"`
	CreatorID   uint   `json:"creator_id" gorm:"not null"`
	// Recipients is either RecipientsAll or the stringified id of a single user.
	Recipients string `json:"recipients" gorm:"not null"`
}

// UserNotification is one recipient's delivery and read record for a
// Notification. The (user_id, notification_id) pair is unique and acts as
// the natural key for mark-as-read.
type UserNotification struct {
	Model
	UserID         uint         `json:"user_id" gorm:"not null;uniqueIndex:idx_user_notification"`
	NotificationID uint         `json:"notification_id" gorm:"not null;uniqueIndex:idx_user_notification"`
	Viewed         bool         `json:"viewed" gorm:"default:false"`
	Notification   Notification `gorm:"foreignKey:NotificationID" json:"notification"`
	User           *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type CreateNotificationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Recipients  string `json:"recipients"`
}
