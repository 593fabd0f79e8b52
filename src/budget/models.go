package budget

import (
	"time"

	"gorm.io/gorm"
)

// ModelPricing holds per-model USD rates per million tokens.
type ModelPricing struct {
	Model                string  `gorm:"primaryKey;size:128"`
	PromptPerMillion     float64 `gorm:"not null"`
	CompletionPerMillion float64 `gorm:"not null"`
}

func (ModelPricing) TableName() string { return "model_pricing" }

// UserCredit is the prepaid balance a user draws model calls against.
type UserCredit struct {
	UserID    string  `gorm:"primaryKey;size:64"`
	Balance   float64 `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (UserCredit) TableName() string { return "user_credit" }

// UsageEntry is one ledger row written after a completed paid call.
type UsageEntry struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	UserID           string `gorm:"size:64;index"`
	Model            string `gorm:"size:128"`
	Route            string `gorm:"size:64"`
	PromptTokens     int
	CompletionTokens int
	Cost             float64
	CreatedAt        time.Time
}

func (UsageEntry) TableName() string { return "usage_ledger" }

// Migrate creates the budget tables if they do not exist yet.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ModelPricing{}, &UserCredit{}, &UsageEntry{})
}
