package data

import (
	"sync"

	"gorm.io/gorm"
)

// Setting is one row of the runtime settings table. Values here override
// environment defaults so keys and models can change without a redeploy.
type Setting struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:128;uniqueIndex"`
	Value string `gorm:"type:text"`
}

func (Setting) TableName() string { return "settings" }

var (
	settingsCache map[string]string
	settingsMu    sync.RWMutex
)

// LoadSettings loads all settings from the database into cache
func LoadSettings(db *gorm.DB) error {
	var settings []Setting
	if err := db.Find(&settings).Error; err != nil {
		return err
	}

	settingsMu.Lock()
	defer settingsMu.Unlock()

	settingsCache = make(map[string]string)
	for _, s := range settings {
		settingsCache[s.Name] = s.Value
	}

	return nil
}

// GetSetting retrieves a setting value from cache (call LoadSettings first)
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}
