package model

import (
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "User":
		return db.AutoMigrate(User{})

	case "RefreshToken":
		return db.AutoMigrate(RefreshToken{})

	case "Note":
		return db.AutoMigrate(Note{})

	case "NoteVersion":
		return db.AutoMigrate(NoteVersion{})

	case "Attachment":
		return db.AutoMigrate(Attachment{})
	}
	return nil
}

// AutoMigrateAll 按依赖顺序迁移全部表
func AutoMigrateAll(db *gorm.DB) error {
	for _, key := range []string{"User", "RefreshToken", "Note", "NoteVersion", "Attachment"} {
		if err := AutoMigrate(db, key); err != nil {
			return err
		}
	}
	return nil
}
