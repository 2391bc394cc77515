package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Table snapshots as of the migration that introduced them. Later schema
// changes get their own migration instead of editing these.

type users0001 struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
	TelegramID int64          `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
}

func (users0001) TableName() string { return "users" }

type checkIns0002 struct {
	ID                   uint `gorm:"primaryKey"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	UserID               uint   `gorm:"not null;uniqueIndex:idx_check_ins_user_date"`
	Date                 string `gorm:"size:10;not null;uniqueIndex:idx_check_ins_user_date"`
	RelaxationDone       string `gorm:"size:8"`
	RelaxationDuration   string `gorm:"size:32"`
	SoundTherapyDone     string `gorm:"size:8"`
	SoundTherapyDuration string `gorm:"size:32"`
	TinnitusLevel        *int
	AnxietyLevel         *int
}

func (checkIns0002) TableName() string { return "check_ins" }

type users0003 struct {
	Role string `gorm:"size:16;not null;default:patient"`
}

func (users0003) TableName() string { return "users" }

func init() {
	Register("0001_create_users",
		func(db *gorm.DB) error { return db.Migrator().CreateTable(&users0001{}) },
		func(db *gorm.DB) error { return db.Migrator().DropTable(&users0001{}) },
	)
	Register("0002_create_check_ins",
		func(db *gorm.DB) error { return db.Migrator().CreateTable(&checkIns0002{}) },
		func(db *gorm.DB) error { return db.Migrator().DropTable(&checkIns0002{}) },
	)
	Register("0003_add_user_role",
		func(db *gorm.DB) error {
			if err := db.Migrator().AddColumn(&users0003{}, "Role"); err != nil {
				return err
			}
			return db.Exec("UPDATE users SET role = ? WHERE role IS NULL OR role = ''", "patient").Error
		},
		func(db *gorm.DB) error { return db.Migrator().DropColumn(&users0003{}, "Role") },
	)
}
