package db

import (
	"log"

	"plume/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error
	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the store relies on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if err := SeedRoles(DB); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}
}

// Migrate creates/updates the schema. Split out so tests can run it against
// an in-memory database.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
	)
}

// SeedRoles upserts the three fixed roles by name. Safe to run on every
// startup: existing rows get their permissions and default flag refreshed,
// so permission changes ship with a deploy.
func SeedRoles(gdb *gorm.DB) error {
	roles := []models.Role{
		{
			Name:        models.RoleNameUser,
			IsDefault:   true, // the only default role
			Permissions: int(models.PermFollow | models.PermComment | models.PermWritePosts),
		},
		{
			Name:        models.RoleNameModerator,
			Permissions: int(models.PermFollow | models.PermComment | models.PermWritePosts | models.PermModerateComments),
		},
		{
			Name:        models.RoleNameAdministrator,
			Permissions: int(models.PermAdminister),
		},
	}

	for _, want := range roles {
		var role models.Role
		err := gdb.Where("name = ?", want.Name).First(&role).Error
		if err == gorm.ErrRecordNotFound {
			if err := gdb.Create(&want).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		role.IsDefault = want.IsDefault
		role.Permissions = want.Permissions
		if err := gdb.Save(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
