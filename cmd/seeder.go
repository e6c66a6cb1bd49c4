package cmd

import (
	"fmt"
	"log"

	"github.com/ajit432/hospital-leave/internal/core/database"
	coreUser "github.com/ajit432/hospital-leave/internal/core/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an administrator, a few doctors and the standard leave categories for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		initLogger(cfg)

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := database.NewGorm(sqlDB.DB, cfg.Observability.Logging.Level)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := db.Exec("TRUNCATE leave_applications, doctor_leave_balance, leave_categories, users RESTART IDENTITY CASCADE").Error; err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "Passw0rd!"
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		users := []struct {
			Name       string
			Email      string
			Role       coreUser.Role
			Department string
			EmployeeID string
		}{
			{"Hospital Admin", "admin@hospital.com", coreUser.RoleAdmin, "Administration", "ADM001"},
			{"Dr. Anita Sharma", "anita.sharma@hospital.com", coreUser.RoleDoctor, "Cardiology", "DOC001"},
			{"Dr. Rahul Mehta", "rahul.mehta@hospital.com", coreUser.RoleDoctor, "Pediatrics", "DOC002"},
			{"Dr. Priya Nair", "priya.nair@hospital.com", coreUser.RoleDoctor, "Emergency Medicine", "DOC003"},
		}

		for _, u := range users {
			if exists(db, "SELECT 1 FROM users WHERE LOWER(email) = LOWER(?)", u.Email) {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, department, employee_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role.String(), u.Department, u.EmployeeID,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s: %s\n", u.Role, u.Email)
		}

		categories := []struct {
			Name    string
			MaxDays int
			Desc    string
		}{
			{"Annual Leave", 21, "Paid yearly vacation"},
			{"Sick Leave", 12, "Illness or medical appointments"},
			{"Casual Leave", 7, "Short personal matters"},
			{"Maternity Leave", 180, "Leave around childbirth"},
			{"Conference Leave", 10, "Medical conferences and training"},
		}

		for _, c := range categories {
			if exists(db, "SELECT 1 FROM leave_categories WHERE LOWER(name) = LOWER(?)", c.Name) {
				continue
			}
			if err := db.Exec(
				"INSERT INTO leave_categories (name, max_days, description, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				c.Name, c.MaxDays, c.Desc,
			).Error; err != nil {
				log.Fatalf("failed to insert leave category %s: %v", c.Name, err)
			}
		}

		fmt.Println("Seeded leave categories")
		fmt.Println("All seeded users share the password:", password)
	},
}

func exists(db *gorm.DB, query string, args ...interface{}) bool {
	var one int
	return db.Raw(query, args...).Row().Scan(&one) == nil
}
