package cmd

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/records-management/internal/organization"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			clearSeedData(db)
		}

		seedOrganization(db)
		seedDocumentTypes(db)
		seedUsers(db)

		fmt.Println("Seed data loaded successfully")
	},
}

func clearSeedData(db *sqlx.DB) {
	tables := []string{
		"movements", "documents", "user_permissions", "users",
		"permissions", "document_types", "sections", "departments",
		"administrations",
	}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

type seedAdministration struct {
	Name     string
	Kind     string
	Province string
}

func seedOrganization(db *sqlx.DB) {
	administrations := []seedAdministration{
		{"Ministerio da Administracao Estatal", organization.KindMinistry, ""},
		{"Governo Provincial de Aileu", organization.KindGovernment, "Aileu"},
		{"Governo Provincial de Baucau", organization.KindGovernment, "Baucau"},
		{"Administracao Municipal de Aileu", organization.KindMunicipalA, "Aileu"},
		{"Administracao Municipal de Baucau", organization.KindMunicipalB, "Baucau"},
	}

	for _, a := range administrations {
		id := lookupID(db, "SELECT id FROM administrations WHERE name = $1", a.Name)
		if id == 0 {
			err := db.QueryRow(
				"INSERT INTO administrations (name, kind, province, created_at) VALUES ($1, $2, $3, now()) RETURNING id",
				a.Name, a.Kind, a.Province).Scan(&id)
			if err != nil {
				log.Fatalf("failed to insert administration %s: %v", a.Name, err)
			}
			fmt.Printf("Seeded administration: %s\n", a.Name)
		}

		// Every administration gets its general secretariat and a records
		// department with two sections.
		gsID := seedDepartment(db, "Secretaria Geral", id)
		seedDepartment(db, "Direcao de Administracao e Financas", id)
		seedSection(db, "Seccao de Expediente", gsID)
		seedSection(db, "Seccao de Arquivo", gsID)
	}
}

func seedDepartment(db *sqlx.DB, name string, administrationID int64) int64 {
	id := lookupID(db,
		"SELECT id FROM departments WHERE name = $1 AND administration_id = $2", name, administrationID)
	if id != 0 {
		return id
	}
	err := db.QueryRow(
		"INSERT INTO departments (name, administration_id, created_at) VALUES ($1, $2, now()) RETURNING id",
		name, administrationID).Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert department %s: %v", name, err)
	}
	return id
}

func seedSection(db *sqlx.DB, name string, departmentID int64) int64 {
	id := lookupID(db,
		"SELECT id FROM sections WHERE name = $1 AND department_id = $2", name, departmentID)
	if id != 0 {
		return id
	}
	err := db.QueryRow(
		"INSERT INTO sections (name, department_id, created_at) VALUES ($1, $2, now()) RETURNING id",
		name, departmentID).Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert section %s: %v", name, err)
	}
	return id
}

func seedDocumentTypes(db *sqlx.DB) {
	types := []struct {
		Name     string
		Deadline int
	}{
		{"Oficio", 15},
		{"Requerimento", 30},
		{"Despacho", 10},
		{"Relatorio", 45},
	}

	for _, t := range types {
		if lookupID(db, "SELECT id FROM document_types WHERE name = $1", t.Name) != 0 {
			continue
		}
		_, err := db.Exec(
			"INSERT INTO document_types (name, deadline_days, active, created_at) VALUES ($1, $2, true, now())",
			t.Name, t.Deadline)
		if err != nil {
			log.Fatalf("failed to insert document type %s: %v", t.Name, err)
		}
		fmt.Printf("Seeded document type: %s\n", t.Name)
	}
}

func seedUsers(db *sqlx.DB) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

	ministryID := lookupID(db, "SELECT id FROM administrations WHERE kind = 'M' LIMIT 1")
	gsID := lookupID(db,
		"SELECT id FROM departments WHERE administration_id = $1 AND lower(name) LIKE '%secretaria geral%'", ministryID)

	users := []struct {
		Email            string
		Name             string
		AccessLevel      string
		AdministrationID sql.NullInt64
		DepartmentID     sql.NullInt64
	}{
		{"admin@records.gov", "System Administrator", "system_admin", sql.NullInt64{}, sql.NullInt64{}},
		{"director@records.gov", "Ministry Director", "municipal_director",
			sql.NullInt64{Int64: ministryID, Valid: ministryID != 0},
			sql.NullInt64{Int64: gsID, Valid: gsID != 0}},
		{"clerk@records.gov", "Registry Clerk", "clerk",
			sql.NullInt64{Int64: ministryID, Valid: ministryID != 0},
			sql.NullInt64{Int64: gsID, Valid: gsID != 0}},
	}

	for _, u := range users {
		if lookupID(db, "SELECT id FROM users WHERE email = $1", u.Email) != 0 {
			continue
		}
		_, err := db.Exec(
			`INSERT INTO users (email, name, password_hash, access_level, administration_id, department_id, is_active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())`,
			u.Email, u.Name, string(hash), u.AccessLevel, u.AdministrationID, u.DepartmentID)
		if err != nil {
			log.Fatalf("failed to insert user %s: %v", u.Email, err)
		}
		fmt.Printf("Seeded user: %s\n", u.Email)
	}

	permissions := []struct {
		Name string
		Desc string
	}{
		{"register_documents", "Can register incoming documents"},
		{"forward_documents", "Can forward documents"},
		{"despatch_documents", "Can record despatches"},
		{"finalize_documents", "Can approve, reject or archive documents"},
		{"manage_document_types", "Can manage the document type catalog"},
	}

	for _, p := range permissions {
		if lookupID(db, "SELECT id FROM permissions WHERE name = $1", p.Name) != 0 {
			continue
		}
		if _, err := db.Exec(
			"INSERT INTO permissions (name, description, created_at) VALUES ($1, $2, now())", p.Name, p.Desc); err != nil {
			log.Fatalf("failed to insert permission %s: %v", p.Name, err)
		}
	}

	directorID := lookupID(db, "SELECT id FROM users WHERE email = $1", "director@records.gov")
	for _, p := range permissions {
		grantPermission(db, directorID, p.Name)
	}

	clerkID := lookupID(db, "SELECT id FROM users WHERE email = $1", "clerk@records.gov")
	grantPermission(db, clerkID, "register_documents")
	grantPermission(db, clerkID, "forward_documents")
}

func grantPermission(db *sqlx.DB, userID int64, permission string) {
	if userID == 0 {
		return
	}
	pid := lookupID(db, "SELECT id FROM permissions WHERE name = $1", permission)
	if pid == 0 {
		log.Fatalf("permission not found: %s", permission)
	}
	if lookupID(db,
		"SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission_id = $2", userID, pid) != 0 {
		return
	}
	if _, err := db.Exec(
		"INSERT INTO user_permissions (user_id, permission_id, created_at) VALUES ($1, $2, now())", userID, pid); err != nil {
		log.Fatalf("failed to grant permission %s: %v", permission, err)
	}
}

func lookupID(db *sqlx.DB, query string, args ...interface{}) int64 {
	var id int64
	if err := db.QueryRow(query, args...).Scan(&id); err != nil {
		return 0
	}
	return id
}
