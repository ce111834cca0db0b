package postgres

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/organization"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

// GetActor loads the user plus its resolved hierarchy position in one pass.
func (r *Repository) GetActor(userID int64) (*auth.Actor, error) {
	var actor auth.Actor
	query := `SELECT id, email, name, access_level, administration_id, department_id, section_id
	          FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(
		&actor.ID, &actor.Email, &actor.Name, &actor.AccessLevel,
		&actor.AdministrationID, &actor.DepartmentID, &actor.SectionID,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	if actor.AdministrationID != nil {
		var admin organization.Administration
		if err := r.db.Where("id = ?", *actor.AdministrationID).First(&admin).Error; err != nil {
			return nil, err
		}
		actor.Administration = &admin
	}

	if actor.SectionID != nil {
		var section organization.Section
		if err := r.db.Preload("Department").Where("id = ?", *actor.SectionID).First(&section).Error; err != nil {
			return nil, err
		}
		actor.Section = &section
	}

	if actor.DepartmentID != nil {
		var dept organization.Department
		if err := r.db.Where("id = ?", *actor.DepartmentID).First(&dept).Error; err != nil {
			return nil, err
		}
		actor.Department = &dept
	}

	perms, err := r.permissionsFor(userID)
	if err != nil {
		return nil, err
	}
	actor.Permissions = perms

	return &actor, nil
}

func (r *Repository) permissionsFor(userID int64) ([]string, error) {
	permQuery := `SELECT p.name
	              FROM permissions p
	              JOIN user_permissions up ON p.id = up.permission_id
	              WHERE up.user_id = ?`

	rows, err := r.db.Raw(permQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}

	return permissions, rows.Err()
}

// ActorIDsForDepartment lists members assigned directly to a department.
// Used by notification fan-out.
func (r *Repository) ActorIDsForDepartment(departmentID int64) ([]int64, error) {
	return r.actorIDs(`SELECT id FROM users WHERE department_id = ? AND section_id IS NULL AND is_active = true`, departmentID)
}

// ActorIDsForSection lists members of a section.
func (r *Repository) ActorIDsForSection(sectionID int64) ([]int64, error) {
	return r.actorIDs(`SELECT id FROM users WHERE section_id = ? AND is_active = true`, sectionID)
}

func (r *Repository) actorIDs(query string, arg any) ([]int64, error) {
	rows, err := r.db.Raw(query, arg).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ auth.Repository = (*Repository)(nil)
