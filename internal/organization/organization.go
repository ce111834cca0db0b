package organization

import (
	"strings"
	"time"
)

// Administration kinds. Ministry and provincial government are singular
// roles in the hierarchy; municipal administrations come in five types that
// share generic department templates.
const (
	KindMinistry   = "M"
	KindGovernment = "G"
	KindMunicipalA = "A"
	KindMunicipalB = "B"
	KindMunicipalC = "C"
	KindMunicipalD = "D"
	KindMunicipalE = "E"
)

// Administration is the tenant boundary: every document, department and user
// is scoped to exactly one administration.
type Administration struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Kind      string    `json:"kind" gorm:"column:kind;not null;default:A"`
	Province  string    `json:"province" gorm:"column:province"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Administration) TableName() string {
	return "administrations"
}

func (a *Administration) IsMinistry() bool {
	return a.Kind == KindMinistry
}

func (a *Administration) IsGovernment() bool {
	return a.Kind == KindGovernment
}

func (a *Administration) IsMunicipal() bool {
	return !a.IsMinistry() && !a.IsGovernment()
}

// Department belongs to one administration, or to none when it is a generic
// template usable by every administration of the matching kind.
type Department struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	AdministrationID *int64    `json:"administration_id,omitempty" gorm:"column:administration_id"`
	Kind             string    `json:"kind" gorm:"column:kind;not null;default:A"`
	Name             string    `json:"name" gorm:"not null"`
	Code             string    `json:"code,omitempty" gorm:"column:code"`
	Description      string    `json:"description,omitempty" gorm:"column:description"`
	Active           bool      `json:"active" gorm:"column:active;default:true"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at;default:now()"`

	Administration *Administration `json:"-" gorm:"foreignKey:AdministrationID"`
}

func (Department) TableName() string {
	return "departments"
}

// IsGeneric reports whether the department is a tenant-less template.
func (d *Department) IsGeneric() bool {
	return d.AdministrationID == nil
}

func (d *Department) IsGeneralSecretariat() bool {
	return IsGeneralSecretariat(d.Name)
}

// IsGeneralSecretariat matches the department name used for the sanctioned
// cross-tenant corridors. The match is deliberately loose: the source data
// carries variations like "Secretaria Geral Municipal".
func IsGeneralSecretariat(name string) bool {
	return strings.Contains(strings.ToLower(name), GeneralSecretariatName)
}

// GeneralSecretariatName is the lowercase marker looked for in department names.
const GeneralSecretariatName = "secretaria geral"

// Section belongs to exactly one department; its tenant is derived from the
// department. Section names are unique within a department.
type Section struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	DepartmentID int64     `json:"department_id" gorm:"column:department_id;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Code         string    `json:"code,omitempty" gorm:"column:code"`
	Description  string    `json:"description,omitempty" gorm:"column:description"`
	Active       bool      `json:"active" gorm:"column:active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID"`
}

func (Section) TableName() string {
	return "sections"
}
