package postgres

import (
	"github.com/frahmantamala/records-management/internal/organization"
	"gorm.io/gorm"
)

// OrganizationRepository implements organization.Repository using GORM. The
// corridor lookups mirror the hierarchy rules: they only ever surface
// departments named "Secretaria Geral" of the foreign tenant.
type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) GetAdministration(id int64) (*organization.Administration, error) {
	var admin organization.Administration
	if err := r.db.Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *OrganizationRepository) ListAdministrations() ([]*organization.Administration, error) {
	var admins []*organization.Administration
	err := r.db.Order("name").Find(&admins).Error
	return admins, err
}

func (r *OrganizationRepository) GetDepartment(id int64) (*organization.Department, error) {
	var dept organization.Department
	if err := r.db.Preload("Administration").Where("id = ?", id).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *OrganizationRepository) GetSection(id int64) (*organization.Section, error) {
	var section organization.Section
	if err := r.db.Preload("Department").Where("id = ?", id).First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *OrganizationRepository) UnitsVisibleTo(administrationID int64, kind string) ([]*organization.Department, error) {
	var depts []*organization.Department
	err := r.db.
		Where("administration_id = ? OR (administration_id IS NULL AND kind = ?)", administrationID, kind).
		Order("name").
		Find(&depts).Error
	return depts, err
}

func (r *OrganizationRepository) DepartmentsOwnedBy(administrationID int64) ([]*organization.Department, error) {
	var depts []*organization.Department
	err := r.db.
		Where("administration_id = ?", administrationID).
		Order("name").
		Find(&depts).Error
	return depts, err
}

func (r *OrganizationRepository) SectionsForDepartment(departmentID int64) ([]*organization.Section, error) {
	var sections []*organization.Section
	err := r.db.
		Where("department_id = ?", departmentID).
		Order("name").
		Find(&sections).Error
	return sections, err
}

func (r *OrganizationRepository) GovernmentGeneralSecretariats() ([]*organization.Department, error) {
	return r.generalSecretariats(r.db.
		Where("administration_id IN (?)", r.administrationIDsByKind(organization.KindGovernment)))
}

func (r *OrganizationRepository) MinistryGeneralSecretariats() ([]*organization.Department, error) {
	return r.generalSecretariats(r.db.
		Where("administration_id IN (?)", r.administrationIDsByKind(organization.KindMinistry)))
}

func (r *OrganizationRepository) MunicipalGeneralSecretariatsInProvince(province string) ([]*organization.Department, error) {
	sub := r.db.Model(&organization.Administration{}).
		Select("id").
		Where("province = ? AND kind NOT IN ?", province, []string{organization.KindGovernment, organization.KindMinistry})
	return r.generalSecretariats(r.db.Where("administration_id IN (?)", sub))
}

func (r *OrganizationRepository) GovernmentGeneralSecretariatsInProvince(province string) ([]*organization.Department, error) {
	sub := r.db.Model(&organization.Administration{}).
		Select("id").
		Where("province = ? AND kind = ?", province, organization.KindGovernment)
	return r.generalSecretariats(r.db.Where("administration_id IN (?)", sub))
}

func (r *OrganizationRepository) generalSecretariats(tx *gorm.DB) ([]*organization.Department, error) {
	var depts []*organization.Department
	err := tx.
		Where("lower(name) LIKE ?", "%"+organization.GeneralSecretariatName+"%").
		Order("name").
		Find(&depts).Error
	return depts, err
}

func (r *OrganizationRepository) administrationIDsByKind(kind string) *gorm.DB {
	return r.db.Model(&organization.Administration{}).
		Select("id").
		Where("kind = ?", kind)
}

func (r *OrganizationRepository) AllDepartments() ([]*organization.Department, error) {
	var depts []*organization.Department
	err := r.db.Order("name").Find(&depts).Error
	return depts, err
}

func (r *OrganizationRepository) AllSections() ([]*organization.Section, error) {
	var sections []*organization.Section
	err := r.db.Order("name").Find(&sections).Error
	return sections, err
}

func (r *OrganizationRepository) CreateAdministration(admin *organization.Administration) error {
	return r.db.Create(admin).Error
}

func (r *OrganizationRepository) CreateDepartment(dept *organization.Department) error {
	return r.db.Create(dept).Error
}

func (r *OrganizationRepository) CreateSection(section *organization.Section) error {
	return r.db.Create(section).Error
}
