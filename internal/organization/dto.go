package organization

import "errors"

type CreateDepartmentDTO struct {
	AdministrationID *int64 `json:"administration_id,omitempty"`
	Kind             string `json:"kind"`
	Name             string `json:"name"`
	Code             string `json:"code,omitempty"`
	Description      string `json:"description,omitempty"`
}

func (dto CreateDepartmentDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	switch dto.Kind {
	case KindMinistry, KindGovernment, KindMunicipalA, KindMunicipalB, KindMunicipalC, KindMunicipalD, KindMunicipalE:
	default:
		return errors.New("kind must be one of M, G, A, B, C, D, E")
	}
	return nil
}

type CreateSectionDTO struct {
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	Description  string `json:"description,omitempty"`
}

func (dto CreateSectionDTO) Validate() error {
	if dto.DepartmentID == 0 {
		return errors.New("department_id is required")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// SectionOption is the reduced shape returned to destination pickers.
type SectionOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
