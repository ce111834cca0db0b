package document

import (
	"errors"
	"regexp"
)

var phonePattern = regexp.MustCompile(`^\d{9}$`)

type CreateDocumentDTO struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	DocumentTypeID  int64  `json:"document_type_id"`
	Priority        string `json:"priority,omitempty"`
	Confidentiality string `json:"confidentiality,omitempty"`
	SenderName      string `json:"sender_name"`
	SenderPhone     string `json:"sender_phone"`
	SenderEmail     string `json:"sender_email,omitempty"`
	SenderOrigin    string `json:"sender_origin,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

func (dto *CreateDocumentDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.DocumentTypeID == 0 {
		return errors.New("document_type_id is required")
	}
	if dto.SenderName == "" {
		return errors.New("sender_name is required")
	}
	if !phonePattern.MatchString(dto.SenderPhone) {
		return errors.New("sender_phone must be 9 digits")
	}

	if dto.Priority == "" {
		dto.Priority = PriorityNormal
	}
	switch dto.Priority {
	case PriorityNormal, PriorityUrgent, PriorityVeryUrgent:
	default:
		return errors.New("priority must be one of normal, urgent, very_urgent")
	}

	if dto.Confidentiality == "" {
		dto.Confidentiality = ConfidentialityPublic
	}
	switch dto.Confidentiality {
	case ConfidentialityPublic, ConfidentialityRestricted, ConfidentialityConfidential:
	default:
		return errors.New("confidentiality must be one of public, restricted, confidential")
	}

	if dto.SenderOrigin == "" {
		dto.SenderOrigin = OriginIndividual
	}
	switch dto.SenderOrigin {
	case OriginIndividual, OriginStateInstitution, OriginPublicInstitution, OriginPrivateInstitution, OriginCivilOrganization:
	default:
		return errors.New("sender_origin is not a recognized origin")
	}

	return nil
}
