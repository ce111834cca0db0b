package movement

// ForwardDTO carries a proposed destination. The ids are re-validated
// server-side against the resolver; exactly one must be set.
type ForwardDTO struct {
	DestinationDepartmentID *int64 `json:"destination_department_id,omitempty"`
	DestinationSectionID    *int64 `json:"destination_section_id,omitempty"`
	Note                    string `json:"note,omitempty"`
}

type DespatchDTO struct {
	Text string `json:"text"`
}

type FinalizeDTO struct {
	Decision string `json:"decision"`
	Despatch string `json:"despatch,omitempty"`
}
