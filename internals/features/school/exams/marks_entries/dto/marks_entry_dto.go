package dto

import (
	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
	service "sekolahku_backend/internals/features/school/exams/marks_entries/service"
)

/* =========================================================
   1) REQUESTS
   ========================================================= */

type ComponentPatchRequest struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Obtained float64 `json:"obtained" validate:"min=0"`
	Remarks  *string `json:"remarks" validate:"omitempty,max=500"`
}

type UpdateMarksRequest struct {
	Components []ComponentPatchRequest `json:"components" validate:"required,min=1,dive"`
}

func (r UpdateMarksRequest) ToPatches() []service.ComponentPatch {
	out := make([]service.ComponentPatch, 0, len(r.Components))
	for _, c := range r.Components {
		out = append(out, service.ComponentPatch{
			Name:     c.Name,
			Obtained: c.Obtained,
			Remarks:  c.Remarks,
		})
	}
	return out
}

type MarkAttendanceRequest struct {
	Status  model.AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Remarks *string                `json:"remarks" validate:"omitempty,max=500"`
}

/* =========================================================
   2) RESPONSES
   ========================================================= */

// MarksEntryResponse = model + blok JSONB yang sudah di-decode supaya
// frontend tidak perlu parse dua kali.
type MarksEntryResponse struct {
	model.MarksEntryModel
	Components []model.MarksComponent `json:"components"`
	AuditLog   []model.AuditLogEntry  `json:"audit_log"`
}

func FromModel(m *model.MarksEntryModel) (MarksEntryResponse, error) {
	comps, err := m.Components()
	if err != nil {
		return MarksEntryResponse{}, err
	}
	log, err := m.AuditLog()
	if err != nil {
		return MarksEntryResponse{}, err
	}
	return MarksEntryResponse{
		MarksEntryModel: *m,
		Components:      comps,
		AuditLog:        log,
	}, nil
}

func FromModels(rows []model.MarksEntryModel) ([]MarksEntryResponse, error) {
	out := make([]MarksEntryResponse, 0, len(rows))
	for i := range rows {
		r, err := FromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
