package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sekolahku_backend/internals/helpers/errs"
)

/* ========================================================
   SelectionCriterion (tagged union, disimpan verbatim di group)
======================================================== */

type SelectionType string

const (
	SelectionAll             SelectionType = "all"
	SelectionByDepartment    SelectionType = "by_department"
	SelectionBySubDepartment SelectionType = "by_sub_department"
	SelectionByBatch         SelectionType = "by_batch"
	SelectionCustom          SelectionType = "custom"
)

type SelectionFilters struct {
	MinAttendancePct   *float64 `json:"min_attendance_pct,omitempty"`
	OnlyActiveStudents bool     `json:"only_active_students"`
}

// SelectionCriterion: varian mana yang terisi ditentukan Type, sisanya
// diabaikan — dicek exhaustively oleh resolver, bukan duck-typing.
type SelectionCriterion struct {
	Type             SelectionType    `json:"type"`
	DepartmentIDs    []uuid.UUID      `json:"department_ids,omitempty"`
	SubDepartmentIDs []uuid.UUID      `json:"sub_department_ids,omitempty"`
	BatchIDs         []uuid.UUID      `json:"batch_ids,omitempty"`
	StudentIDs       []uuid.UUID      `json:"student_ids,omitempty"`
	Exclude          []uuid.UUID      `json:"exclude,omitempty"`
	Filters          SelectionFilters `json:"filters"`
}

// Validate memastikan varian yang dipilih membawa datanya.
func (s *SelectionCriterion) Validate() error {
	switch s.Type {
	case SelectionAll:
		return nil
	case SelectionByDepartment:
		if len(s.DepartmentIDs) == 0 {
			return errs.Validation("department_ids wajib diisi untuk selection by_department")
		}
	case SelectionBySubDepartment:
		if len(s.SubDepartmentIDs) == 0 {
			return errs.Validation("sub_department_ids wajib diisi untuk selection by_sub_department")
		}
	case SelectionByBatch:
		if len(s.BatchIDs) == 0 {
			return errs.Validation("batch_ids wajib diisi untuk selection by_batch")
		}
	case SelectionCustom:
		if len(s.StudentIDs) == 0 {
			return errs.Validation("student_ids wajib diisi untuk selection custom")
		}
	default:
		return errs.Newf(errs.KindValidation, "selection type %q tidak dikenal", s.Type)
	}
	return nil
}

func (s SelectionCriterion) ToJSON() (datatypes.JSON, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func SelectionFromJSON(raw datatypes.JSON) (SelectionCriterion, error) {
	var s SelectionCriterion
	if len(raw) == 0 {
		return s, errs.Validation("selection kosong")
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, errs.Wrap(errs.KindValidation, "selection tidak bisa dibaca", err)
	}
	return s, nil
}
