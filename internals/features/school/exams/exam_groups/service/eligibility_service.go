package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	dirsvc "sekolahku_backend/internals/features/school/exams/directory/service"
	model "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	"sekolahku_backend/internals/helpers/errs"
)

// EligibilityResolver menurunkan selection criterion menjadi himpunan
// student id konkret. Pure terhadap isi direktori saat dipanggil:
// tidak ada cache — membership boleh berubah antar panggilan, snapshot
// yang sudah masuk roster tidak ikut berubah.
type EligibilityResolver struct {
	Directory dirsvc.StudentDirectory
}

func NewEligibilityResolver(dir dirsvc.StudentDirectory) *EligibilityResolver {
	return &EligibilityResolver{Directory: dir}
}

// Resolve mengembalikan student id unik, terurut, setelah filter dan
// exclusion. Exclusion selalu diterapkan terakhir, apapun tipe selection.
func (r *EligibilityResolver) Resolve(ctx context.Context, sel model.SelectionCriterion) ([]uuid.UUID, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	var (
		records []dirsvc.StudentRecord
		err     error
	)

	switch sel.Type {
	case model.SelectionAll:
		records, err = r.Directory.ListActive(ctx)
	case model.SelectionByDepartment:
		records, err = r.Directory.ListByDepartment(ctx, sel.DepartmentIDs)
	case model.SelectionBySubDepartment:
		records, err = r.Directory.ListBySubDepartment(ctx, sel.SubDepartmentIDs)
	case model.SelectionByBatch:
		records, err = r.Directory.ListByBatch(ctx, sel.BatchIDs)
	case model.SelectionCustom:
		records, err = r.resolveCustom(ctx, sel.StudentIDs)
	}
	if err != nil {
		return nil, err
	}

	excluded := make(map[uuid.UUID]bool, len(sel.Exclude))
	for _, id := range sel.Exclude {
		excluded[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(records))
	out := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		if seen[rec.ID] || excluded[rec.ID] {
			continue
		}
		if !passesFilters(rec, sel.Filters) {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec.ID)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// ResolveNonEmpty seperti Resolve tapi gagal ValidationError kalau
// selection non-custom menghasilkan himpunan kosong (dipakai sebelum
// finalize).
func (r *EligibilityResolver) ResolveNonEmpty(ctx context.Context, sel model.SelectionCriterion) ([]uuid.UUID, error) {
	ids, err := r.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 && sel.Type != model.SelectionCustom {
		return nil, errs.Validation("selection tidak menghasilkan siswa yang eligible")
	}
	return ids, nil
}

// resolveCustom memvalidasi bahwa semua id literal benar-benar ada.
func (r *EligibilityResolver) resolveCustom(ctx context.Context, ids []uuid.UUID) ([]dirsvc.StudentRecord, error) {
	found, err := r.Directory.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dirsvc.StudentRecord, 0, len(ids))
	for _, id := range ids {
		rec, ok := found[id]
		if !ok {
			return nil, errs.Newf(errs.KindValidation, "siswa %s tidak ditemukan di direktori", id)
		}
		out = append(out, rec)
	}
	return out, nil
}

func passesFilters(rec dirsvc.StudentRecord, f model.SelectionFilters) bool {
	if f.OnlyActiveStudents && !rec.IsActive {
		return false
	}
	if f.MinAttendancePct != nil {
		if rec.AttendancePct == nil || *rec.AttendancePct < *f.MinAttendancePct {
			return false
		}
	}
	return true
}
