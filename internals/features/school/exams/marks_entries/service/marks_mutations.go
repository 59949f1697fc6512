package service

import (
	"time"

	"github.com/google/uuid"

	groupmodel "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
	"sekolahku_backend/internals/helpers/errs"
)

// ComponentPatch adalah satu item patch nilai komponen.
type ComponentPatch struct {
	Name     string  `json:"name" validate:"required"`
	Obtained float64 `json:"obtained" validate:"min=0"`
	Remarks  *string `json:"remarks,omitempty"`
}

// NeedsModifyPermission membedakan entri pertama (can_enter_marks) dari
// revisi atas nilai yang sudah ada (can_modify_marks).
func NeedsModifyPermission(entry *model.MarksEntryModel) bool {
	return entry.MarksEntryIsEntered
}

// ErrImmutableAfterPublish: latch satu arah; setelah published semua
// mutasi komponen/kehadiran ditolak.
func errImmutableAfterPublish() error {
	return errs.State("ImmutableAfterPublish: entry sudah dipublikasikan")
}

// ApplyComponentPatch menimpa komponen bernama pada entry, mencatat
// audit diff untuk nilai yang berubah, lalu menghitung ulang seluruh
// field turunan. Murni terhadap model — persistence urusan pemanggil.
func ApplyComponentPatch(
	entry *model.MarksEntryModel,
	cfg groupmodel.GradingConfig,
	patch []ComponentPatch,
	actor uuid.UUID,
	now time.Time,
) error {
	if entry.MarksEntryIsPublished {
		return errImmutableAfterPublish()
	}
	if len(patch) == 0 {
		return errs.Validation("patch nilai kosong")
	}

	components, err := entry.Components()
	if err != nil {
		return err
	}
	index := make(map[string]int, len(components))
	for i, c := range components {
		index[c.Name] = i
	}

	for _, p := range patch {
		i, ok := index[p.Name]
		if !ok {
			return errs.Newf(errs.KindValidation, "komponen %q tidak ada di entry ini", p.Name)
		}
		c := &components[i]
		if p.Obtained < 0 || p.Obtained > c.MaxMarks {
			return errs.Newf(errs.KindValidation, "nilai komponen %q di luar rentang 0..%g", p.Name, c.MaxMarks)
		}

		if p.Obtained != c.Obtained {
			prev := c.Obtained
			next := p.Obtained
			if err := entry.AppendAudit(model.AuditLogEntry{
				Action:        "update_marks",
				PerformedBy:   actor,
				PerformedAt:   now,
				PreviousMarks: &prev,
				NewMarks:      &next,
				Details:       p.Name,
			}); err != nil {
				return err
			}
		}

		c.Obtained = p.Obtained
		c.Remarks = p.Remarks
		by := actor
		at := now
		c.EnteredBy = &by
		c.EnteredAt = &at
	}

	if err := entry.SetComponents(components); err != nil {
		return err
	}

	entry.MarksEntryIsEntered = true
	entry.MarksEntryRevisionCount++
	entry.MarksEntryLastRevisedBy = &actor
	revisedAt := now
	entry.MarksEntryLastRevisedAt = &revisedAt

	// revisi setelah verifikasi: verifikasi gugur, wajib diverifikasi ulang
	if entry.MarksEntryIsVerified {
		entry.MarksEntryIsVerified = false
		entry.MarksEntryVerifiedBy = nil
		entry.MarksEntryVerifiedAt = nil
	}

	return Derive(entry, cfg)
}

// ApplyAttendance mengubah blok kehadiran; independen dari nilai.
// absent memaksa result absent lewat Derive.
func ApplyAttendance(
	entry *model.MarksEntryModel,
	cfg groupmodel.GradingConfig,
	status model.AttendanceStatus,
	remarks *string,
	actor uuid.UUID,
	now time.Time,
) error {
	if entry.MarksEntryIsPublished {
		return errImmutableAfterPublish()
	}
	if !model.ValidAttendanceStatus(status) {
		return errs.Newf(errs.KindValidation, "status kehadiran %q tidak dikenal", status)
	}

	entry.MarksEntryAttendanceStatus = status
	entry.MarksEntryAttendanceMarkedBy = &actor
	markedAt := now
	entry.MarksEntryAttendanceMarkedAt = &markedAt
	entry.MarksEntryAttendanceRemarks = remarks

	if err := entry.AppendAudit(model.AuditLogEntry{
		Action:      "mark_attendance",
		PerformedBy: actor,
		PerformedAt: now,
		Details:     string(status),
	}); err != nil {
		return err
	}

	return Derive(entry, cfg)
}

// VerifyEntry men-set flag verifikasi; idempoten kalau sudah verified.
func VerifyEntry(entry *model.MarksEntryModel, actor uuid.UUID, now time.Time) (bool, error) {
	if entry.MarksEntryIsPublished {
		// sudah terminal, verifikasi ulang tidak berarti
		return false, nil
	}
	if entry.MarksEntryIsVerified {
		return false, nil
	}
	if !entry.MarksEntryIsEntered {
		return false, errs.State("nilai belum dientry, tidak bisa diverifikasi")
	}

	entry.MarksEntryIsVerified = true
	entry.MarksEntryVerifiedBy = &actor
	verifiedAt := now
	entry.MarksEntryVerifiedAt = &verifiedAt

	return true, entry.AppendAudit(model.AuditLogEntry{
		Action:      "verify",
		PerformedBy: actor,
		PerformedAt: now,
	})
}

// PublishEntry men-set latch publikasi; gagal StateError kalau belum
// verified, idempoten kalau sudah published.
func PublishEntry(entry *model.MarksEntryModel, actor uuid.UUID, now time.Time) (bool, error) {
	if entry.MarksEntryIsPublished {
		return false, nil
	}
	if !entry.MarksEntryIsVerified {
		return false, errs.State("entry belum diverifikasi, tidak bisa dipublikasikan")
	}

	entry.MarksEntryIsPublished = true
	entry.MarksEntryPublishedBy = &actor
	publishedAt := now
	entry.MarksEntryPublishedAt = &publishedAt

	return true, entry.AppendAudit(model.AuditLogEntry{
		Action:      "publish",
		PerformedBy: actor,
		PerformedAt: now,
	})
}

// ZeroedComponents membentuk komponen awal bulk-create dari grading
// config: semua obtained nol, belum ada enteredBy.
func ZeroedComponents(cfg groupmodel.GradingConfig) []model.MarksComponent {
	out := make([]model.MarksComponent, 0, len(cfg.Components))
	for _, c := range cfg.Components {
		out = append(out, model.MarksComponent{
			Name:      c.Name,
			MaxMarks:  c.MaxMarks,
			Weightage: c.Weightage,
		})
	}
	return out
}
