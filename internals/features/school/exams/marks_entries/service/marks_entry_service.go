package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupmodel "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
	"sekolahku_backend/internals/helpers/errs"
)

// MarksEntryService memegang ledger nilai: materialisasi bulk, mutasi
// komponen/kehadiran lewat guard latch, verifikasi & publikasi batch.
type MarksEntryService struct {
	DB    *gorm.DB
	Cache *StatsCache // boleh nil (cache nonaktif)
}

func NewMarksEntryService(db *gorm.DB, cache *StatsCache) *MarksEntryService {
	return &MarksEntryService{DB: db, Cache: cache}
}

func (s *MarksEntryService) invalidateStats(ctx context.Context, examID uuid.UUID) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, examID)
	}
}

/* ========================================================
   Lookup
======================================================== */

func (s *MarksEntryService) GetEntry(ctx context.Context, entryID uuid.UUID) (*model.MarksEntryModel, error) {
	var row model.MarksEntryModel
	if err := s.DB.WithContext(ctx).
		Where("marks_entry_id = ?", entryID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("marks entry tidak ditemukan")
		}
		return nil, err
	}
	return &row, nil
}

func (s *MarksEntryService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.MarksEntryModel, error) {
	var rows []model.MarksEntryModel
	err := s.DB.WithContext(ctx).
		Where("marks_entry_exam_id = ?", examID).
		Order("marks_entry_created_at").
		Find(&rows).Error
	return rows, err
}

// group + grading config untuk satu exam (satu group per exam di
// subsistem ini)
func (s *MarksEntryService) groupForExam(ctx context.Context, examID uuid.UUID) (*groupmodel.ExamGroupModel, groupmodel.GradingConfig, error) {
	var g groupmodel.ExamGroupModel
	if err := s.DB.WithContext(ctx).
		Where("exam_group_exam_id = ?", examID).
		First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupmodel.GradingConfig{}, errs.NotFound("exam group untuk exam ini tidak ditemukan")
		}
		return nil, groupmodel.GradingConfig{}, err
	}
	cfg, err := groupmodel.GradingConfigFromJSON(g.ExamGroupGradingConfig)
	if err != nil {
		return nil, groupmodel.GradingConfig{}, err
	}
	return &g, cfg, nil
}

func (s *MarksEntryService) configForEntry(ctx context.Context, entry *model.MarksEntryModel) (groupmodel.GradingConfig, error) {
	_, cfg, err := s.groupForExam(ctx, entry.MarksEntryExamID)
	return cfg, err
}

// GroupIDForExam dipakai layer HTTP untuk cek responsibility guru.
func (s *MarksEntryService) GroupIDForExam(ctx context.Context, examID uuid.UUID) (uuid.UUID, error) {
	g, _, err := s.groupForExam(ctx, examID)
	if err != nil {
		return uuid.Nil, err
	}
	return g.ExamGroupID, nil
}

/* ========================================================
   Bulk materialization
======================================================== */

type BulkCreateError struct {
	StudentID uuid.UUID `json:"student_id"`
	Reason    string    `json:"reason"`
}

type BulkCreateResult struct {
	Created []model.MarksEntryModel `json:"created"`
	Errors  []BulkCreateError       `json:"errors"`
}

// BulkCreate membuat satu entry per siswa roster aktif & eligible,
// sekali saja per exam: entry yang sudah ada → ConflictError, dan race
// check-then-insert ditutup unique index (exam, student). Roster kosong
// sah: created [] / errors [] tanpa menyentuh flag is_marks_entry_started.
func (s *MarksEntryService) BulkCreate(ctx context.Context, examID uuid.UUID, actor uuid.UUID) (*BulkCreateResult, error) {
	g, cfg, err := s.groupForExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.DB.WithContext(ctx).
		Model(&model.MarksEntryModel{}).
		Where("marks_entry_exam_id = ?", examID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, errs.Conflict("marks entries sudah dibuat untuk exam ini")
	}

	var roster []groupmodel.RosterEntryModel
	if err := s.DB.WithContext(ctx).
		Where("roster_entry_group_id = ? AND roster_entry_status = ? AND roster_entry_is_eligible = TRUE",
			g.ExamGroupID, groupmodel.RosterStatusActive).
		Order("roster_entry_roll_number").
		Find(&roster).Error; err != nil {
		return nil, err
	}

	result := &BulkCreateResult{Created: []model.MarksEntryModel{}, Errors: []BulkCreateError{}}
	zeroed := ZeroedComponents(cfg)

	for i := range roster {
		r := &roster[i]
		entry := model.MarksEntryModel{
			MarksEntryExamID:        examID,
			MarksEntrySubjectID:     g.ExamGroupSubjectID,
			MarksEntryStudentID:     r.RosterEntryStudentID,
			MarksEntryRosterEntryID: &r.RosterEntryID,
			MarksEntryPassingMarks:  cfg.PassingMarks,
			MarksEntryResultStatus:  model.ResultPending,
			MarksEntryAuditLog:      []byte("[]"),
		}
		if err := entry.SetComponents(zeroed); err != nil {
			result.Errors = append(result.Errors, BulkCreateError{StudentID: r.RosterEntryStudentID, Reason: err.Error()})
			continue
		}
		if err := Derive(&entry, cfg); err != nil {
			result.Errors = append(result.Errors, BulkCreateError{StudentID: r.RosterEntryStudentID, Reason: err.Error()})
			continue
		}

		if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
			reason := err.Error()
			if isUniqueViolation(err) {
				reason = "entry untuk siswa ini sudah ada"
			}
			result.Errors = append(result.Errors, BulkCreateError{StudentID: r.RosterEntryStudentID, Reason: reason})
			continue
		}
		result.Created = append(result.Created, entry)
	}

	// flag is_marks_entry_started berubah tepat sekali
	if len(result.Created) > 0 && !g.ExamGroupIsMarksEntryStarted {
		if err := s.DB.WithContext(ctx).
			Model(&groupmodel.ExamGroupModel{}).
			Where("exam_group_id = ? AND exam_group_is_marks_entry_started = FALSE", g.ExamGroupID).
			Updates(map[string]interface{}{
				"exam_group_is_marks_entry_started": true,
				"exam_group_version":                gorm.Expr("exam_group_version + 1"),
				"exam_group_last_modified_by":       actor,
				"exam_group_updated_at":             time.Now(),
			}).Error; err != nil {
			return nil, err
		}
	}

	s.invalidateStats(ctx, examID)
	return result, nil
}

/* ========================================================
   Mutasi per entry
======================================================== */

// UpdateMarks menerima entry yang sudah dimuat caller (layer HTTP
// memuatnya sekali untuk memilih guard responsibility) — tidak dibaca
// ulang dari DB.
func (s *MarksEntryService) UpdateMarks(ctx context.Context, entry *model.MarksEntryModel, patch []ComponentPatch, actor uuid.UUID) (*model.MarksEntryModel, error) {
	cfg, err := s.configForEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	if err := ApplyComponentPatch(entry, cfg, patch, actor, time.Now()); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, entry.MarksEntryExamID)
	return entry, nil
}

func (s *MarksEntryService) MarkAttendance(ctx context.Context, entry *model.MarksEntryModel, status model.AttendanceStatus, remarks *string, actor uuid.UUID) (*model.MarksEntryModel, error) {
	cfg, err := s.configForEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	if err := ApplyAttendance(entry, cfg, status, remarks, actor, time.Now()); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, entry.MarksEntryExamID)
	return entry, nil
}

func (s *MarksEntryService) Verify(ctx context.Context, entryID uuid.UUID, actor uuid.UUID) (*model.MarksEntryModel, error) {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	changed, err := VerifyEntry(entry, actor, time.Now())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.DB.WithContext(ctx).Save(entry).Error; err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (s *MarksEntryService) Publish(ctx context.Context, entryID uuid.UUID, actor uuid.UUID) (*model.MarksEntryModel, error) {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	changed, err := PublishEntry(entry, actor, time.Now())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.DB.WithContext(ctx).Save(entry).Error; err != nil {
			return nil, err
		}
		s.invalidateStats(ctx, entry.MarksEntryExamID)
	}
	return entry, nil
}

/* ========================================================
   Batch verify / publish per exam
======================================================== */

type BatchItemError struct {
	EntryID uuid.UUID `json:"entry_id"`
	Reason  string    `json:"reason"`
}

type BatchResult struct {
	Count  int              `json:"count"`
	Errors []BatchItemError `json:"errors"`
}

// VerifyExam memverifikasi semua entry satu exam. Per item independen:
// satu kegagalan tidak menggagalkan yang lain, daftar error dikembalikan
// supaya caller bisa retry subset yang gagal saja.
func (s *MarksEntryService) VerifyExam(ctx context.Context, examID uuid.UUID, actor uuid.UUID) (*BatchResult, error) {
	return s.batchApply(ctx, examID, func(entry *model.MarksEntryModel, now time.Time) (bool, error) {
		return VerifyEntry(entry, actor, now)
	})
}

// PublishExam mempublikasikan semua entry terverifikasi satu exam.
func (s *MarksEntryService) PublishExam(ctx context.Context, examID uuid.UUID, actor uuid.UUID) (*BatchResult, error) {
	res, err := s.batchApply(ctx, examID, func(entry *model.MarksEntryModel, now time.Time) (bool, error) {
		return PublishEntry(entry, actor, now)
	})
	if err == nil && res.Count > 0 {
		s.invalidateStats(ctx, examID)
	}
	return res, err
}

func isUniqueViolation(err error) bool {
	// pgx mengembalikan SQLSTATE 23505 untuk unique violation
	return err != nil && strings.Contains(err.Error(), "23505")
}

func (s *MarksEntryService) batchApply(
	ctx context.Context,
	examID uuid.UUID,
	apply func(entry *model.MarksEntryModel, now time.Time) (bool, error),
) (*BatchResult, error) {
	entries, err := s.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Errors: []BatchItemError{}}
	now := time.Now()

	for i := range entries {
		entry := &entries[i]
		changed, err := apply(entry, now)
		if err != nil {
			result.Errors = append(result.Errors, BatchItemError{EntryID: entry.MarksEntryID, Reason: err.Error()})
			continue
		}
		if !changed {
			continue
		}
		if err := s.DB.WithContext(ctx).Save(entry).Error; err != nil {
			result.Errors = append(result.Errors, BatchItemError{EntryID: entry.MarksEntryID, Reason: err.Error()})
			continue
		}
		result.Count++
	}
	return result, nil
}
