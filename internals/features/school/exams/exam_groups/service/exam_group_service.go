package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	model "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	"sekolahku_backend/internals/helpers/errs"
)

// ExamGroupService adalah orchestrator workflow aggregate exam group:
// semua guard transisi status + mutasi roster/penugasan lewat sini,
// controller tinggal memanggil.
type ExamGroupService struct {
	DB       *gorm.DB
	Resolver *EligibilityResolver
}

func NewExamGroupService(db *gorm.DB, resolver *EligibilityResolver) *ExamGroupService {
	return &ExamGroupService{DB: db, Resolver: resolver}
}

/* ========================================================
   Create + read
======================================================== */

type CreateGroupInput struct {
	ExamID        uuid.UUID
	SubjectID     *uuid.UUID
	Name          string
	Description   *string
	Selection     model.SelectionCriterion
	GradingConfig *model.GradingConfig // nil → seed dari katalog subject
	Actor         uuid.UUID
}

func (s *ExamGroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*model.ExamGroupModel, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errs.Validation("nama group wajib diisi")
	}
	if err := in.Selection.Validate(); err != nil {
		return nil, err
	}

	cfg := in.GradingConfig
	if cfg == nil {
		seeded, err := s.seedGradingConfig(ctx, in.SubjectID)
		if err != nil {
			return nil, err
		}
		cfg = seeded
	}
	if len(cfg.GradeBoundaries) == 0 {
		cfg.GradeBoundaries = model.DefaultGradeBoundaries()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	selJSON, err := in.Selection.ToJSON()
	if err != nil {
		return nil, err
	}
	cfgJSON, err := cfg.ToJSON()
	if err != nil {
		return nil, err
	}

	row := model.ExamGroupModel{
		ExamGroupExamID:        in.ExamID,
		ExamGroupSubjectID:     in.SubjectID,
		ExamGroupName:          strings.TrimSpace(in.Name),
		ExamGroupDescription:   in.Description,
		ExamGroupSelection:     selJSON,
		ExamGroupGradingConfig: cfgJSON,
		ExamGroupStatus:        model.GroupStatusDraft,
		ExamGroupVersion:       1,
		ExamGroupCreatedBy:     in.Actor,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// snapshot kecil dari katalog subject, loose-coupling ke tabel subjects
type subjectDefaultsRow struct {
	TotalMarks   float64 `gorm:"column:subject_total_marks"`
	PassingMarks float64 `gorm:"column:subject_passing_marks"`
	Components   []byte  `gorm:"column:subject_components"`
}

func (s *ExamGroupService) seedGradingConfig(ctx context.Context, subjectID *uuid.UUID) (*model.GradingConfig, error) {
	if subjectID == nil {
		return nil, errs.Validation("grading config wajib diisi kalau group tidak terikat subject")
	}
	var row subjectDefaultsRow
	if err := s.DB.WithContext(ctx).
		Table("subjects").
		Select("subject_total_marks, subject_passing_marks, subject_components").
		Where("subject_id = ? AND subject_deleted_at IS NULL", *subjectID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("subject tidak ditemukan")
		}
		return nil, err
	}

	cfg := model.GradingConfig{
		TotalMarks:   row.TotalMarks,
		PassingMarks: row.PassingMarks,
	}
	if len(row.Components) > 0 {
		if err := json.Unmarshal(row.Components, &cfg.Components); err != nil {
			return nil, errs.Wrap(errs.KindValidation, "komponen default subject tidak bisa dibaca", err)
		}
	}
	if len(cfg.Components) == 0 {
		cfg.Components = []model.GradingComponent{{Name: "Theory", MaxMarks: cfg.TotalMarks, Weightage: 100}}
	}
	return &cfg, nil
}

func (s *ExamGroupService) GetGroup(ctx context.Context, groupID uuid.UUID) (*model.ExamGroupModel, error) {
	var row model.ExamGroupModel
	if err := s.DB.WithContext(ctx).
		Where("exam_group_id = ?", groupID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("exam group tidak ditemukan")
		}
		return nil, err
	}
	return &row, nil
}

func (s *ExamGroupService) ListRoster(ctx context.Context, groupID uuid.UUID) ([]model.RosterEntryModel, error) {
	var rows []model.RosterEntryModel
	err := s.DB.WithContext(ctx).
		Where("roster_entry_group_id = ?", groupID).
		Order("roster_entry_roll_number").
		Find(&rows).Error
	return rows, err
}

func (s *ExamGroupService) ListTeachers(ctx context.Context, groupID uuid.UUID) ([]model.TeacherAssignmentModel, error) {
	var rows []model.TeacherAssignmentModel
	err := s.DB.WithContext(ctx).
		Where("teacher_assignment_group_id = ?", groupID).
		Order("teacher_assignment_assigned_at").
		Find(&rows).Error
	return rows, err
}

type ListGroupsInput struct {
	ExamID *uuid.UUID
	Status *model.ExamGroupStatus
	Limit  int
	Offset int
}

func (s *ExamGroupService) ListGroups(ctx context.Context, in ListGroupsInput) ([]model.ExamGroupModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.ExamGroupModel{})
	if in.ExamID != nil {
		q = q.Where("exam_group_exam_id = ?", *in.ExamID)
	}
	if in.Status != nil {
		q = q.Where("exam_group_status = ?", *in.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.ExamGroupModel
	err := q.Order("exam_group_created_at DESC").
		Limit(in.Limit).Offset(in.Offset).
		Find(&rows).Error
	return rows, total, err
}

// PatchGroup hanya mengubah metadata deskriptif; selection & grading
// config terkunci begitu group dibuat.
func (s *ExamGroupService) PatchGroup(ctx context.Context, groupID uuid.UUID, name, description *string, actor uuid.UUID, expectedVersion *int) (*model.ExamGroupModel, error) {
	return s.mutateGroup(ctx, groupID, expectedVersion, actor, func(tx *gorm.DB, group *model.ExamGroupModel) error {
		if name != nil {
			n := strings.TrimSpace(*name)
			if n == "" {
				return errs.Validation("nama group wajib diisi")
			}
			group.ExamGroupName = n
		}
		if description != nil {
			group.ExamGroupDescription = description
		}
		return nil
	})
}

// DeleteGroup soft-delete; hanya group draft/cancelled yang boleh dihapus.
func (s *ExamGroupService) DeleteGroup(ctx context.Context, groupID uuid.UUID, actor uuid.UUID) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.ExamGroupStatus != model.GroupStatusDraft && group.ExamGroupStatus != model.GroupStatusCancelled {
		return errs.State("group yang sudah berjalan tidak boleh dihapus, gunakan cancel")
	}
	return s.DB.WithContext(ctx).
		Where("exam_group_id = ?", groupID).
		Delete(&model.ExamGroupModel{}).Error
}

/* ========================================================
   Mutasi aggregate (semua lewat guard versi optimistic)
======================================================== */

// mutateGroup menjalankan fn dalam transaksi, lalu menghitung ulang
// statistik cache dan menaikkan exam_group_version dengan guard
// WHERE version = versi yang dibaca. Nol baris ter-update berarti ada
// penulis lain menang duluan → ConflictError VersionMismatch.
func (s *ExamGroupService) mutateGroup(
	ctx context.Context,
	groupID uuid.UUID,
	expectedVersion *int,
	actor uuid.UUID,
	fn func(tx *gorm.DB, g *model.ExamGroupModel) error,
) (*model.ExamGroupModel, error) {
	var out *model.ExamGroupModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.ExamGroupModel
		if err := tx.Where("exam_group_id = ?", groupID).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("exam group tidak ditemukan")
			}
			return err
		}
		if expectedVersion != nil && *expectedVersion != g.ExamGroupVersion {
			return errs.Conflict("VersionMismatch: exam group sudah berubah, muat ulang lalu coba lagi")
		}

		readVersion := g.ExamGroupVersion

		if err := fn(tx, &g); err != nil {
			return err
		}

		stats, err := recomputeStatistics(tx, groupID)
		if err != nil {
			return err
		}
		statsJSON, err := json.Marshal(stats)
		if err != nil {
			return err
		}

		res := tx.Model(&model.ExamGroupModel{}).
			Where("exam_group_id = ? AND exam_group_version = ?", groupID, readVersion).
			Updates(map[string]interface{}{
				"exam_group_name":                   g.ExamGroupName,
				"exam_group_description":            g.ExamGroupDescription,
				"exam_group_status":                 g.ExamGroupStatus,
				"exam_group_roster_seq":             g.ExamGroupRosterSeq,
				"exam_group_is_marks_entry_started": g.ExamGroupIsMarksEntryStarted,
				"exam_group_statistics":             statsJSON,
				"exam_group_version":                readVersion + 1,
				"exam_group_last_modified_by":       actor,
				"exam_group_updated_at":             time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Conflict("VersionMismatch: exam group sudah berubah, muat ulang lalu coba lagi")
		}

		g.ExamGroupVersion = readVersion + 1
		g.ExamGroupLastModifiedBy = &actor
		g.ExamGroupStatistics = statsJSON
		out = &g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func recomputeStatistics(tx *gorm.DB, groupID uuid.UUID) (model.GroupStatistics, error) {
	var stats model.GroupStatistics

	var total, active, eligible, teachers int64
	if err := tx.Model(&model.RosterEntryModel{}).
		Where("roster_entry_group_id = ?", groupID).
		Count(&total).Error; err != nil {
		return stats, err
	}
	if err := tx.Model(&model.RosterEntryModel{}).
		Where("roster_entry_group_id = ? AND roster_entry_status = ?", groupID, model.RosterStatusActive).
		Count(&active).Error; err != nil {
		return stats, err
	}
	if err := tx.Model(&model.RosterEntryModel{}).
		Where("roster_entry_group_id = ? AND roster_entry_status = ? AND roster_entry_is_eligible = TRUE",
			groupID, model.RosterStatusActive).
		Count(&eligible).Error; err != nil {
		return stats, err
	}
	if err := tx.Model(&model.TeacherAssignmentModel{}).
		Where("teacher_assignment_group_id = ? AND teacher_assignment_is_active = TRUE", groupID).
		Count(&teachers).Error; err != nil {
		return stats, err
	}

	stats.TotalStudents = int(total)
	stats.ActiveStudents = int(active)
	stats.EligibleStudents = int(eligible)
	stats.ActiveTeachers = int(teachers)
	return stats, nil
}

/* ========================================================
   Roster
======================================================== */

type AddStudentInput struct {
	GroupID         uuid.UUID
	StudentID       uuid.UUID
	SeatNumber      *string
	IsRetake        bool
	Accommodations  []string
	Actor           uuid.UUID
	ExpectedVersion *int
}

func (s *ExamGroupService) AddStudent(ctx context.Context, in AddStudentInput) (*model.ExamGroupModel, error) {
	return s.mutateGroup(ctx, in.GroupID, in.ExpectedVersion, in.Actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		if err := rosterMutable(g); err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.RosterEntryModel{}).
			Where("roster_entry_group_id = ? AND roster_entry_student_id = ? AND roster_entry_status = ?",
				in.GroupID, in.StudentID, model.RosterStatusActive).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errs.Conflict("siswa sudah terdaftar di exam group ini")
		}

		// snapshot sumber akademik saat enrolment
		recs, err := s.Resolver.Directory.Lookup(ctx, []uuid.UUID{in.StudentID})
		if err != nil {
			return err
		}
		rec, ok := recs[in.StudentID]
		if !ok {
			return errs.NotFound("siswa tidak ditemukan di direktori")
		}

		g.ExamGroupRosterSeq++
		entry := model.RosterEntryModel{
			RosterEntryGroupID:                 in.GroupID,
			RosterEntryStudentID:               in.StudentID,
			RosterEntryRollNumber:              model.RollNumberFor(in.GroupID, g.ExamGroupRosterSeq),
			RosterEntrySeatNumber:              in.SeatNumber,
			RosterEntryStatus:                  model.RosterStatusActive,
			RosterEntryIsEligible:              true,
			RosterEntryIsRetake:                in.IsRetake,
			RosterEntryDepartmentIDSnapshot:    rec.DepartmentID,
			RosterEntrySubDepartmentIDSnapshot: rec.SubDepartmentID,
			RosterEntryBatchIDSnapshot:         rec.BatchID,
			RosterEntryAddedBy:                 in.Actor,
			RosterEntryAddedAt:                 time.Now(),
		}
		if len(in.Accommodations) > 0 {
			entry.RosterEntryAccommodations = pq.StringArray(in.Accommodations)
		}

		if err := tx.Create(&entry).Error; err != nil {
			// partial unique index menutup race check-then-insert
			if isUniqueViolation(err) {
				return errs.Conflict("siswa sudah terdaftar di exam group ini")
			}
			return err
		}
		return nil
	})
}

type RemoveStudentInput struct {
	GroupID         uuid.UUID
	StudentID       uuid.UUID
	NewStatus       model.RosterEntryStatus // default transferred
	Reason          *string
	Actor           uuid.UUID
	ExpectedVersion *int
}

func (s *ExamGroupService) RemoveStudent(ctx context.Context, in RemoveStudentInput) (*model.ExamGroupModel, error) {
	newStatus := in.NewStatus
	if newStatus == "" {
		newStatus = model.RosterStatusTransferred
	}
	if newStatus == model.RosterStatusActive {
		return nil, errs.Validation("removeStudent tidak bisa men-set status active")
	}

	return s.mutateGroup(ctx, in.GroupID, in.ExpectedVersion, in.Actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		if err := rosterMutable(g); err != nil {
			return err
		}

		// entry tidak pernah dihapus keras: pindah status, sejarah tetap
		res := tx.Model(&model.RosterEntryModel{}).
			Where("roster_entry_group_id = ? AND roster_entry_student_id = ? AND roster_entry_status = ?",
				in.GroupID, in.StudentID, model.RosterStatusActive).
			Updates(map[string]interface{}{
				"roster_entry_status":             newStatus,
				"roster_entry_eligibility_reason": in.Reason,
				"roster_entry_updated_at":         time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("siswa tidak punya entry aktif di exam group ini")
		}
		return nil
	})
}

// roster hanya boleh dimutasi sebelum group berjalan
func rosterMutable(g *model.ExamGroupModel) error {
	switch g.ExamGroupStatus {
	case model.GroupStatusDraft, model.GroupStatusFinalized:
		return nil
	}
	return errs.Newf(errs.KindState, "roster tidak bisa diubah saat status %s", g.ExamGroupStatus)
}

/* ========================================================
   Penugasan guru
======================================================== */

type AssignTeacherInput struct {
	GroupID         uuid.UUID
	TeacherID       uuid.UUID
	Role            model.TeacherRole
	Responsibility  *model.MarkingResponsibility // nil → default per role
	Actor           uuid.UUID
	ExpectedVersion *int
}

func (s *ExamGroupService) AssignTeacher(ctx context.Context, in AssignTeacherInput) (*model.ExamGroupModel, error) {
	if !model.ValidTeacherRole(in.Role) {
		return nil, errs.Newf(errs.KindValidation, "role %q tidak dikenal", in.Role)
	}

	return s.mutateGroup(ctx, in.GroupID, in.ExpectedVersion, in.Actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		if g.ExamGroupStatus == model.GroupStatusCancelled || g.ExamGroupStatus == model.GroupStatusCompleted {
			return errs.Newf(errs.KindState, "penugasan guru tidak bisa diubah saat status %s", g.ExamGroupStatus)
		}

		var n int64
		if err := tx.Model(&model.TeacherAssignmentModel{}).
			Where("teacher_assignment_group_id = ? AND teacher_assignment_teacher_id = ? AND teacher_assignment_role = ? AND teacher_assignment_is_active = TRUE",
				in.GroupID, in.TeacherID, in.Role).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errs.Conflict("guru sudah punya penugasan aktif dengan role ini")
		}

		resp := model.DefaultResponsibility(in.Role)
		if in.Responsibility != nil {
			resp = *in.Responsibility
		}
		respJSON, err := resp.ToJSON()
		if err != nil {
			return err
		}

		row := model.TeacherAssignmentModel{
			TeacherAssignmentGroupID:        in.GroupID,
			TeacherAssignmentTeacherID:      in.TeacherID,
			TeacherAssignmentRole:           in.Role,
			TeacherAssignmentResponsibility: respJSON,
			TeacherAssignmentIsActive:       true,
			TeacherAssignmentAssignedBy:     in.Actor,
			TeacherAssignmentAssignedAt:     time.Now(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return errs.Conflict("guru sudah punya penugasan aktif dengan role ini")
			}
			return err
		}
		return nil
	})
}

type UnassignTeacherInput struct {
	GroupID         uuid.UUID
	TeacherID       uuid.UUID
	Role            model.TeacherRole
	Reason          *string
	Actor           uuid.UUID
	ExpectedVersion *int
}

func (s *ExamGroupService) UnassignTeacher(ctx context.Context, in UnassignTeacherInput) (*model.ExamGroupModel, error) {
	return s.mutateGroup(ctx, in.GroupID, in.ExpectedVersion, in.Actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		now := time.Now()
		res := tx.Model(&model.TeacherAssignmentModel{}).
			Where("teacher_assignment_group_id = ? AND teacher_assignment_teacher_id = ? AND teacher_assignment_role = ? AND teacher_assignment_is_active = TRUE",
				in.GroupID, in.TeacherID, in.Role).
			Updates(map[string]interface{}{
				"teacher_assignment_is_active":           false,
				"teacher_assignment_deactivated_by":      in.Actor,
				"teacher_assignment_deactivated_at":      now,
				"teacher_assignment_deactivation_reason": in.Reason,
				"teacher_assignment_updated_at":          now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("penugasan aktif tidak ditemukan")
		}
		return nil
	})
}

/* ========================================================
   Transisi status
======================================================== */

func (s *ExamGroupService) FinalizeStudentList(ctx context.Context, groupID uuid.UUID, actor uuid.UUID, expectedVersion *int) (*model.ExamGroupModel, error) {
	return s.mutateGroup(ctx, groupID, expectedVersion, actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		var n int64
		if err := tx.Model(&model.RosterEntryModel{}).
			Where("roster_entry_group_id = ? AND roster_entry_status = ? AND roster_entry_is_eligible = TRUE",
				groupID, model.RosterStatusActive).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errs.State("roster belum punya entry aktif yang eligible")
		}
		return g.Transition(model.GroupStatusFinalized)
	})
}

func (s *ExamGroupService) CompleteTeacherAssignment(ctx context.Context, groupID uuid.UUID, actor uuid.UUID, expectedVersion *int) (*model.ExamGroupModel, error) {
	return s.mutateGroup(ctx, groupID, expectedVersion, actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		var n int64
		if err := tx.Model(&model.TeacherAssignmentModel{}).
			Where("teacher_assignment_group_id = ? AND teacher_assignment_is_active = TRUE", groupID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errs.State("belum ada penugasan guru aktif")
		}
		// status hanya maju kalau roster sudah finalized
		if g.ExamGroupStatus == model.GroupStatusFinalized {
			return g.Transition(model.GroupStatusActive)
		}
		return nil
	})
}

func (s *ExamGroupService) CancelGroup(ctx context.Context, groupID uuid.UUID, actor uuid.UUID, expectedVersion *int) (*model.ExamGroupModel, error) {
	return s.mutateGroup(ctx, groupID, expectedVersion, actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		return g.Transition(model.GroupStatusCancelled)
	})
}

// CompleteMarksEntry memajukan active→completed kalau semua entry roster
// non-exempt sudah punya hasil terminal di ledger nilai.
func (s *ExamGroupService) CompleteMarksEntry(ctx context.Context, groupID uuid.UUID, actor uuid.UUID, expectedVersion *int) (*model.ExamGroupModel, error) {
	return s.mutateGroup(ctx, groupID, expectedVersion, actor, func(tx *gorm.DB, g *model.ExamGroupModel) error {
		var pending int64
		err := tx.Table("exam_group_roster AS r").
			Joins(`LEFT JOIN marks_entries m
				ON m.marks_entry_student_id = r.roster_entry_student_id
				AND m.marks_entry_exam_id = ?
				AND m.marks_entry_deleted_at IS NULL`, g.ExamGroupExamID).
			Where("r.roster_entry_group_id = ? AND r.roster_entry_status = ? AND r.roster_entry_deleted_at IS NULL",
				groupID, model.RosterStatusActive).
			Where("m.marks_entry_id IS NULL OR m.marks_entry_result_status = 'pending'").
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return errs.Newf(errs.KindState, "%d siswa belum punya hasil terminal", pending)
		}
		return g.Transition(model.GroupStatusCompleted)
	})
}

/* ========================================================
   Predikat marking (guard untuk caller RBAC)
======================================================== */

func (s *ExamGroupService) CanTeacherEnterMarks(ctx context.Context, groupID, teacherID uuid.UUID) (bool, error) {
	return s.teacherCan(ctx, groupID, teacherID, func(r model.MarkingResponsibility) bool { return r.CanEnterMarks })
}

func (s *ExamGroupService) CanTeacherModifyMarks(ctx context.Context, groupID, teacherID uuid.UUID) (bool, error) {
	return s.teacherCan(ctx, groupID, teacherID, func(r model.MarkingResponsibility) bool { return r.CanModifyMarks })
}

func (s *ExamGroupService) teacherCan(ctx context.Context, groupID, teacherID uuid.UUID, allowed func(model.MarkingResponsibility) bool) (bool, error) {
	var rows []model.TeacherAssignmentModel
	if err := s.DB.WithContext(ctx).
		Where("teacher_assignment_group_id = ? AND teacher_assignment_teacher_id = ? AND teacher_assignment_is_active = TRUE",
			groupID, teacherID).
		Find(&rows).Error; err != nil {
		return false, err
	}
	for i := range rows {
		resp, err := model.ResponsibilityFromJSON(rows[i].TeacherAssignmentResponsibility)
		if err != nil {
			return false, err
		}
		if allowed(resp) {
			return true, nil
		}
	}
	return false, nil
}

/* ========================================================
   Re-resolve preview
======================================================== */

type ReResolvePreview struct {
	WouldAdd    []uuid.UUID `json:"would_add"`
	WouldRemove []uuid.UUID `json:"would_remove"`
}

// PreviewReResolve menjalankan ulang resolver terhadap selection yang
// tersimpan dan melaporkan selisihnya dengan roster aktif — murni baca,
// tidak mengubah roster.
func (s *ExamGroupService) PreviewReResolve(ctx context.Context, groupID uuid.UUID) (*ReResolvePreview, error) {
	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	sel, err := model.SelectionFromJSON(g.ExamGroupSelection)
	if err != nil {
		return nil, err
	}
	resolved, err := s.Resolver.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}

	var enrolled []uuid.UUID
	if err := s.DB.WithContext(ctx).
		Model(&model.RosterEntryModel{}).
		Where("roster_entry_group_id = ? AND roster_entry_status = ?", groupID, model.RosterStatusActive).
		Pluck("roster_entry_student_id", &enrolled).Error; err != nil {
		return nil, err
	}

	inResolved := make(map[uuid.UUID]bool, len(resolved))
	for _, id := range resolved {
		inResolved[id] = true
	}
	inRoster := make(map[uuid.UUID]bool, len(enrolled))
	for _, id := range enrolled {
		inRoster[id] = true
	}

	preview := &ReResolvePreview{WouldAdd: []uuid.UUID{}, WouldRemove: []uuid.UUID{}}
	for _, id := range resolved {
		if !inRoster[id] {
			preview.WouldAdd = append(preview.WouldAdd, id)
		}
	}
	for _, id := range enrolled {
		if !inResolved[id] {
			preview.WouldRemove = append(preview.WouldRemove, id)
		}
	}
	return preview, nil
}

/* ========================================================
   util
======================================================== */

func isUniqueViolation(err error) bool {
	// pgx mengembalikan SQLSTATE 23505 untuk unique violation
	return err != nil && strings.Contains(err.Error(), "23505")
}
