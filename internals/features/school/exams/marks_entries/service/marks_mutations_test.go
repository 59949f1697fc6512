package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
	"sekolahku_backend/internals/helpers/errs"
)

var (
	teacherA = uuid.New()
	adminA   = uuid.New()
)

func TestApplyComponentPatch(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)
	now := time.Now()

	err := ApplyComponentPatch(entry, cfg, []ComponentPatch{
		{Name: "Theory", Obtained: 49},
		{Name: "Practical", Obtained: 21},
	}, teacherA, now)
	require.NoError(t, err)

	assert.True(t, entry.MarksEntryIsEntered)
	assert.Equal(t, 1, entry.MarksEntryRevisionCount)
	assert.Equal(t, 70.0, entry.MarksEntryTotalObtained)
	assert.Equal(t, model.ResultPass, entry.MarksEntryResultStatus)

	comps, err := entry.Components()
	require.NoError(t, err)
	require.Equal(t, &teacherA, comps[0].EnteredBy)

	log, err := entry.AuditLog()
	require.NoError(t, err)
	require.Len(t, log, 2, "dua komponen berubah nilai → dua baris audit")
	assert.Equal(t, "update_marks", log[0].Action)
	assert.Equal(t, 0.0, *log[0].PreviousMarks)
	assert.Equal(t, 49.0, *log[0].NewMarks)
}

func TestApplyComponentPatchUnchangedValueSkipsAudit(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)
	now := time.Now()

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 40}}, teacherA, now))
	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 40}}, teacherA, now))

	log, err := entry.AuditLog()
	require.NoError(t, err)
	assert.Len(t, log, 1, "nilai sama tidak menambah audit")
	assert.Equal(t, 2, entry.MarksEntryRevisionCount, "revision count tetap naik per patch")
}

func TestApplyComponentPatchValidation(t *testing.T) {
	cfg := testConfig()
	now := time.Now()

	t.Run("komponen tidak dikenal", func(t *testing.T) {
		entry := freshEntry(t, cfg)
		err := ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Viva", Obtained: 5}}, teacherA, now)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindValidation))
	})

	t.Run("melebihi max marks", func(t *testing.T) {
		entry := freshEntry(t, cfg)
		err := ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Practical", Obtained: 31}}, teacherA, now)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindValidation))
	})

	t.Run("patch kosong", func(t *testing.T) {
		entry := freshEntry(t, cfg)
		err := ApplyComponentPatch(entry, cfg, nil, teacherA, now)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindValidation))
	})
}

func TestRevisionAfterVerifyClearsVerification(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)
	now := time.Now()

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 50}}, teacherA, now))

	changed, err := VerifyEntry(entry, adminA, now)
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, entry.MarksEntryIsVerified)

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 55}}, teacherA, now))

	assert.False(t, entry.MarksEntryIsVerified, "revisi menggugurkan verifikasi")
	assert.Nil(t, entry.MarksEntryVerifiedBy)
	assert.Nil(t, entry.MarksEntryVerifiedAt)
}

func TestVerifyRequiresEnteredMarks(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)

	changed, err := VerifyEntry(entry, adminA, time.Now())
	require.Error(t, err)
	assert.False(t, changed)
	assert.True(t, errs.IsKind(err, errs.KindState))
}

func TestVerifyIsIdempotent(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)
	now := time.Now()

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 50}}, teacherA, now))

	changed, err := VerifyEntry(entry, adminA, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = VerifyEntry(entry, adminA, now)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPublishRequiresVerification(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)
	now := time.Now()

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 50}}, teacherA, now))

	changed, err := PublishEntry(entry, adminA, now)
	require.Error(t, err)
	assert.False(t, changed)
	assert.True(t, errs.IsKind(err, errs.KindState))
}

func TestPublishLatchBlocksAllMutations(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)
	now := time.Now()

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 50}}, teacherA, now))

	_, err := VerifyEntry(entry, adminA, now)
	require.NoError(t, err)
	changed, err := PublishEntry(entry, adminA, now)
	require.NoError(t, err)
	require.True(t, changed)

	before := entry.MarksEntryTotalObtained

	err = ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 60}}, teacherA, now)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindState))
	assert.Equal(t, before, entry.MarksEntryTotalObtained, "entry tidak berubah setelah ditolak latch")

	err = ApplyAttendance(entry, cfg, model.AttendanceAbsent, nil, teacherA, now)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindState))

	// publish ulang idempoten, bukan error
	changed, err = PublishEntry(entry, adminA, now)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestApplyAttendanceAbsent(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)
	now := time.Now()

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 50}}, teacherA, now))
	require.NoError(t, ApplyAttendance(entry, cfg, model.AttendanceAbsent, nil, teacherA, now))

	assert.Equal(t, model.ResultAbsent, entry.MarksEntryResultStatus)
	assert.False(t, entry.MarksEntryIsPassed)
	require.Equal(t, &teacherA, entry.MarksEntryAttendanceMarkedBy)

	// kembali present → hasil dihitung ulang dari komponen
	require.NoError(t, ApplyAttendance(entry, cfg, model.AttendancePresent, nil, teacherA, now))
	assert.Equal(t, model.ResultPass, entry.MarksEntryResultStatus)
}

func TestApplyAttendanceUnknownStatus(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)

	err := ApplyAttendance(entry, cfg, model.AttendanceStatus("vacation"), nil, teacherA, time.Now())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestNeedsModifyPermission(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)

	// entri pertama cukup can_enter_marks
	assert.False(t, NeedsModifyPermission(entry))

	require.NoError(t, ApplyComponentPatch(entry, cfg, []ComponentPatch{{Name: "Theory", Obtained: 40}}, teacherA, time.Now()))

	// setelah nilai masuk, penulisan berikutnya adalah revisi
	assert.True(t, NeedsModifyPermission(entry))
}

func TestZeroedComponentsMirrorConfig(t *testing.T) {
	cfg := testConfig()
	comps := ZeroedComponents(cfg)

	require.Len(t, comps, 2)
	assert.Equal(t, "Theory", comps[0].Name)
	assert.Equal(t, 70.0, comps[0].MaxMarks)
	assert.Zero(t, comps[0].Obtained)
	assert.Nil(t, comps[0].EnteredBy)
}
