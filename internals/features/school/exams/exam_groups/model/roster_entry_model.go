package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type RosterEntryStatus string

const (
	RosterStatusActive      RosterEntryStatus = "active"
	RosterStatusInactive    RosterEntryStatus = "inactive"
	RosterStatusTransferred RosterEntryStatus = "transferred"
	RosterStatusExempted    RosterEntryStatus = "exempted"
)

// RosterEntryModel merepresentasikan tabel `exam_group_roster`.
// Unik (group, student) untuk baris AKTIF dijaga partial unique index
// uq_roster_group_student_active (lihat schema.sql).
type RosterEntryModel struct {
	RosterEntryID uuid.UUID `json:"roster_entry_id" gorm:"column:roster_entry_id;type:uuid;default:gen_random_uuid();primaryKey"`

	RosterEntryGroupID   uuid.UUID `json:"roster_entry_group_id" gorm:"column:roster_entry_group_id;type:uuid;not null;index"`
	RosterEntryStudentID uuid.UUID `json:"roster_entry_student_id" gorm:"column:roster_entry_student_id;type:uuid;not null;index"`

	RosterEntryRollNumber string  `json:"roster_entry_roll_number" gorm:"column:roster_entry_roll_number;type:varchar(32);not null"`
	RosterEntrySeatNumber *string `json:"roster_entry_seat_number" gorm:"column:roster_entry_seat_number;type:varchar(32)"`

	RosterEntryStatus RosterEntryStatus `json:"roster_entry_status" gorm:"column:roster_entry_status;type:varchar(20);not null;default:active"`

	// blok kelayakan
	RosterEntryIsEligible        bool           `json:"roster_entry_is_eligible" gorm:"column:roster_entry_is_eligible;not null;default:true"`
	RosterEntryEligibilityReason *string        `json:"roster_entry_eligibility_reason" gorm:"column:roster_entry_eligibility_reason;type:text"`
	RosterEntryAccommodations    pq.StringArray `json:"roster_entry_accommodations,omitempty" gorm:"column:roster_entry_accommodations;type:text[]"`
	RosterEntryPriorAttempts     int            `json:"roster_entry_prior_attempts" gorm:"column:roster_entry_prior_attempts;not null;default:0"`
	RosterEntryIsRetake          bool           `json:"roster_entry_is_retake" gorm:"column:roster_entry_is_retake;not null;default:false"`

	// snapshot sumber akademik saat enrolment — sengaja denormalisasi,
	// perubahan direktori belakangan tidak mengubah roster historis
	RosterEntryDepartmentIDSnapshot    *uuid.UUID `json:"roster_entry_department_id_snapshot" gorm:"column:roster_entry_department_id_snapshot;type:uuid"`
	RosterEntrySubDepartmentIDSnapshot *uuid.UUID `json:"roster_entry_sub_department_id_snapshot" gorm:"column:roster_entry_sub_department_id_snapshot;type:uuid"`
	RosterEntryBatchIDSnapshot         *uuid.UUID `json:"roster_entry_batch_id_snapshot" gorm:"column:roster_entry_batch_id_snapshot;type:uuid"`

	RosterEntryAddedBy uuid.UUID `json:"roster_entry_added_by" gorm:"column:roster_entry_added_by;type:uuid;not null"`
	RosterEntryAddedAt time.Time `json:"roster_entry_added_at" gorm:"column:roster_entry_added_at;not null;default:now()"`

	RosterEntryCreatedAt time.Time      `json:"roster_entry_created_at" gorm:"column:roster_entry_created_at;not null;autoCreateTime"`
	RosterEntryUpdatedAt time.Time      `json:"roster_entry_updated_at" gorm:"column:roster_entry_updated_at;not null;autoUpdateTime"`
	RosterEntryDeletedAt gorm.DeletedAt `json:"roster_entry_deleted_at" gorm:"column:roster_entry_deleted_at;index"`
}

func (RosterEntryModel) TableName() string { return "exam_group_roster" }

// RollNumberFor membentuk roll number deterministik `{grp8}-{seq:03}`
// dari short id group + counter roster_seq.
func RollNumberFor(groupID uuid.UUID, seq int) string {
	return fmt.Sprintf("%s-%03d", groupID.String()[:8], seq)
}
