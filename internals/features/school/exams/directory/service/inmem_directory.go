package service

import (
	"context"

	"github.com/google/uuid"
)

// InMemDirectory adalah implementasi StudentDirectory di memori,
// dipakai unit test resolver kelayakan.
type InMemDirectory struct {
	Students []StudentRecord
}

func NewInMemDirectory(students ...StudentRecord) *InMemDirectory {
	return &InMemDirectory{Students: students}
}

func (d *InMemDirectory) Lookup(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]StudentRecord, error) {
	out := make(map[uuid.UUID]StudentRecord, len(ids))
	for _, id := range ids {
		for _, s := range d.Students {
			if s.ID == id {
				out[id] = s
				break
			}
		}
	}
	return out, nil
}

func (d *InMemDirectory) ListActive(_ context.Context) ([]StudentRecord, error) {
	var out []StudentRecord
	for _, s := range d.Students {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (d *InMemDirectory) ListByDepartment(_ context.Context, ids []uuid.UUID) ([]StudentRecord, error) {
	return d.filter(func(s StudentRecord) bool { return s.DepartmentID != nil && containsID(ids, *s.DepartmentID) }), nil
}

func (d *InMemDirectory) ListBySubDepartment(_ context.Context, ids []uuid.UUID) ([]StudentRecord, error) {
	return d.filter(func(s StudentRecord) bool { return s.SubDepartmentID != nil && containsID(ids, *s.SubDepartmentID) }), nil
}

func (d *InMemDirectory) ListByBatch(_ context.Context, ids []uuid.UUID) ([]StudentRecord, error) {
	return d.filter(func(s StudentRecord) bool { return s.BatchID != nil && containsID(ids, *s.BatchID) }), nil
}

func (d *InMemDirectory) filter(keep func(StudentRecord) bool) []StudentRecord {
	var out []StudentRecord
	for _, s := range d.Students {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
