package schedule

// ══════════════════════════════════════════════════════════════════════════════
// PATCHES
// nil fields mean "don't change".
// ══════════════════════════════════════════════════════════════════════════════

// StudentPatch holds optional student field updates. The id is never patched.
type StudentPatch struct {
	Name   *string
	Status *AttendanceStatus
	Tag    *string
	Notes  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p StudentPatch) IsEmpty() bool {
	return p.Name == nil && p.Status == nil && p.Tag == nil && p.Notes == nil
}

// Apply merges the patch into s.
func (p StudentPatch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Tag != nil {
		s.Tag = *p.Tag
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	return s
}

// SlotPatch holds optional slot metadata updates. Students and Time are never patched.
type SlotPatch struct {
	ServiceID *string
	Capacity  *int
}

// IsEmpty reports whether the patch changes nothing.
func (p SlotPatch) IsEmpty() bool {
	return p.ServiceID == nil && p.Capacity == nil
}

// Apply merges the patch into the slot metadata.
func (p SlotPatch) Apply(t TimeSlot) TimeSlot {
	if p.ServiceID != nil {
		t.ServiceID = *p.ServiceID
	}
	if p.Capacity != nil {
		t.Capacity = *p.Capacity
	}
	return t
}

// NewStudent returns an enrolment with default values.
func NewStudent(id string) Student {
	return Student{
		ID:     id,
		Name:   "",
		Status: StatusPresent,
		Tag:    "",
		Notes:  "",
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SLOT-SCOPED MUTATIONS
// Each returns a new DailySchedule in which only the targeted slot differs,
// and false when the target was not found (d is returned untouched).
// ══════════════════════════════════════════════════════════════════════════════

// ReplaceSlot applies fn to the slot with the given time.
func (d DailySchedule) ReplaceSlot(slotTime string, fn func(TimeSlot) (TimeSlot, bool)) (DailySchedule, bool) {
	for i, slot := range d {
		if slot.Time != slotTime {
			continue
		}
		updated, ok := fn(slot)
		if !ok {
			return d, false
		}
		out := make(DailySchedule, len(d))
		copy(out, d)
		out[i] = updated
		return out, true
	}
	return d, false
}

// UpdateStudent merges patch into the matching student of the matching slot.
func (d DailySchedule) UpdateStudent(slotTime, studentID string, patch StudentPatch) (DailySchedule, bool) {
	return d.ReplaceSlot(slotTime, func(slot TimeSlot) (TimeSlot, bool) {
		for i, st := range slot.Students {
			if st.ID != studentID {
				continue
			}
			students := make([]Student, len(slot.Students))
			copy(students, slot.Students)
			students[i] = patch.Apply(st)
			slot.Students = students
			return slot, true
		}
		return slot, false
	})
}

// AddStudent appends st to the end of the matching slot.
func (d DailySchedule) AddStudent(slotTime string, st Student) (DailySchedule, bool) {
	return d.ReplaceSlot(slotTime, func(slot TimeSlot) (TimeSlot, bool) {
		students := make([]Student, 0, len(slot.Students)+1)
		students = append(students, slot.Students...)
		slot.Students = append(students, st)
		return slot, true
	})
}

// RemoveStudent drops the student with the given id from the matching slot.
func (d DailySchedule) RemoveStudent(slotTime, studentID string) (DailySchedule, bool) {
	return d.ReplaceSlot(slotTime, func(slot TimeSlot) (TimeSlot, bool) {
		if !slot.HasStudent(studentID) {
			return slot, false
		}
		students := make([]Student, 0, len(slot.Students)-1)
		for _, st := range slot.Students {
			if st.ID != studentID {
				students = append(students, st)
			}
		}
		slot.Students = students
		return slot, true
	})
}

// UpdateSlot merges patch into the matching slot's metadata.
func (d DailySchedule) UpdateSlot(slotTime string, patch SlotPatch) (DailySchedule, bool) {
	return d.ReplaceSlot(slotTime, func(slot TimeSlot) (TimeSlot, bool) {
		return patch.Apply(slot), true
	})
}
