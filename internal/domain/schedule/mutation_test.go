package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateStudent(t *testing.T) {
	day := sampleDay()

	updated, ok := day.UpdateStudent("08:00", "s2", StudentPatch{
		Status: ptr(StatusCancelled),
		Notes:  ptr("avisou"),
	})
	require.True(t, ok)

	st := updated[0].Students[1]
	assert.Equal(t, "s2", st.ID)
	assert.Equal(t, "Ana Silva", st.Name)
	assert.Equal(t, StatusCancelled, st.Status)
	assert.Equal(t, "avisou", st.Notes)

	// the input is never modified in place
	assert.Equal(t, StatusAbsent, day[0].Students[1].Status)
	assert.Equal(t, day[1], updated[1])
}

func TestUpdateStudent_NotFoundLeavesScheduleUnchanged(t *testing.T) {
	day := sampleDay()

	updated, ok := day.UpdateStudent("08:00", "missing", StudentPatch{Name: ptr("x")})
	assert.False(t, ok)
	assert.Equal(t, sampleDay(), updated)

	updated, ok = day.UpdateStudent("11:00", "s1", StudentPatch{Name: ptr("x")})
	assert.False(t, ok)
	assert.Equal(t, sampleDay(), updated)
}

func TestAddThenRemoveRestoresSlot(t *testing.T) {
	day := sampleDay()

	added, ok := day.AddStudent("08:00", NewStudent("fresh"))
	require.True(t, ok)
	require.Len(t, added[0].Students, 3)
	assert.Equal(t, NewStudent("fresh"), added[0].Students[2])
	assert.Len(t, day[0].Students, 2)

	removed, ok := added.RemoveStudent("08:00", "fresh")
	require.True(t, ok)
	assert.Equal(t, day[0].Students, removed[0].Students)
}

func TestAddStudent_UnknownSlot(t *testing.T) {
	day := sampleDay()
	_, ok := day.AddStudent("12:00", NewStudent("x"))
	assert.False(t, ok)

	var empty DailySchedule
	_, ok = empty.AddStudent("08:00", NewStudent("x"))
	assert.False(t, ok)
}

func TestRemoveStudent_NotFound(t *testing.T) {
	day := sampleDay()
	out, ok := day.RemoveStudent("08:00", "nobody")
	assert.False(t, ok)
	assert.Equal(t, sampleDay(), out)
}

func TestUpdateSlot_KeepsStudents(t *testing.T) {
	day := sampleDay()

	updated, ok := day.UpdateSlot("08:00", SlotPatch{ServiceID: ptr("pilates-duo"), Capacity: ptr(2)})
	require.True(t, ok)
	assert.Equal(t, "pilates-duo", updated[0].ServiceID)
	assert.Equal(t, 2, updated[0].Capacity)
	assert.Equal(t, "08:00", updated[0].Time)
	assert.Equal(t, day[0].Students, updated[0].Students)
	assert.Equal(t, "pilates-solo", day[0].ServiceID)
}

func TestNewStudentDefaults(t *testing.T) {
	st := NewStudent("id-1")
	assert.Equal(t, StatusPresent, st.Status)
	assert.Empty(t, st.Name)
	assert.Empty(t, st.Tag)
	assert.Empty(t, st.Notes)
}

func TestSorted(t *testing.T) {
	day := DailySchedule{{Time: "10:00"}, {Time: "07:30"}, {Time: "09:00"}}
	sorted := day.Sorted()
	assert.Equal(t, []string{"07:30", "09:00", "10:00"}, []string{sorted[0].Time, sorted[1].Time, sorted[2].Time})
	assert.Equal(t, "10:00", day[0].Time)
}
