package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/command"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/query"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/logger"
)

// validate checks request bodies. Safe for concurrent use.
var validate = validator.New()

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODIES
// ══════════════════════════════════════════════════════════════════════════════

type rangeRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

type studentPatchRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status" validate:"omitempty,oneof=Present Absent Cancelled"`
	Tag    *string `json:"tag"`
	Notes  *string `json:"notes"`
}

func (r studentPatchRequest) patch() schedule.StudentPatch {
	p := schedule.StudentPatch{Name: r.Name, Tag: r.Tag, Notes: r.Notes}
	if r.Status != nil {
		status := schedule.AttendanceStatus(*r.Status)
		p.Status = &status
	}
	return p
}

type slotPatchRequest struct {
	ServiceID *string `json:"serviceId"`
	Capacity  *int    `json:"capacity" validate:"omitempty,min=0"`
}

func (r slotPatchRequest) patch() schedule.SlotPatch {
	return schedule.SlotPatch{ServiceID: r.ServiceID, Capacity: r.Capacity}
}

type seedStudent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status" validate:"omitempty,oneof=Present Absent Cancelled"`
	Tag    string `json:"tag"`
	Notes  string `json:"notes"`
}

type seedSlot struct {
	Time      string        `json:"time" validate:"required,datetime=15:04"`
	ServiceID string        `json:"serviceId"`
	Capacity  int           `json:"capacity" validate:"min=0"`
	Students  []seedStudent `json:"students" validate:"dive"`
}

type seedDayRequest struct {
	Slots []seedSlot `json:"slots" validate:"required,dive"`
}

func (r seedDayRequest) day() schedule.DailySchedule {
	day := make(schedule.DailySchedule, 0, len(r.Slots))
	for _, s := range r.Slots {
		slot := schedule.TimeSlot{
			Time:      s.Time,
			ServiceID: s.ServiceID,
			Capacity:  s.Capacity,
			Students:  make([]schedule.Student, 0, len(s.Students)),
		}
		for _, st := range s.Students {
			slot.Students = append(slot.Students, schedule.Student{
				ID:     st.ID,
				Name:   st.Name,
				Status: schedule.AttendanceStatus(st.Status),
				Tag:    st.Tag,
				Notes:  st.Notes,
			})
		}
		day = append(day, slot)
	}
	return day
}

// loadRangeResponse pairs the load outcome with the view it produced.
type loadRangeResponse struct {
	Load   *query.LoadRangeResult `json:"load"`
	Agenda *query.AgendaView      `json:"agenda"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    s.deps.Studio.Name + " agenda API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health": "/health",
			"studio": "/api/v1/studio",
			"agenda": "/api/v1/agenda",
			"range":  "/api/v1/agenda/range",
		},
	}

	writeJSON(w, r, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, r, http.StatusOK, status)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": s.config.Version,
	})
}

// handleReady handles the readiness probe endpoint. It fails while the store
// cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AGENDA HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStudio handles GET /api/v1/studio
func (s *Server) handleGetStudio(w http.ResponseWriter, r *http.Request) {
	info := s.deps.Studio
	if info.StudentTags == nil {
		info.StudentTags = []string{}
	}
	if info.Statuses == nil {
		for _, st := range schedule.Statuses() {
			info.Statuses = append(info.Statuses, string(st))
		}
	}
	writeJSON(w, r, http.StatusOK, info)
}

// handleGetAgenda handles GET /api/v1/agenda?q=
func (s *Server) handleGetAgenda(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.GetAgenda.Handle(r.Context(), query.GetAgendaQuery{Query: r.URL.Query().Get("q")})
	if err != nil {
		s.writeError(w, r, "get agenda", err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// handleLoadRange handles PUT /api/v1/agenda/range
func (s *Server) handleLoadRange(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.deps.LoadRange.Handle(r.Context(), query.LoadRangeQuery{Start: req.Start, End: req.End})
	if err != nil {
		s.writeError(w, r, "load range", err)
		return
	}

	view, err := s.deps.GetAgenda.Handle(r.Context(), query.GetAgendaQuery{Query: r.URL.Query().Get("q")})
	if err != nil {
		s.writeError(w, r, "get agenda", err)
		return
	}

	writeJSON(w, r, http.StatusOK, loadRangeResponse{Load: result, Agenda: view})
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleSeedDay handles PUT /api/v1/schedules/{date}
func (s *Server) handleSeedDay(w http.ResponseWriter, r *http.Request) {
	var req seedDayRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.deps.Engine.SeedDay(r.Context(), command.SeedDayCommand{
		Date:  r.PathValue("date"),
		Slots: req.day(),
	})
	if err != nil {
		s.writeError(w, r, "seed day", err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleUpdateTimeSlot handles PATCH /api/v1/schedules/{date}/slots/{time}
func (s *Server) handleUpdateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req slotPatchRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.deps.Engine.UpdateTimeSlot(r.Context(), command.UpdateTimeSlotCommand{
		Date:  r.PathValue("date"),
		Time:  r.PathValue("time"),
		Patch: req.patch(),
	})
	s.writeMutation(w, r, "update time slot", http.StatusOK, result, err)
}

// handleAddStudent handles POST /api/v1/schedules/{date}/slots/{time}/students
func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Engine.AddStudentSlot(r.Context(), command.AddStudentSlotCommand{
		Date: r.PathValue("date"),
		Time: r.PathValue("time"),
	})
	s.writeMutation(w, r, "add student", http.StatusCreated, result, err)
}

// handleUpdateStudent handles PATCH /api/v1/schedules/{date}/slots/{time}/students/{id}
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentPatchRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.deps.Engine.UpdateStudent(r.Context(), command.UpdateStudentCommand{
		Date:      r.PathValue("date"),
		Time:      r.PathValue("time"),
		StudentID: r.PathValue("id"),
		Patch:     req.patch(),
	})
	s.writeMutation(w, r, "update student", http.StatusOK, result, err)
}

// handleRemoveStudent handles DELETE /api/v1/schedules/{date}/slots/{time}/students/{id}
func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Engine.RemoveStudentSlot(r.Context(), command.RemoveStudentSlotCommand{
		Date:      r.PathValue("date"),
		Time:      r.PathValue("time"),
		StudentID: r.PathValue("id"),
	})
	s.writeMutation(w, r, "remove student", http.StatusOK, result, err)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// writeMutation answers a slot mutation. A no-op always answers 200 with
// applied=false; appliedStatus is used otherwise.
func (s *Server) writeMutation(w http.ResponseWriter, r *http.Request, op string, appliedStatus int, result *command.MutationResult, err error) {
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	status := http.StatusOK
	if result.Applied {
		status = appliedStatus
	}
	writeJSON(w, r, status, result)
}

// decode reads a JSON body into dst and validates it. On failure the error
// response is already written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSONError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
		case errors.Is(err, io.EOF):
			writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "Request body is required")
		default:
			writeJSONErrorWithDetails(w, r, http.StatusBadRequest, "invalid_request", "Malformed JSON body", err.Error())
		}
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeJSONErrorWithDetails(w, r, http.StatusBadRequest, "invalid_request", "Validation failed", validationDetails(err))
		return false
	}
	return true
}

// validationDetails renders validator errors as "field:tag" pairs.
func validationDetails(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s:%s", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONErrorWithDetails(w, r, http.StatusBadRequest, "invalid_request", "Invalid request", err.Error())
	case shared.IsStoreFailure(err):
		logger.FromContextOr(r.Context(), s.logger).Warn(op+" failed", logger.Err(err))
		writeJSONError(w, r, http.StatusServiceUnavailable, "store_unavailable", "The schedule store could not be written")
	default:
		logger.FromContextOr(r.Context(), s.logger).Error(op+" failed", logger.Err(err))
		writeJSONError(w, r, http.StatusInternalServerError, "internal_error", "Failed to "+op)
	}
}
