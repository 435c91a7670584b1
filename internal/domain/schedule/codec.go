package schedule

import (
	"encoding/json"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
)

// Encode serializes a DailySchedule to its stored JSON form.
// Nil slices are written as empty arrays so a round trip is lossless.
func Encode(d DailySchedule) (string, error) {
	data, err := json.Marshal(normalize(d))
	if err != nil {
		return "", shared.WrapError("schedule", "Encode", shared.ErrInvalidFormat, "cannot serialize schedule", err)
	}
	return string(data), nil
}

// Decode parses a stored value back into a DailySchedule and validates it.
// Any failure wraps shared.ErrMalformedRecord.
func Decode(raw string) (DailySchedule, error) {
	var slots *[]TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, shared.WrapError("schedule", "Decode", shared.ErrMalformedRecord, "invalid JSON", err)
	}
	if slots == nil {
		return nil, shared.NewDomainError("schedule", "Decode", shared.ErrMalformedRecord, "stored value is null")
	}

	d := normalize(DailySchedule(*slots))
	if err := d.Validate(); err != nil {
		return nil, shared.WrapError("schedule", "Decode", shared.ErrMalformedRecord, "invalid schedule", err)
	}
	return d, nil
}

func normalize(d DailySchedule) DailySchedule {
	out := make(DailySchedule, len(d))
	for i, slot := range d {
		if slot.Students == nil {
			slot.Students = []Student{}
		}
		out[i] = slot
	}
	return out
}
