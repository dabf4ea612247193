package schedule

// Slot is a bookable time range within a day, "HH:MM" strings.
type Slot struct {
	StartTime string `bson:"start_time" json:"startTime"`
	EndTime   string `bson:"end_time" json:"endTime"`
}

type DaySchedule struct {
	Day   string `bson:"day" json:"day"`
	Slots []Slot `bson:"slots" json:"slots"`
}

type DoctorSchedule struct {
	DoctorID         string        `bson:"_id" json:"doctorId"`
	Days             []DaySchedule `bson:"days" json:"schedule"`
	UnavailableDates []string      `bson:"unavailable_dates" json:"unavailableDates"`
}

// UpsertDay replaces the entry for day with a single-slot entry.
// Invariant: at most one entry per weekday. The edit flow submits one
// slot at a time even though the model can hold several per day.
func UpsertDay(s DoctorSchedule, day string, slot Slot) DoctorSchedule {
	days := make([]DaySchedule, 0, len(s.Days)+1)
	for _, d := range s.Days {
		if d.Day != day {
			days = append(days, d)
		}
	}
	days = append(days, DaySchedule{Day: day, Slots: []Slot{slot}})
	s.Days = days
	return s
}

// DeleteDay removes the entry for day if present; no-op otherwise.
func DeleteDay(s DoctorSchedule, day string) DoctorSchedule {
	days := make([]DaySchedule, 0, len(s.Days))
	for _, d := range s.Days {
		if d.Day != day {
			days = append(days, d)
		}
	}
	s.Days = days
	return s
}
