package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mindhaven/wellness/internal/apperr"
	"github.com/mindhaven/wellness/internal/appointment"
	"github.com/mindhaven/wellness/internal/chat"
	"github.com/mindhaven/wellness/internal/directory"
	"github.com/mindhaven/wellness/internal/email"
	"github.com/mindhaven/wellness/internal/identity"
	"github.com/mindhaven/wellness/internal/mood"
	"github.com/mindhaven/wellness/internal/schedule"
)

func (s *Server) sendEmail(c *fiber.Ctx) error {
	var req email.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := s.mailer.SendContact(c.Context(), req); err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		s.log.Errorw("send contact mail", "err", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to send message"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) listDoctors(c *fiber.Ctx) error {
	doctors, err := s.dir.ListDoctors(c.Context())
	if err != nil {
		s.log.Errorw("list doctors", "err", err)
		return c.JSON(fiber.Map{"doctors": []directory.Doctor{}})
	}
	return c.JSON(fiber.Map{"doctors": doctors})
}

func (s *Server) getDoctor(c *fiber.Ctx) error {
	d, err := s.dir.Doctor(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown doctor"})
		}
		s.log.Errorw("get doctor", "id", c.Params("id"), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(d)
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	return c.JSON(identity.SettingsFrom(c))
}

func (s *Server) listPatients(c *fiber.Ctx) error {
	patients, err := s.dir.Patients(c.Context())
	if err != nil {
		s.log.Errorw("list patients", "err", err)
		return c.JSON(fiber.Map{})
	}
	return c.JSON(patients)
}

func (s *Server) getSchedule(c *fiber.Ctx) error {
	doctorID := c.Query("doctorId")
	if doctorID == "" {
		doctorID = identity.From(c).ID
	}
	sched, err := s.schedules.Get(c.Context(), doctorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			sched = &schedule.DoctorSchedule{
				DoctorID:         doctorID,
				Days:             []schedule.DaySchedule{},
				UnavailableDates: []string{},
			}
		} else {
			s.log.Errorw("get schedule", "doctor", doctorID, "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "schedule lookup failed"})
		}
	}
	return c.JSON(fiber.Map{"schedule": sched})
}

func (s *Server) replaceSchedule(c *fiber.Ctx) error {
	var sched schedule.DoctorSchedule
	if err := c.BodyParser(&sched); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if sched.DoctorID == "" {
		sched.DoctorID = identity.From(c).ID
	}
	if sched.DoctorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "doctorId is required"})
	}
	if err := s.schedules.Replace(c.Context(), &sched); err != nil {
		s.log.Errorw("replace schedule", "doctor", sched.DoctorID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update schedule"})
	}
	return c.JSON(fiber.Map{"schedule": sched})
}

type upsertDayReq struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (s *Server) upsertScheduleDay(c *fiber.Ctx) error {
	var req upsertDayReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Day == "" || req.StartTime == "" || req.EndTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "day, startTime and endTime are required"})
	}

	doctorID := identity.From(c).ID
	sched, err := s.loadOrInitSchedule(c, doctorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "schedule lookup failed"})
	}

	updated := schedule.UpsertDay(*sched, req.Day, schedule.Slot{StartTime: req.StartTime, EndTime: req.EndTime})
	if err := s.schedules.Replace(c.Context(), &updated); err != nil {
		s.log.Errorw("upsert schedule day", "doctor", doctorID, "day", req.Day, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update schedule"})
	}
	return c.JSON(fiber.Map{"schedule": updated})
}

func (s *Server) deleteScheduleDay(c *fiber.Ctx) error {
	doctorID := identity.From(c).ID
	sched, err := s.loadOrInitSchedule(c, doctorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "schedule lookup failed"})
	}

	updated := schedule.DeleteDay(*sched, c.Params("day"))
	if err := s.schedules.Replace(c.Context(), &updated); err != nil {
		s.log.Errorw("delete schedule day", "doctor", doctorID, "day", c.Params("day"), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update schedule"})
	}
	return c.JSON(fiber.Map{"schedule": updated})
}

func (s *Server) loadOrInitSchedule(c *fiber.Ctx, doctorID string) (*schedule.DoctorSchedule, error) {
	sched, err := s.schedules.Get(c.Context(), doctorID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &schedule.DoctorSchedule{DoctorID: doctorID, UnavailableDates: []string{}}, nil
	}
	if err != nil {
		s.log.Errorw("get schedule", "doctor", doctorID, "err", err)
		return nil, err
	}
	return sched, nil
}

// listAppointments surfaces booking-service failures as an empty list;
// the dashboard renders an empty table rather than an error.
func (s *Server) listAppointments(c *fiber.Ctx) error {
	doctorID := c.Query("doctorId")
	if doctorID == "" {
		doctorID = identity.From(c).ID
	}
	appts, err := s.appts.List(c.Context(), doctorID)
	if err != nil {
		s.log.Errorw("list appointments", "doctor", doctorID, "err", err)
		return c.JSON(fiber.Map{"appointments": []appointment.Appointment{}})
	}
	if appts == nil {
		appts = []appointment.Appointment{}
	}
	return c.JSON(fiber.Map{"appointments": appts})
}

func (s *Server) listMoodLogs(c *fiber.Ctx) error {
	logs, err := s.mood.List(c.Context())
	if err != nil {
		s.log.Errorw("list mood logs", "err", err)
		return c.JSON(fiber.Map{"success": false, "data": []mood.Log{}})
	}
	if logs == nil {
		logs = []mood.Log{}
	}
	return c.JSON(fiber.Map{"success": true, "data": logs})
}

type moodLogReq struct {
	Stress      int    `json:"stress"`
	Happiness   int    `json:"happiness"`
	Energy      int    `json:"energy"`
	Focus       int    `json:"focus"`
	Calmness    int    `json:"calmness"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Prediction  string `json:"prediction"`
}

func (s *Server) createMoodLog(c *fiber.Ctx) error {
	var req moodLogReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date is required"})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}
	for _, v := range []int{req.Stress, req.Happiness, req.Energy, req.Focus, req.Calmness} {
		if v < 0 || v > 10 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scores must be between 0 and 10"})
		}
	}

	l := &mood.Log{
		Stress:      req.Stress,
		Happiness:   req.Happiness,
		Energy:      req.Energy,
		Focus:       req.Focus,
		Calmness:    req.Calmness,
		Description: req.Description,
		Date:        req.Date,
		Prediction:  req.Prediction,
	}
	if err := s.mood.Append(c.Context(), l); err != nil {
		s.log.Errorw("append mood log", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save log"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": l})
}

func (s *Server) moodSummary(c *fiber.Ctx) error {
	period := c.Query("period", "weekly")
	if period != "weekly" && period != "monthly" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "period must be weekly or monthly"})
	}

	logs, err := s.mood.List(c.Context())
	if err != nil {
		s.log.Errorw("list mood logs", "err", err)
		return c.JSON(fiber.Map{"success": false, "data": []mood.Point{}})
	}

	var points []mood.Point
	if period == "weekly" {
		points = mood.AggregateWeekly(logs, time.Now())
	} else {
		points = mood.AggregateMonthly(logs, time.Now())
	}
	return c.JSON(fiber.Map{"success": true, "data": points})
}

func (s *Server) listChatSessions(c *fiber.Ctx) error {
	participantID := c.Query("participantId")
	if participantID == "" {
		participantID = identity.From(c).ID
	}
	sessions, err := s.chat.ListSessions(c.Context(), participantID)
	if err != nil {
		s.log.Errorw("list chat sessions", "participant", participantID, "err", err)
		return c.JSON(fiber.Map{"sessions": []chat.Session{}})
	}
	if sessions == nil {
		sessions = []chat.Session{}
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (s *Server) conversationSnapshot(c *fiber.Ctx) error {
	conversationID := c.Params("conversationId")
	msgs, err := s.chat.Snapshot(c.Context(), conversationID)
	if err != nil {
		s.log.Errorw("load snapshot", "conversation", conversationID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load messages"})
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

type sendMessageReq struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

func (s *Server) sendChatMessage(c *fiber.Ctx) error {
	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	id := identity.From(c)
	msg, err := s.chat.SendMessage(c.Context(), c.Params("conversationId"), id.ID, req.ReceiverID, id.Name, req.Content)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		s.log.Errorw("send message", "conversation", c.Params("conversationId"), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send message"})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (s *Server) markConversationRead(c *fiber.Ctx) error {
	conversationID := c.Params("conversationId")
	if err := s.chat.MarkConversationRead(c.Context(), conversationID, identity.From(c).ID); err != nil {
		s.log.Errorw("mark conversation read", "conversation", conversationID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mark read"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
