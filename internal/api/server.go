package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/mindhaven/wellness/internal/appointment"
	"github.com/mindhaven/wellness/internal/chat"
	"github.com/mindhaven/wellness/internal/config"
	"github.com/mindhaven/wellness/internal/directory"
	"github.com/mindhaven/wellness/internal/email"
	"github.com/mindhaven/wellness/internal/identity"
	"github.com/mindhaven/wellness/internal/mood"
	"github.com/mindhaven/wellness/internal/schedule"
	"github.com/mindhaven/wellness/internal/ws"
)

type ChatService interface {
	SendMessage(ctx context.Context, conversationID, senderID, receiverID, senderName, content string) (*chat.Message, error)
	Snapshot(ctx context.Context, conversationID string) ([]chat.Message, error)
	MarkConversationRead(ctx context.Context, conversationID, viewerID string) error
	ListSessions(ctx context.Context, participantID string) ([]chat.Session, error)
}

type MoodStore interface {
	Append(ctx context.Context, l *mood.Log) error
	List(ctx context.Context) ([]mood.Log, error)
}

type ScheduleStore interface {
	Get(ctx context.Context, doctorID string) (*schedule.DoctorSchedule, error)
	Replace(ctx context.Context, s *schedule.DoctorSchedule) error
}

type AppointmentLister interface {
	List(ctx context.Context, doctorID string) ([]appointment.Appointment, error)
}

type Directory interface {
	Doctor(ctx context.Context, id string) (*directory.Doctor, error)
	ListDoctors(ctx context.Context) ([]directory.Doctor, error)
	Patients(ctx context.Context) (map[string]directory.Patient, error)
}

type ContactSender interface {
	SendContact(ctx context.Context, req email.ContactRequest) error
}

type Deps struct {
	Chat      ChatService
	Mood      MoodStore
	Schedules ScheduleStore
	Appts     AppointmentLister
	Dir       Directory
	Mailer    ContactSender
	WS        *ws.Handler
}

type Server struct {
	chat      ChatService
	mood      MoodStore
	schedules ScheduleStore
	appts     AppointmentLister
	dir       Directory
	mailer    ContactSender
	log       *zap.SugaredLogger
}

func New(cfg *config.Config, d Deps, log *zap.SugaredLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(fiberlogger.New())

	s := &Server{
		chat:      d.Chat,
		mood:      d.Mood,
		schedules: d.Schedules,
		appts:     d.Appts,
		dir:       d.Dir,
		mailer:    d.Mailer,
		log:       log,
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Contact form and doctor directory back public pages.
	api.Post("/sendEmail", s.sendEmail)
	api.Get("/doctors", s.listDoctors)
	api.Get("/doctors/:id", s.getDoctor)

	authed := api.Group("", identity.Middleware(cfg.Auth.JWTSecret, cfg.Auth.LoginPath, log))
	authed.Get("/settings", s.getSettings)
	authed.Get("/patients", s.listPatients)
	authed.Get("/doctor-schedule", s.getSchedule)
	authed.Post("/doctor-schedule", s.replaceSchedule)
	authed.Post("/doctor-schedule/day", s.upsertScheduleDay)
	authed.Delete("/doctor-schedule/day/:day", s.deleteScheduleDay)
	authed.Get("/appointments", s.listAppointments)
	authed.Get("/moodlogs", s.listMoodLogs)
	authed.Post("/moodlogs", s.createMoodLog)
	authed.Get("/moodlogs/summary", s.moodSummary)
	authed.Get("/chat-sessions", s.listChatSessions)
	authed.Get("/chats/:conversationId/messages", s.conversationSnapshot)
	authed.Post("/chats/:conversationId/messages", s.sendChatMessage)
	authed.Post("/chats/:conversationId/read", s.markConversationRead)

	if d.WS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/chats/:conversationId", websocket.New(d.WS.Serve()))
	}

	return app
}
