package server

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

//go:embed web/index.html
var webFS embed.FS

// Server exposes the assistant session over HTTP: a single-page UI, a
// small JSON API driving the turn pipeline, and a websocket event feed.
type Server struct {
	app     *fiber.App
	session *application.Session
	hub     *Hub
	logger  *slog.Logger
}

func New(session *application.Session, hub *Hub, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		session: session,
		hub:     hub,
		logger:  logger,
	}

	s.app.Get("/", s.handleIndex)
	s.app.Post("/api/message", s.handleMessage)
	s.app.Post("/api/record/start", s.handleRecordStart)
	s.app.Post("/api/record/stop", s.handleRecordStop)
	s.app.Post("/api/record/cancel", s.handleRecordCancel)
	s.app.Get("/api/history", s.handleHistory)
	s.app.Delete("/api/history", s.handleClear)
	s.app.Get("/api/state", s.handleState)
	s.app.Get("/healthz", s.handleHealth)

	s.app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	))

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(hub.serve))

	return s
}

// Listen blocks serving on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Test serves a request in-process without a listener. For tests.
func (s *Server) Test(req *http.Request) (*http.Response, error) {
	return s.app.Test(req, -1)
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

type messageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleMessage(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text must not be empty"})
	}

	result, err := s.session.SubmitText(c.UserContext(), req.Text)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"turn": result})
}

func (s *Server) handleRecordStart(c *fiber.Ctx) error {
	if err := s.session.StartRecording(c.UserContext()); err != nil {
		return s.errorResponse(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"state": s.session.State()})
}

func (s *Server) handleRecordStop(c *fiber.Ctx) error {
	result, err := s.session.StopRecording(c.UserContext())
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"turn": result})
}

func (s *Server) handleRecordCancel(c *fiber.Ctx) error {
	if err := s.session.CancelRecording(); err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"state": s.session.State()})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"turns": s.session.History()})
}

func (s *Server) handleClear(c *fiber.Ctx) error {
	if err := s.session.Clear(); err != nil {
		return s.errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": s.session.State()})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) errorResponse(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}
	if stage, ok := domain.StageOf(err); ok {
		body["stage"] = stage
	}
	return c.Status(statusFor(err)).JSON(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionBusy), errors.Is(err, domain.ErrNotRecording):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCapture):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDeviceUnavailable):
		return http.StatusServiceUnavailable
	}
	if _, ok := domain.StageOf(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
