package relay

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/unisearch/api/services/mailer"
)

// Config holds the relay's outbound email settings.
type Config struct {
	From string
	To   string
}

// Document is one entry in the notification's document list.
type Document struct {
	DocumentType string `json:"document_type"`
	FilePath     string `json:"file_path"`
}

// SendEmailRequest is the body accepted by POST /send-email.
type SendEmailRequest struct {
	UserID        uint       `json:"userId"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	Course        string     `json:"course"`
	University    string     `json:"university"`
	ApplicationID uint       `json:"applicationId"`
	Documents     []Document `json:"documents"`
}

// Server is the stateless notification relay: it accepts an
// application-submitted event and forwards a formatted email through the
// provider. No retry, no queuing.
type Server struct {
	app    *fiber.App
	mailer mailer.Mailer
	config Config
}

// NewServer creates the relay server with its routes registered
func NewServer(m mailer.Mailer, config Config) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "unisearch-relay",
		DisableStartupMessage: false,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		app:    app,
		mailer: m,
		config: config,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/send-email", s.handleSendEmail)

	return s
}

// App exposes the underlying fiber app for testing
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the relay on the given port
func (s *Server) Listen(port string) error {
	return s.app.Listen(":" + port)
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSendEmail(c *fiber.Ctx) error {
	var req SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	// Every required field must be present before any external call
	if req.UserID == 0 || req.FullName == "" || req.Email == "" ||
		req.Course == "" || req.University == "" || req.ApplicationID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	msg := mailer.Message{
		From:    s.config.From,
		To:      []string{s.config.To},
		Subject: fmt.Sprintf("New Application Submitted - %s", req.FullName),
		HTML:    buildEmailHTML(req),
	}

	if err := s.mailer.Send(c.Context(), msg); err != nil {
		log.Printf("Failed to forward notification for application %d: %v", req.ApplicationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email sent successfully",
	})
}

// buildEmailHTML formats the human-readable submission summary, one line per
// document.
func buildEmailHTML(req SendEmailRequest) string {
	var b strings.Builder

	b.WriteString("<h2>New Application Submitted</h2>")
	b.WriteString("<p>A new application has been submitted with the following details:</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li><strong>Application ID:</strong> %d</li>", req.ApplicationID)
	fmt.Fprintf(&b, "<li><strong>User ID:</strong> %d</li>", req.UserID)
	fmt.Fprintf(&b, "<li><strong>Full Name:</strong> %s</li>", req.FullName)
	fmt.Fprintf(&b, "<li><strong>Email:</strong> %s</li>", req.Email)
	fmt.Fprintf(&b, "<li><strong>University:</strong> %s</li>", req.University)
	fmt.Fprintf(&b, "<li><strong>Course:</strong> %s</li>", req.Course)
	b.WriteString("</ul>")

	if len(req.Documents) > 0 {
		b.WriteString("<h3>Documents</h3>")
		b.WriteString("<pre>")
		for _, doc := range req.Documents {
			fmt.Fprintf(&b, "- %s: %s\n", doc.DocumentType, doc.FilePath)
		}
		b.WriteString("</pre>")
	}

	return b.String()
}
