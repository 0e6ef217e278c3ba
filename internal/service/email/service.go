package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/resend/resend-go/v3"

	"kaizen-ideas/internal/config"
	"kaizen-ideas/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendOTP(ctx context.Context, toEmail, name, code string, expiresIn time.Duration) error
	SendIdeaStatusEmail(ctx context.Context, toEmail, name string, idea *domain.Idea) error
}

// Sender delivers a rendered message. The resend client satisfies it through
// resendSender.
type Sender interface {
	Send(ctx context.Context, req *resend.SendEmailRequest) error
}

type resendSender struct {
	client *resend.Client
}

func (s resendSender) Send(ctx context.Context, req *resend.SendEmailRequest) error {
	_, err := s.client.Emails.SendWithContext(ctx, req)
	return err
}

type service struct {
	sender  Sender
	config  *config.Config
	layouts map[string]*template.Template
}

func NewService(cfg *config.Config) (Service, error) {
	return NewServiceWithSender(cfg, resendSender{client: resend.NewClient(cfg.ResendAPIKey)})
}

func NewServiceWithSender(cfg *config.Config, sender Sender) (Service, error) {
	layouts := make(map[string]*template.Template)
	for _, name := range []string{"otp.html", "idea_status.html"} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		layouts[name] = tmpl
	}

	return &service{sender: sender, config: cfg, layouts: layouts}, nil
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.layouts[templateName].ExecuteTemplate(&body, "layout", data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	return s.sender.Send(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.AppName, s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	})
}

func (s *service) SendOTP(ctx context.Context, toEmail, name, code string, expiresIn time.Duration) error {
	data := struct {
		Title     string
		Name      string
		AppName   string
		Code      string
		ExpiresIn string
	}{
		Title:     "Your sign-in code",
		Name:      name,
		AppName:   s.config.AppName,
		Code:      code,
		ExpiresIn: expiresIn.String(),
	}
	return s.sendEmail(ctx, toEmail, fmt.Sprintf("%s sign-in code", s.config.AppName), "otp.html", data)
}

func (s *service) SendIdeaStatusEmail(ctx context.Context, toEmail, name string, idea *domain.Idea) error {
	color := "#2563eb"
	switch idea.Status {
	case domain.StatusApproved, domain.StatusImplemented:
		color = "#10b981"
	case domain.StatusRejected:
		color = "#ef4444"
	}

	status := strings.ReplaceAll(string(idea.Status), "_", " ")
	comments := ""
	if idea.ReviewComments != nil {
		comments = *idea.ReviewComments
	}

	data := struct {
		Title     string
		Name      string
		AppName   string
		IdeaTitle string
		Status    string
		Comments  string
		Color     string
	}{
		Title:     "Idea status updated",
		Name:      name,
		AppName:   s.config.AppName,
		IdeaTitle: idea.Title,
		Status:    status,
		Comments:  comments,
		Color:     color,
	}
	return s.sendEmail(ctx, toEmail, fmt.Sprintf("Your idea is now %s", status), "idea_status.html", data)
}
