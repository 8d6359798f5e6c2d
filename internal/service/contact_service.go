package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/pkg/config"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
	"github.com/noah-isme/tutoring-site/pkg/mail"
)

// ContactService forwards contact-form submissions to the site inbox.
type ContactService struct {
	transport mail.Transport
	cfg       config.MailConfig
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewContactService constructs a ContactService.
func NewContactService(transport mail.Transport, cfg config.MailConfig, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContactService{transport: transport, cfg: cfg, validator: validate, logger: logger, metrics: metrics}
}

// Send validates and dispatches a contact message. In a constrained environment it reports success
// without contacting the mail server. Delivery is attempted once.
func (s *ContactService) Send(ctx context.Context, req dto.ContactForm) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Grade = strings.TrimSpace(req.Grade)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordContactMessage(OutcomeRejected)
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please provide your name, a valid email and a message")
	}

	if !s.cfg.Configured() || s.transport == nil {
		s.metrics.RecordContactMessage(OutcomeFailure)
		return appErrors.Clone(appErrors.ErrNotConfigured, "email is not set up yet, please reach us on Instagram or Line")
	}

	if s.cfg.Constrained {
		s.metrics.RecordContactMessage(OutcomeSkipped)
		s.logger.Info("contact message not sent in constrained environment", zap.String("from", req.Email))
		return nil
	}

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.transport.Send(sendCtx, ContactMessage(req, s.cfg)); err != nil {
		s.metrics.RecordContactMessage(OutcomeFailure)
		s.logger.Error("contact message delivery failed", zap.String("from", req.Email), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrDeliveryFailed.Code, appErrors.ErrDeliveryFailed.Status, "sending failed, please try again later or contact us directly")
	}

	s.metrics.RecordContactMessage(OutcomeSuccess)
	return nil
}

// ContactMessage formats a submission for the site inbox.
func ContactMessage(req dto.ContactForm, cfg config.MailConfig) mail.Message {
	body := fmt.Sprintf("Name: %s\nGrade: %s\nEmail: %s\n\nMessage:\n%s\n", req.Name, req.Grade, req.Email, req.Message)
	return mail.Message{
		From:    cfg.Username,
		To:      []string{cfg.Inbox()},
		ReplyTo: req.Email,
		Subject: "Contact message from " + req.Name,
		Body:    body,
	}
}
