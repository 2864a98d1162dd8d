package usecase

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"sync"
	texttemplate "text/template"
	"time"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/pkg/events"
	"cleaning-hub/pkg/mailer"
	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

//go:embed templates/*
var templateFS embed.FS

var templateFuncs = map[string]any{
	"naira": func(amount float64) string {
		return "₦" + strconv.FormatFloat(amount, 'f', -1, 64)
	},
}

var (
	htmlTemplates = template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.txt"))
)

const notificationTimeout = 30 * time.Second

// NotificationService fans booking and account events out to email, the chat
// hook and the event bus. Every method returns immediately; delivery happens
// in the background and failures are only logged.
type NotificationService interface {
	BookingCreated(booking *entity.Booking)
	BookingStatusChanged(booking *entity.Booking)
	VerificationCode(email, name, code string, expiresIn time.Duration)
	ReviewCreated(review *entity.Review, points int)
	ReferralCompleted(referral *entity.Referral)
	// Wait blocks until in-flight deliveries finish.
	Wait()
}

type notificationService struct {
	mailer  mailer.Mailer
	events  events.Publisher
	config  utils.NotificationConfig
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewNotificationService(m mailer.Mailer, pub events.Publisher, config utils.NotificationConfig, log *zap.Logger) NotificationService {
	return &notificationService{
		mailer:  m,
		events:  pub,
		config:  config,
		log:     log.With(zap.String("service", "notification")),
		timeout: notificationTimeout,
		now:     time.Now,
	}
}

func (s *notificationService) dispatch(name string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.log.Error("Notification failed", zap.String("notification", name), zap.Error(err))
		}
	}()
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

type bookingTemplateData struct {
	Booking  *entity.Booking
	Contact  utils.NotificationConfig
	BookedAt string
}

func (s *notificationService) BookingCreated(booking *entity.Booking) {
	b := *booking
	s.dispatch("booking_created", func(ctx context.Context) error {
		return s.sendBookingCreated(ctx, &b)
	})
}

func (s *notificationService) sendBookingCreated(ctx context.Context, b *entity.Booking) error {
	var errs []error
	data := bookingTemplateData{Booking: b, Contact: s.config, BookedAt: s.now().Format(time.RFC1123)}

	if s.config.OwnerEmail != "" {
		if err := s.sendEmail(ctx, s.config.OwnerEmail, "", "🔔 NEW BOOKING - "+b.ServiceName, "owner_booking.html", data); err != nil {
			errs = append(errs, err)
		}
	} else {
		s.log.Warn("Business owner email not configured", zap.String("booking_id", b.ID))
	}

	if b.CustomerEmail != "" {
		if err := s.sendEmail(ctx, b.CustomerEmail, b.CustomerName, "Booking Confirmation - "+b.ServiceName, "customer_booking.html", data); err != nil {
			errs = append(errs, err)
		}
	}

	if s.config.OwnerPhone != "" {
		if err := s.sendChat(ctx, s.config.OwnerPhone, b); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.publish(ctx, events.BookingCreated, bookingEvent(b, s.now())); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		s.log.Info("Booking notifications sent", zap.String("booking_id", b.ID))
	}
	return errors.Join(errs...)
}

func (s *notificationService) BookingStatusChanged(booking *entity.Booking) {
	b := *booking
	s.dispatch("booking_status_changed", func(ctx context.Context) error {
		var errs []error
		data := bookingTemplateData{Booking: &b, Contact: s.config, BookedAt: s.now().Format(time.RFC1123)}
		subject := fmt.Sprintf("Booking %s is now %s", b.ID, b.Status)

		if s.config.OwnerEmail != "" {
			if err := s.sendEmail(ctx, s.config.OwnerEmail, "", subject, "status_changed.html", data); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.publish(ctx, events.BookingStatusChanged, bookingEvent(&b, s.now())); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})
}

func (s *notificationService) VerificationCode(email, name, code string, expiresIn time.Duration) {
	s.dispatch("verification_code", func(ctx context.Context) error {
		data := struct {
			Name      string
			Code      string
			ExpiresIn int
		}{Name: name, Code: code, ExpiresIn: int(expiresIn.Minutes())}

		return s.sendEmail(ctx, email, name, "Your Cleaning Hub verification code", "verification_code.html", data)
	})
}

func (s *notificationService) ReviewCreated(review *entity.Review, points int) {
	evt := events.ReviewEvent{
		ReviewID:   review.ID.String(),
		BookingID:  review.BookingID,
		UserID:     review.UserID.String(),
		Rating:     review.Rating,
		Points:     points,
		OccurredAt: s.now(),
	}
	s.dispatch("review_created", func(ctx context.Context) error {
		return s.publish(ctx, events.ReviewCreated, evt)
	})
}

func (s *notificationService) ReferralCompleted(referral *entity.Referral) {
	evt := events.ReferralEvent{
		ReferralID:     referral.ID.String(),
		ReferrerID:     referral.ReferrerID.String(),
		ReferredUserID: referral.ReferredUserID.String(),
		Points:         referral.PointsAwarded,
		OccurredAt:     s.now(),
	}
	s.dispatch("referral_completed", func(ctx context.Context) error {
		return s.publish(ctx, events.ReferralCompleted, evt)
	})
}

func (s *notificationService) sendEmail(ctx context.Context, to, toName, subject, tmpl string, data any) error {
	var body bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return &NotificationError{Channel: "email", Recipient: to, Err: fmt.Errorf("render %s: %w", tmpl, err)}
	}

	msg := mailer.Message{
		To:      to,
		ToName:  toName,
		Subject: subject,
		Text:    subject,
		HTML:    body.String(),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return &NotificationError{Channel: "email", Recipient: to, Err: err}
	}
	return nil
}

func (s *notificationService) sendChat(ctx context.Context, to string, b *entity.Booking) error {
	var body bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&body, "owner_chat.txt", b); err != nil {
		return &NotificationError{Channel: "whatsapp", Recipient: to, Err: fmt.Errorf("render chat message: %w", err)}
	}

	msg := events.ChatMessage{To: to, Message: body.String(), BookingID: b.ID}
	if err := s.events.Publish(ctx, events.NotifyWhatsApp, msg); err != nil {
		return &NotificationError{Channel: "whatsapp", Recipient: to, Err: err}
	}
	return nil
}

func (s *notificationService) publish(ctx context.Context, subject string, data any) error {
	if err := s.events.Publish(ctx, subject, data); err != nil {
		return &NotificationError{Channel: "events", Recipient: subject, Err: err}
	}
	return nil
}

func bookingEvent(b *entity.Booking, now time.Time) events.BookingEvent {
	evt := events.BookingEvent{
		BookingID:   b.ID,
		ServiceName: b.ServiceName,
		Status:      string(b.Status),
		Channel:     string(b.Channel),
		OccurredAt:  now,
	}
	if b.UserID != nil {
		evt.UserID = b.UserID.String()
	}
	return evt
}
