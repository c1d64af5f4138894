package notify

import (
	"context"
	"fmt"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// Service notifies registered leads that an advisor will contact them.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// AdvisorContact emails the lead confirming that an advisor will reach out
// about the program they are interested in. The caller must only invoke
// this after the lead has been registered.
func (s *Service) AdvisorContact(ctx context.Context, name, email, program string) error {
	if s.email == nil {
		s.logger.Debug("email sender not configured, skipping advisor notification")
		return nil
	}

	msg := EmailMessage{
		To:      email,
		ToName:  name,
		Subject: "Un asesor de DataPath se pondrá en contacto contigo",
		Body: fmt.Sprintf(
			"Hola %s,\n\n¡Gracias por tu interés en el programa %s de DataPath! 😊\n\nHemos registrado tus datos y un asesor se pondrá en contacto contigo muy pronto para darte toda la información personalizada que necesitas.\n\nSaludos,\nEl equipo de DataPath",
			name, program,
		),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: advisor contact email: %w", err)
	}

	s.logger.Info("advisor contact notification sent", "email", email, "program", program)
	return nil
}
