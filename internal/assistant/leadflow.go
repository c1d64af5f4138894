package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/eportaro/langchain-waha-flaskapi/internal/leads"
)

// leadAskMarker must appear in every reply that requests lead fields; the
// route matcher uses it to recognize an in-progress capture on the next
// turn.
const leadAskMarker = "conectarte con un asesor"

// handleLead drives the capture flow: ask for exactly the fields still
// missing, and only when all three are known register the lead and then
// notify. Registration failure blocks the notification.
func (s *Service) handleLead(ctx context.Context, rc *requestContext) string {
	prof := rc.profile

	if missing := missingLeadFields(rc); len(missing) > 0 {
		return fmt.Sprintf(
			"¡Con gusto! Para %s necesito algunos datos. ¿Me puedes compartir tu %s? 😊",
			leadAskMarker,
			joinSpanish(missing),
		)
	}

	if s.leadsRepo == nil {
		s.logger.Error("lead capture requested but no repository configured", "chat_id", rc.msg.ChatID)
		return "Lo siento, en este momento no puedo registrar tus datos. Por favor, inténtalo más tarde. 🙏"
	}

	lead, err := s.leadsRepo.Create(ctx, &leads.CreateLeadRequest{
		Name:    prof.Name,
		Email:   prof.Email,
		Program: prof.Program,
		ChatID:  rc.msg.ChatID,
	})
	if err != nil {
		s.logger.Error("lead registration failed", "chat_id", rc.msg.ChatID, "error", err)
		s.metrics.ObserveLeadRegistration("failed")
		return "Lo siento, no pude registrar tus datos en este momento. Por favor, inténtalo de nuevo más tarde. 🙏"
	}
	s.metrics.ObserveLeadRegistration("ok")
	s.logger.Info("lead registered", "lead_id", lead.ID, "program", lead.Program)

	if s.notifier != nil {
		if err := s.notifier.AdvisorContact(ctx, prof.Name, prof.Email, prof.Program); err != nil {
			// The lead is already registered; a failed courtesy email
			// should not turn the reply into a failure.
			s.logger.Warn("advisor notification failed", "lead_id", lead.ID, "error", err)
		}
	}

	return fmt.Sprintf(
		"¡Gracias por proporcionar tus datos, %s! He registrado tu interés en el programa %s y un asesor se pondrá en contacto contigo muy pronto. 😊",
		prof.Name,
		prof.Program,
	)
}

// missingLeadFields lists the user-facing names of the fields the profile
// still lacks, in the fixed order they are requested.
func missingLeadFields(rc *requestContext) []string {
	var missing []string
	if !rc.profile.HasName() {
		missing = append(missing, "nombre completo")
	}
	if !rc.profile.HasEmail() {
		missing = append(missing, "correo electrónico")
	}
	if !rc.profile.HasProgram() {
		missing = append(missing, "programa de interés")
	}
	return missing
}

func joinSpanish(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " y " + items[len(items)-1]
}
