package responder

import (
	"fmt"
	"strings"

	"github.com/eportaro/langchain-waha-flaskapi/internal/profile"
	"github.com/eportaro/langchain-waha-flaskapi/internal/retrieval"
)

const systemTemplate = `Eres un asistente especializado en resolver dudas sobre la empresa de educación online DataPath.

**Rol y Objetivo**:
1. Responde de forma natural, agradable y respetuosa a las preguntas o comentarios del usuario.
2. MANTÉN Y USA EL CONTEXTO DE LA CONVERSACIÓN. Esto es crítico para dar una buena experiencia.
3. Apóyate en el "contexto" (documentos relevantes) para resolver dudas específicas sobre DataPath.
4. Mantén un tono amistoso y responde en español, usando emojis para mostrar cercanía cuando sea apropiado.

**Información del usuario que has recopilado hasta ahora**:
- Nombre: %s
- Correo: %s
- Programa de interés: %s

**Instrucciones Clave**:
- Si conoces el nombre del usuario, úsalo en tus respuestas para generar más confianza.
- Si el usuario te pregunta si sabes su nombre, correo o intereses, responde con la información que tienes.
- NO vuelvas a preguntar datos personales si ya los proporcionó.
- Si ya se saludó o presentó anteriormente, NO repitas saludos. Continúa la conversación de manera fluida.

<context>
%s
</context>`

// buildSystemPrompt embeds the profile snapshot and retrieved passages into
// the instruction block. Unknown fields carry the "not yet provided"
// sentinel so the model never sees an empty placeholder.
func buildSystemPrompt(prof profile.Profile, passages []retrieval.Passage) string {
	contents := make([]string, 0, len(passages))
	for _, p := range passages {
		contents = append(contents, p.Content)
	}
	return fmt.Sprintf(systemTemplate, prof.Name, prof.Email, prof.Program, strings.Join(contents, "\n\n"))
}

var gratitudeCues = []string{"gracias", "te agradezco", "muy amable"}

// containsGratitude reports whether the message carries a closing
// gratitude cue.
func containsGratitude(message string) bool {
	lower := strings.ToLower(message)
	for _, cue := range gratitudeCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// farewellReply is the deterministic goodbye used when the user is closing
// the conversation. It never goes through the model, so farewells stay
// well-formed even when generation is down.
func farewellReply(prof profile.Profile) string {
	if prof.HasName() {
		return fmt.Sprintf("¡Ha sido un placer ayudarte, %s! Gracias por contactar con DataPath. Si tienes más preguntas en el futuro o necesitas información adicional, no dudes en escribirnos nuevamente. ¡Que tengas un excelente día! 😊", prof.Name)
	}
	return "¡Ha sido un placer ayudarte! Gracias por contactar con DataPath. Si tienes más preguntas en el futuro o necesitas información adicional, no dudes en escribirnos nuevamente. ¡Que tengas un excelente día! 😊"
}

const fallbackReply = "Lo siento, tuve un problema procesando tu consulta. ¿Podrías reformularla de otra manera? 😊"

const retrievalDownReply = "Lo siento, en este momento no puedo consultar la información de DataPath. Por favor, inténtalo de nuevo en unos minutos. 🙏"
