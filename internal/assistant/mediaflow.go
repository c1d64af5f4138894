package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/eportaro/langchain-waha-flaskapi/internal/media"
)

// handleMedia runs the pipeline for the detected input and returns the
// saved note text. A stage failure becomes one user-facing message naming
// the failed step; later stages are never attempted.
func (s *Service) handleMedia(ctx context.Context, rc *requestContext) string {
	if s.pipeline == nil {
		s.logger.Error("media message received but no pipeline configured", "chat_id", rc.msg.ChatID)
		return "Lo siento, el procesamiento de contenido multimedia no está disponible en este momento. 🙏"
	}

	note, err := s.pipeline.Run(ctx, rc.media)
	if err != nil {
		var stageErr *media.StageError
		if errors.As(err, &stageErr) {
			s.logger.Error("media pipeline stage failed",
				"chat_id", rc.msg.ChatID,
				"stage", string(stageErr.Stage),
				"error", stageErr.Err,
			)
			s.metrics.ObserveStageFailure(string(stageErr.Stage))
			return fmt.Sprintf("Lo siento, ocurrió un problema durante %s. Por favor, inténtalo de nuevo más tarde. 🙏", stageErr.Stage.DisplayName())
		}
		s.logger.Error("media pipeline failed", "chat_id", rc.msg.ChatID, "error", err)
		return "Lo siento, no pude procesar el contenido multimedia. 🙏"
	}
	return note
}
