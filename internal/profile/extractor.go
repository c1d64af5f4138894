package profile

import (
	"strings"
	"unicode"

	"github.com/eportaro/langchain-waha-flaskapi/internal/history"
	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// Extractor recovers a Profile by heuristic scanning of the dialogue. There
// is no structured storage of these fields anywhere else; the dialogue text
// is the only source of truth.
type Extractor struct {
	catalogs Catalogs
	logger   *logging.Logger
}

func NewExtractor(catalogs Catalogs, logger *logging.Logger) *Extractor {
	if catalogs.NamePattern == nil {
		catalogs = DefaultCatalogs(catalogs.Programs, catalogs.Farewells)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{catalogs: catalogs, logger: logger}
}

// Extract scans the dialogue newest-to-oldest for name, email and program,
// keeping the first candidate found per field, and chronologically for a
// farewell phrase. It never fails: a turn that cannot be parsed is logged
// and skipped.
func (e *Extractor) Extract(turns []history.Turn) Profile {
	p := Empty()

	for i := len(turns) - 1; i >= 0; i-- {
		e.scanTurn(turns[i], &p)
		if p.HasName() && p.HasEmail() && p.HasProgram() {
			break
		}
	}

	for _, turn := range turns {
		if turn.Role != history.RoleUser {
			continue
		}
		if containsAny(strings.ToLower(turn.Content), e.catalogs.Farewells) {
			p.Farewell = true
			break
		}
	}

	return p
}

func (e *Extractor) scanTurn(turn history.Turn, p *Profile) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("skipping unparseable turn", "panic", r)
		}
	}()

	text := strings.ToLower(turn.Content)

	if turn.Role == history.RoleUser {
		if !p.HasName() {
			if m := e.catalogs.NamePattern.FindStringSubmatch(text); len(m) > 1 {
				p.Name = capitalize(m[1])
			}
		}
		if !p.HasEmail() {
			if email := findEmailToken(text); email != "" {
				p.Email = email
			}
		}
		if !p.HasProgram() {
			for _, program := range e.catalogs.Programs {
				if strings.Contains(text, strings.ToLower(program)) {
					p.Program = program
					break
				}
			}
		}
		return
	}

	// Assistant turn: a personalized greeting is a secondary name source.
	if !p.HasName() {
		for _, pattern := range e.catalogs.GreetingPatterns {
			if m := pattern.FindStringSubmatch(text); len(m) > 1 {
				p.Name = capitalize(m[1])
				break
			}
		}
	}
}

// findEmailToken returns the first whitespace-delimited token containing
// both an "@" and a domain dot.
func findEmailToken(text string) string {
	for _, tok := range strings.Fields(text) {
		if strings.Contains(tok, "@") && strings.Contains(tok, ".") {
			return strings.Trim(tok, ",;:!?")
		}
	}
	return ""
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
