package profile

import "regexp"

// Catalogs holds the pattern data the extractor scans with. They live here,
// outside the control flow, so deployments can extend them via configuration
// without touching the extraction logic.
type Catalogs struct {
	// Programs are known program names, matched case-insensitively as
	// substrings of user turns.
	Programs []string
	// Farewells are closing phrases, matched case-insensitively as
	// substrings of user turns.
	Farewells []string
	// NamePattern captures the token following a self-introduction in a
	// user turn.
	NamePattern *regexp.Regexp
	// GreetingPatterns capture a name inside a personalized assistant
	// greeting; a previous reply having used a name implies it was
	// already confirmed.
	GreetingPatterns []*regexp.Regexp
}

var defaultPrograms = []string{
	"ai engineer",
	"data engineer",
	"data analyst",
	"machine learning",
	"data scientist",
}

var defaultFarewells = []string{
	"eso es todo",
	"gracias por la información",
	"muchas gracias",
	"eso sería todo",
	"adiós",
	"hasta luego",
	"chao",
	"nos vemos",
	"listo",
	"bueno muchas gracias",
	"hasta pronto",
}

var (
	defaultNamePattern = regexp.MustCompile(`mi nombre es\s+([\p{L}]+)`)

	defaultGreetingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`¡hola,?\s+([\p{L}]+)!`),
		regexp.MustCompile(`hola,?\s+([\p{L}]+)!`),
		regexp.MustCompile(`gracias por proporcionar tus datos,?\s+([\p{L}]+)`),
	}
)

// DefaultCatalogs returns the built-in Spanish catalogs. Programs and
// farewells can be overridden; nil keeps the defaults.
func DefaultCatalogs(programs, farewells []string) Catalogs {
	if len(programs) == 0 {
		programs = defaultPrograms
	}
	if len(farewells) == 0 {
		farewells = defaultFarewells
	}
	return Catalogs{
		Programs:         programs,
		Farewells:        farewells,
		NamePattern:      defaultNamePattern,
		GreetingPatterns: defaultGreetingPatterns,
	}
}
