package profile

// NotProvided is the sentinel shown in prompts for fields the user has not
// disclosed yet. Prompts always receive this value instead of an empty
// string so the model never sees a blank placeholder.
const NotProvided = "aún no proporcionado"

// Profile is a derived snapshot of user-identifying fields, recomputed from
// the full dialogue on every request. It is never persisted or merged with
// a previous computation.
type Profile struct {
	Name     string
	Email    string
	Program  string
	Farewell bool
}

// Empty returns a profile with every field at the sentinel value.
func Empty() Profile {
	return Profile{
		Name:    NotProvided,
		Email:   NotProvided,
		Program: NotProvided,
	}
}

func (p Profile) HasName() bool    { return p.Name != NotProvided && p.Name != "" }
func (p Profile) HasEmail() bool   { return p.Email != NotProvided && p.Email != "" }
func (p Profile) HasProgram() bool { return p.Program != NotProvided && p.Program != "" }

// Complete reports whether all three lead fields are known.
func (p Profile) Complete() bool {
	return p.HasName() && p.HasEmail() && p.HasProgram()
}
