package app

import "os/exec"

// BodyEditor lets the user write a post body in an external program.
// Implemented by infrastructure (e.g. EnvEditor spawning $EDITOR). The
// returned command is run by the caller so the UI can hand over the
// terminal while it executes.
type BodyEditor interface {
	// Cmd writes body to a temp file and returns the command that edits it.
	Cmd(body string) (*exec.Cmd, string, error)

	// ReadContent returns the edited body and removes the temp file.
	ReadContent(path string) (string, error)
}
