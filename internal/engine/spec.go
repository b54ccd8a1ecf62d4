package engine

import "strings"

// BuildSpec describes a single image build.
type BuildSpec struct {
	Buildfile string // build description file, absolute
	Context   string // build context directory, absolute
	Tag       string
}

// RunSpec describes a single ephemeral test-container run.
type RunSpec struct {
	Tag        string
	ShmSize    string   // e.g. "256m"; validated by the caller
	TTY        bool     // allocate a pseudo-terminal
	Entrypoint []string // interpreter plus script tokens
	Forwarded  []string // caller arguments, appended verbatim in order
}

// BuildArgs returns the engine argv (sans binary) for building spec.
func BuildArgs(spec BuildSpec) []string {
	return []string{"build", "-f", spec.Buildfile, "-t", spec.Tag, spec.Context}
}

// RunArgs returns the engine argv (sans binary) for running spec. The
// container is always ephemeral; forwarded arguments keep their original
// order and token boundaries.
func RunArgs(spec RunSpec) []string {
	args := []string{"run", "--rm", "--shm-size", spec.ShmSize}
	if spec.TTY {
		args = append(args, "-t")
	}
	args = append(args, spec.Tag)
	args = append(args, spec.Entrypoint...)
	return append(args, spec.Forwarded...)
}

// quoteArgs renders args as a copy-pasteable shell command for echo and
// dry-run output. It never feeds a shell; execution uses the argv directly.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'`$\\*?[]{}()<>|&;") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
