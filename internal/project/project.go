package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/soaklab/leakrun/internal/config"
)

// ConfigName marks a directory as a leakrun project root.
const ConfigName = "leakrun.toml"

// ErrNotFound indicates no project root could be located.
var ErrNotFound = errors.New("no leakrun.toml found; run `leakrun init` at your project root")

// Project is a resolved launch root. All paths are absolute so the engine
// invocations are independent of the caller's working directory.
type Project struct {
	Root       string
	ConfigPath string
	Config     config.Config
}

// Load constructs a Project from a known root directory. A .env beside the
// config is applied first so LEAKRUN_* overrides work for local dev runs;
// it is harmless when absent.
func Load(root string) (*Project, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfgPath := filepath.Join(root, ConfigName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	return &Project{Root: root, ConfigPath: cfgPath, Config: cfg}, nil
}

// Discover walks upward from start until it finds a leakrun.toml.
func Discover(start string) (*Project, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	for {
		if isFile(filepath.Join(cur, ConfigName)) {
			return Load(cur)
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return nil, ErrNotFound
}

// Locate resolves the project root by precedence: the explicit argument,
// the LEAKRUN_PROJECT environment variable, walk-up discovery from the
// working directory, and finally the launcher executable's own directory.
func Locate(explicit string) (*Project, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if envRoot := os.Getenv("LEAKRUN_PROJECT"); envRoot != "" {
		return Load(envRoot)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	proj, err := Discover(wd)
	if err == nil {
		return proj, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if exeDir, ok := executableDir(); ok && isFile(filepath.Join(exeDir, ConfigName)) {
		return Load(exeDir)
	}
	return nil, ErrNotFound
}

// BuildfilePath returns the absolute build-description path.
func (p *Project) BuildfilePath() string {
	return p.absPath(p.Config.Buildfile)
}

// ContextPath returns the absolute build-context directory.
func (p *Project) ContextPath() string {
	return p.absPath(p.Config.Context)
}

func (p *Project) absPath(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.Root, rel)
}

func executableDir() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), true
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
