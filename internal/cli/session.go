package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/contingent/internal/domain"
	"github.com/mesh-intelligence/contingent/internal/paths"
	"github.com/mesh-intelligence/contingent/pkg/sqlite"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

// session is the resolved configuration of one command run.
type session struct {
	configDir string
	config    types.Config
	logger    *zap.Logger
	json      bool
	out       io.Writer
}

// newSession resolves directories and settings from flags, config.yaml and
// the environment, in that order of precedence.
func (o *options) newSession(cmd *cobra.Command) (*session, error) {
	configDir, err := paths.ResolveConfigDir(o.configDir)
	if err != nil {
		return nil, sysError("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, userError("%w", err)
	}
	dataDir, err := paths.ResolveDataDir(o.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, sysError("resolve data dir: %w", err)
	}
	logLevel := v.GetString(cfgKeyLogLevel)
	if o.logLevel != "" {
		logLevel = o.logLevel
	}
	domainFile, err := paths.ResolveDomainFile(o.domain, v.GetString(cfgKeyDomain), configDir)
	if err != nil && !errors.Is(err, paths.ErrNoDomain) {
		return nil, userError("resolve domain file: %w", err)
	}
	cfg := types.Config{
		DataDir:    dataDir,
		DomainFile: domainFile,
		LogLevel:   logLevel,
	}
	if err := cfg.Validate(); err != nil {
		return nil, userError("invalid configuration: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, userError("%w", err)
	}
	return &session{
		configDir: configDir,
		config:    cfg,
		logger:    logger,
		json:      o.json,
		out:       cmd.OutOrStdout(),
	}, nil
}

// newLogger builds a JSON logger with the production encoder at level,
// writing to w.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// loadDomain reads the configured domain file.
func (s *session) loadDomain() (*domain.Domain, error) {
	if s.config.DomainFile == "" {
		return nil, userError("no domain file: pass --domain, set domain in %s or %s", configFileExt, paths.EnvDomainFile)
	}
	d, err := domain.Load(s.config.DomainFile)
	if err != nil {
		return nil, userError("%w", err)
	}
	s.logger.Debug("domain loaded", zap.String("domain", d.Name()), zap.String("path", s.config.DomainFile))
	return d, nil
}

// attachArchive opens the snapshot archive. The caller must Detach it.
func (s *session) attachArchive() (*sqlite.Archive, error) {
	a := sqlite.NewArchive()
	if err := a.Attach(s.config); err != nil {
		return nil, sysError("attach archive: %w", err)
	}
	return a, nil
}

// readProblem reads a problem file given on the command line.
func readProblem(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", userError("read problem: %w", err)
	}
	return string(data), nil
}

// printJSON writes v as indented JSON.
func (s *session) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal output: %w", err)
	}
	fmt.Fprintln(s.out, string(data))
	return nil
}
