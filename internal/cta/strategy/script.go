// Package strategy loads and runs Starlark bar strategies.
//
// A strategy script is a .star file defining on_bar(ctx, bar). It may also define
// on_init(ctx), on_start(ctx), on_stop(ctx) and on_trade(ctx, trade), and the globals
// strategy_name, parameters and optimization.
package strategy

import (
	_ "embed"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// Extension is the file extension of strategy scripts.
const Extension = ".star"

// maxLoadSteps bounds the top-level execution of a script.
const maxLoadSteps = 10_000_000

//go:embed atr_rsi_strategy.star
var atrRsiStrategy []byte

// BuiltinFile and BuiltinName identify the strategy installed into every workspace.
const (
	BuiltinFile = "atr_rsi_strategy.star"
	BuiltinName = "AtrRsiStrategy"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Space is an inclusive optimization range.
type Space struct {
	Start float64
	End   float64
	Step  float64
}

// Values enumerates the space from Start to End in Step increments.
func (s Space) Values() []float64 {
	var out []float64

	for i := 0; ; i++ {
		v := s.Start + float64(i)*s.Step
		if v > s.End+s.Step*1e-9 {
			break
		}

		out = append(out, math.Round(v*1e9)/1e9)
	}

	return out
}

// Script is a loaded strategy file.
type Script struct {
	Name         string
	File         string
	Parameters   map[string]float64
	Optimization map[string]Space

	integers map[string]bool
	globals  starlark.StringDict
}

// IsInteger reports whether parameter name was declared as an int.
func (s *Script) IsInteger(name string) bool {
	return s.integers[name]
}

// ParameterNames lists the declared parameters in lexical order.
func (s *Script) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for name := range s.Parameters {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Load executes the top level of file and reads its declarations.
func Load(file string) (*Script, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategyLoadFailed, err, "failed to read strategy file %s", file)
	}

	thread := &starlark.Thread{Name: "load " + filepath.Base(file)}
	thread.SetMaxExecutionSteps(maxLoadSteps)

	globals, err := starlark.ExecFileOptions(fileOptions, thread, file, src, predeclared())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategyLoadFailed, err, "failed to load strategy file %s", file)
	}

	if _, ok := globals["on_bar"].(starlark.Callable); !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s does not define on_bar(ctx, bar)", file)
	}

	s := &Script{
		Name:         CamelCase(strings.TrimSuffix(filepath.Base(file), Extension)),
		File:         file,
		Parameters:   map[string]float64{},
		Optimization: map[string]Space{},
		integers:     map[string]bool{},
		globals:      globals,
	}

	if name, ok := globals["strategy_name"].(starlark.String); ok && strings.TrimSpace(string(name)) != "" {
		s.Name = strings.TrimSpace(string(name))
	}

	if err := s.readParameters(globals["parameters"]); err != nil {
		return nil, err
	}

	if err := s.readOptimization(globals["optimization"]); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Script) readParameters(v starlark.Value) error {
	if v == nil {
		return nil
	}

	dict, ok := v.(*starlark.Dict)
	if !ok {
		return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: parameters must be a dict, got %s", s.File, v.Type())
	}

	for _, item := range dict.Items() {
		name, ok := starlark.AsString(item[0])
		if !ok {
			return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: parameter names must be strings", s.File)
		}

		value, ok := starlark.AsFloat(item[1])
		if !ok {
			return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: parameter %s must be a number", s.File, name)
		}

		s.Parameters[name] = value
		_, s.integers[name] = item[1].(starlark.Int)
	}

	return nil
}

func (s *Script) readOptimization(v starlark.Value) error {
	if v == nil {
		return nil
	}

	dict, ok := v.(*starlark.Dict)
	if !ok {
		return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: optimization must be a dict, got %s", s.File, v.Type())
	}

	for _, item := range dict.Items() {
		name, _ := starlark.AsString(item[0])
		if _, ok := s.Parameters[name]; !ok {
			return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: optimization names unknown parameter %q", s.File, name)
		}

		seq, ok := item[1].(starlark.Indexable)
		if !ok || seq.Len() != 3 {
			return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: optimization of %s must be [start, end, step]", s.File, name)
		}

		var bounds [3]float64

		for i := range bounds {
			f, ok := starlark.AsFloat(seq.Index(i))
			if !ok {
				return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: optimization of %s must be numeric", s.File, name)
			}

			bounds[i] = f
		}

		if bounds[2] <= 0 || bounds[1] < bounds[0] {
			return errors.Newf(errors.ErrCodeStrategyLoadFailed, "%s: optimization of %s needs start <= end and a positive step", s.File, name)
		}

		s.Optimization[name] = Space{Start: bounds[0], End: bounds[1], Step: bounds[2]}
	}

	return nil
}

// Scan loads every script in dir. Files that fail to load are logged and skipped.
// A name defined twice keeps the first file in lexical order.
func Scan(dir string, log *logger.Logger) ([]*Script, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+Extension))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "bad strategy glob", err)
	}

	sort.Strings(files)

	seen := map[string]bool{}

	var found []*Script

	for _, file := range files {
		s, err := Load(file)
		if err != nil {
			log.Warn("skipping strategy file", zap.String("file", file), zap.Error(err))

			continue
		}

		if seen[s.Name] {
			log.Warn("duplicate strategy name", zap.String("name", s.Name), zap.String("file", file))

			continue
		}

		seen[s.Name] = true
		found = append(found, s)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	return found, nil
}

// Find returns the script named name in dir.
func Find(dir, name string, log *logger.Logger) (*Script, error) {
	scripts, err := Scan(dir, log)
	if err != nil {
		return nil, err
	}

	for _, s := range scripts {
		if s.Name == name {
			return s, nil
		}
	}

	return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found in %s", name, dir)
}

// InstallBuiltin writes the bundled strategy into dir unless a file of that name exists.
func InstallBuiltin(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create strategy directory %s", dir)
	}

	path := filepath.Join(dir, BuiltinFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, atrRsiStrategy, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to install %s", path)
	}

	return nil
}

// CamelCase turns a snake or kebab case file stem into a strategy name.
func CamelCase(stem string) string {
	var b strings.Builder

	upper := true

	for _, r := range stem {
		if r == '_' || r == '-' || r == ' ' {
			upper = true

			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}

		b.WriteRune(r)
	}

	return b.String()
}
