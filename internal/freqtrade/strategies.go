package freqtrade

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// strategyClass matches classes deriving from IStrategy, qualified or not.
var strategyClass = regexp.MustCompile(`(?m)^class\s+(\w+)\s*\(\s*(?:\w+\.)*IStrategy\s*\)\s*:`)

// ScanStrategies registers every IStrategy subclass found in the python files of dir.
// A name defined twice keeps the first file in lexical order.
func ScanStrategies(dir string) ([]session.StrategyInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.py"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "bad strategy glob", err)
	}

	sort.Strings(files)

	seen := map[string]bool{}

	var found []session.StrategyInfo

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeStrategyLoadFailed, err, "failed to read strategy file %s", file)
		}

		for _, m := range strategyClass.FindAllStringSubmatch(string(content), -1) {
			if seen[m[1]] {
				continue
			}

			seen[m[1]] = true
			found = append(found, session.StrategyInfo{Name: m[1], File: file})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	return found, nil
}
