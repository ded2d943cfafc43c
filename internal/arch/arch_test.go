// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type pkg struct {
	ImportPath string
	Imports    []string
}

const mod = "kr2r/"

// within reports whether path is pkgPath or one of its subpackages.
func within(path, pkgPath string) bool {
	return path == pkgPath || strings.HasPrefix(path, pkgPath+"/")
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	require.NoError(t, cmd.Run(), "go list")
	dec := json.NewDecoder(&out)

	apps := []string{
		"kr2r/internal/cli", "kr2r/internal/appshell",
		"kr2r/internal/classifyapp", "kr2r/internal/inspectapp", "kr2r/cmd",
	}
	with := func(extra ...string) []string { return append(extra, apps...) }

	bans := map[string][]string{
		"kr2r/internal/taxonomy": with("kr2r/internal/seqkmer", "kr2r/internal/index", "kr2r/internal/compact",
			"kr2r/internal/classify", "kr2r/internal/classifier", "kr2r/internal/pipeline", "kr2r/internal/writers"),
		"kr2r/internal/seqkmer": with("kr2r/internal/taxonomy", "kr2r/internal/index", "kr2r/internal/compact",
			"kr2r/internal/classify", "kr2r/internal/classifier", "kr2r/internal/pipeline", "kr2r/internal/writers"),
		"kr2r/internal/index":   with("kr2r/internal/compact", "kr2r/internal/classify", "kr2r/internal/classifier", "kr2r/internal/pipeline"),
		"kr2r/internal/compact": with("kr2r/internal/taxonomy", "kr2r/internal/classify", "kr2r/internal/classifier", "kr2r/internal/pipeline"),
		"kr2r/internal/classify": with("kr2r/internal/classifier", "kr2r/internal/pipeline",
			"kr2r/internal/writers", "kr2r/internal/database"),
		"kr2r/internal/pipeline":   with("kr2r/internal/classify", "kr2r/internal/classifier", "kr2r/internal/writers"),
		"kr2r/internal/classifier": with("kr2r/internal/writers", "kr2r/internal/database", "kr2r/internal/metrics"),
		"kr2r/internal/writers":    with("kr2r/internal/pipeline", "kr2r/internal/database"),
		"kr2r/internal/database":   with("kr2r/internal/classifier", "kr2r/internal/pipeline", "kr2r/internal/writers"),
		"kr2r/pkg/api":             with("kr2r/internal"),
	}

	var violations []string
	for {
		var p pkg
		err := dec.Decode(&p)
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "decode")
		if !strings.HasPrefix(p.ImportPath, mod) {
			continue
		}
		for owner, forbidden := range bans {
			if !within(p.ImportPath, owner) {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if within(dep, ban) {
						violations = append(violations, p.ImportPath+" → "+dep)
					}
				}
			}
		}
	}

	require.Empty(t, violations, "import boundary violations:\n  %s", strings.Join(violations, "\n  "))
}
