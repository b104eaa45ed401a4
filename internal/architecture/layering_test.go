package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const modulesPrefix = "tasktracker/internal/modules/"

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	walkModuleImports(t, func(file, module, layer, importPath string) {
		if violatesLayerRule(module, layer, importPath) {
			t.Fatalf("forbidden import in %s (%s): %s", file, layer, importPath)
		}
	})
}

// Tasks drive the countdown through its inbound port; nothing else crosses
// a module boundary.
func TestCrossModuleEdges(t *testing.T) {
	t.Parallel()
	var edges []string
	walkModuleImports(t, func(_, module, layer, importPath string) {
		target := strings.TrimPrefix(importPath, modulesPrefix)
		if strings.HasPrefix(target, module+"/") {
			return
		}
		edge := module + "/" + layer + " -> " + target
		if !slices.Contains(edges, edge) {
			edges = append(edges, edge)
		}
	})
	slices.Sort(edges)
	want := []string{"task/usecase -> countdown/port/in"}
	if !slices.Equal(edges, want) {
		t.Fatalf("cross-module imports changed: got %v, want %v", edges, want)
	}
}

func TestViolatesLayerRule(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, importPath string
		want                      bool
	}{
		{"task", "usecase", modulesPrefix + "countdown/port/in", false},
		{"task", "usecase", modulesPrefix + "countdown/dto", false},
		{"task", "usecase", modulesPrefix + "countdown/usecase", true},
		{"task", "service", modulesPrefix + "countdown/service", true},
		{"pomodoro", "domain", modulesPrefix + "pomodoro/service", true},
		{"pomodoro", "usecase", modulesPrefix + "pomodoro/adapter/out", true},
		{"pomodoro", "adapter/in", modulesPrefix + "pomodoro/port/in", false},
		{"pomodoro", "adapter/in", modulesPrefix + "pomodoro/domain", true},
		{"pomodoro", "adapter/out", modulesPrefix + "pomodoro/port/out", false},
	}
	for _, tc := range cases {
		if got := violatesLayerRule(tc.module, tc.layer, tc.importPath); got != tc.want {
			t.Fatalf("%s/%s importing %s: got %v, want %v", tc.module, tc.layer, tc.importPath, got, tc.want)
		}
	}
}

// walkModuleImports calls visit for every intra-repo module import made by
// non-test files under internal/modules.
func walkModuleImports(t *testing.T, visit func(file, module, layer, importPath string)) {
	t.Helper()
	fset := token.NewFileSet()
	root := filepath.Join("..", "modules")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		slash := filepath.ToSlash(path)
		module := moduleName(slash)
		layer := detectLayer(slash)
		if module == "" || layer == "" {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if !strings.HasPrefix(importPath, modulesPrefix) {
				continue
			}
			visit(slash, module, layer, importPath)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk modules: %v", err)
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/")
}

// violatesLayerRule matches on segments, so importPath gets a trailing slash
// before any check.
func violatesLayerRule(module, layer, importPath string) bool {
	importPath = strings.TrimSuffix(importPath, "/") + "/"
	sameModule := strings.HasPrefix(importPath, modulesPrefix+module+"/")
	if !sameModule {
		if strings.Contains(importPath, "/service/") || strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") {
			return true
		}
		if isPortIn(importPath) || isDTO(importPath) {
			return false
		}
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/")
	case "domain":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") || strings.Contains(importPath, "/service/")
	default:
		return false
	}
}
