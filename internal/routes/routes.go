package routes

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/fsutil"
)

// Route forwards the public prefix /<Name>/ to 127.0.0.1:<Port>.
type Route struct {
	Name string `json:"name" yaml:"name"`
	Port int    `json:"port" yaml:"port"`
}

// Prefix returns the external path prefix of the route.
func (r Route) Prefix() string {
	return "/" + r.Name + "/"
}

// FromProjects converts a project map into routes sorted by name.
func FromProjects(projects map[string]int) []Route {
	out := make([]Route, 0, len(projects))
	for name, port := range projects {
		out = append(out, Route{Name: name, Port: port})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Render returns the routes file for projects.
func Render(projects map[string]int) ([]byte, error) {
	var buf bytes.Buffer
	data := routesData{Host: config.LocalHost, Routes: FromProjects(projects)}
	if err := routesTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render routes: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the routes file atomically.
func Write(path string, content []byte) error {
	return fsutil.WriteFileAtomic(path, content, 0644)
}

var (
	locationRe  = regexp.MustCompile(`^location\s+/([^/\s]+)/\s*\{$`)
	proxyPassRe = regexp.MustCompile(`^proxy_pass\s+http://[^:/\s]+:(\d+)/?;$`)
)

// Parse extracts the location stanzas from a routes file in file order.
// Stanzas without a proxy_pass are reported with port 0.
func Parse(content []byte) ([]Route, error) {
	var (
		out     []Route
		current *Route
	)

	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if m := locationRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				return nil, fmt.Errorf("line %d: nested location block", lineNo)
			}
			current = &Route{Name: m[1]}
			continue
		}
		if current == nil {
			continue
		}
		if m := proxyPassRe.FindStringSubmatch(line); m != nil {
			port, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad port: %w", lineNo, err)
			}
			current.Port = port
			continue
		}
		if line == "}" {
			out = append(out, *current)
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current != nil {
		return nil, fmt.Errorf("unterminated location block for /%s/", current.Name)
	}
	return out, nil
}

// Diff describes how actual routes differ from expected ones, one entry per
// affected project, sorted by name. An empty result with differing bytes
// means only formatting changed.
func Diff(expected, actual []Route) []string {
	want := make(map[string]int, len(expected))
	for _, r := range expected {
		want[r.Name] = r.Port
	}
	got := make(map[string][]int, len(actual))
	for _, r := range actual {
		got[r.Name] = append(got[r.Name], r.Port)
	}

	names := make(map[string]struct{}, len(want)+len(got))
	for n := range want {
		names[n] = struct{}{}
	}
	for n := range got {
		names[n] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	var diffs []string
	for _, name := range sorted {
		wantPort, expectedHere := want[name]
		gotPorts := got[name]
		switch {
		case !expectedHere:
			diffs = append(diffs, fmt.Sprintf("/%s/ is not in the registry", name))
		case len(gotPorts) == 0:
			diffs = append(diffs, fmt.Sprintf("/%s/ is missing", name))
		case len(gotPorts) > 1:
			diffs = append(diffs, fmt.Sprintf("/%s/ appears %d times", name, len(gotPorts)))
		case gotPorts[0] != wantPort:
			diffs = append(diffs, fmt.Sprintf("/%s/ points at port %d, registry says %d", name, gotPorts[0], wantPort))
		}
	}
	return diffs
}
