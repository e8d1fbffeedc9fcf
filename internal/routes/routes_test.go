package routes

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const alphaStanza = `location /alpha/ {
    proxy_pass http://127.0.0.1:9001/;
    proxy_set_header Host $host;
    proxy_set_header X-Real-IP $remote_addr;
    proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
    proxy_set_header X-Forwarded-Proto $scheme;
}
`

func mustRender(t *testing.T, projects map[string]int) []byte {
	t.Helper()
	out, err := Render(projects)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

func TestRender_Exact(t *testing.T) {
	got := string(mustRender(t, map[string]int{"alpha": 9001}))
	want := "# AUTOGENERATED FILE - DO NOT EDIT\n# Generated from registry.toml\n" + alphaStanza

	if got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	got := string(mustRender(t, nil))
	want := "# AUTOGENERATED FILE - DO NOT EDIT\n# Generated from registry.toml\n"

	if got != want {
		t.Errorf("Render(nil) = %q, want %q", got, want)
	}
}

// An existing routes file written by earlier deployments: header directly
// followed by the first stanza, stanzas separated by one blank line.
const deployedRoutes = `# AUTOGENERATED FILE - DO NOT EDIT
# Generated from registry.toml
location /alpha/ {
    proxy_pass http://127.0.0.1:9001/;
    proxy_set_header Host $host;
    proxy_set_header X-Real-IP $remote_addr;
    proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
    proxy_set_header X-Forwarded-Proto $scheme;
}

location /beta/ {
    proxy_pass http://127.0.0.1:9002/;
    proxy_set_header Host $host;
    proxy_set_header X-Real-IP $remote_addr;
    proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
    proxy_set_header X-Forwarded-Proto $scheme;
}
`

func TestRender_MatchesDeployedLayout(t *testing.T) {
	got := string(mustRender(t, map[string]int{"beta": 9002, "alpha": 9001}))
	if got != deployedRoutes {
		t.Errorf("Render() =\n%q\nwant:\n%q", got, deployedRoutes)
	}

	parsed, err := Parse([]byte(deployedRoutes))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	projects := make(map[string]int, len(parsed))
	for _, r := range parsed {
		projects[r.Name] = r.Port
	}
	if again := mustRender(t, projects); string(again) != deployedRoutes {
		t.Errorf("re-render of deployed file differs:\n%s", again)
	}
}

func TestRender_Deterministic(t *testing.T) {
	projects := map[string]int{}
	for i, name := range []string{"zeta", "alpha", "m_1", "Beta", "a-b", "x", "y", "gamma"} {
		projects[name] = 9000 + i
	}

	first := mustRender(t, projects)
	for i := 0; i < 20; i++ {
		copied := make(map[string]int, len(projects))
		for k, v := range projects {
			copied[k] = v
		}
		if again := mustRender(t, copied); !bytes.Equal(first, again) {
			t.Fatalf("render %d differs:\n%s\n---\n%s", i, first, again)
		}
	}
}

func TestRender_SortedByName(t *testing.T) {
	out := string(mustRender(t, map[string]int{"beta": 9002, "alpha": 9001}))

	a := strings.Index(out, "location /alpha/")
	b := strings.Index(out, "location /beta/")
	if a < 0 || b < 0 {
		t.Fatalf("missing stanzas:\n%s", out)
	}
	if a > b {
		t.Errorf("alpha should precede beta:\n%s", out)
	}
	if strings.Count(out, "location ") != 2 {
		t.Errorf("want exactly 2 stanzas:\n%s", out)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	projects := map[string]int{"beta": 9002, "alpha": 9001, "gamma": 9010}
	parsed, err := Parse(mustRender(t, projects))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := FromProjects(projects)
	if len(parsed) != len(want) {
		t.Fatalf("Parse() = %v, want %v", parsed, want)
	}
	for i := range want {
		if parsed[i] != want[i] {
			t.Errorf("route %d = %+v, want %+v", i, parsed[i], want[i])
		}
	}
}

func TestParse_Unterminated(t *testing.T) {
	if _, err := Parse([]byte("location /alpha/ {\n proxy_pass http://127.0.0.1:9001/;\n")); err == nil {
		t.Error("Parse should reject an unterminated block")
	}
}

func TestDiff(t *testing.T) {
	expected := []Route{{"alpha", 9001}, {"beta", 9002}, {"gamma", 9003}}
	actual := []Route{{"alpha", 9001}, {"beta", 9005}, {"delta", 9004}}

	got := Diff(expected, actual)
	want := []string{
		"/beta/ points at port 9005, registry says 9002",
		"/delta/ is not in the registry",
		"/gamma/ is missing",
	}

	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Diff() = %q, want %q", got, want)
	}

	if d := Diff(expected, expected); len(d) != 0 {
		t.Errorf("Diff(equal) = %q, want empty", d)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nginx", "routes.conf")
	content := mustRender(t, map[string]int{"alpha": 9001})

	if err := Write(path, content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("file content = %q, want %q", data, content)
	}
}

func TestRoutePrefix(t *testing.T) {
	if got := (Route{Name: "alpha", Port: 1}).Prefix(); got != "/alpha/" {
		t.Errorf("Prefix() = %q, want /alpha/", got)
	}
}
