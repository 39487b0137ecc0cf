//go:build integration
// +build integration

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
)

const testBinary = "./libi_test"

// TestMain builds the binary once for every test
func TestMain(m *testing.M) {
	buildCmd := exec.Command("go", "build", "-o", testBinary, ".")
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		os.Stderr.WriteString("Failed to build binary: " + err.Error() + "\n")
		os.Exit(1)
	}
	code := m.Run()
	os.Remove(testBinary)
	os.Exit(code)
}

// fakeLastFM serves just enough of the Last.fm API for the recent command
func fakeLastFM(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body interface{}
		switch r.URL.Query().Get("method") {
		case "user.getrecenttracks":
			body = map[string]interface{}{
				"recenttracks": map[string]interface{}{
					"track": []interface{}{
						map[string]interface{}{
							"name":   "Believe",
							"artist": map[string]string{"#text": "Cher"},
							"album":  map[string]string{"#text": "Believe"},
							"date":   map[string]string{"uts": "1700000000"},
						},
						map[string]interface{}{
							"name":   "Strong Enough",
							"artist": map[string]string{"#text": "Cher"},
							"date":   map[string]string{"uts": "1699990000"},
						},
					},
				},
			}
		case "track.getinfo":
			body = map[string]interface{}{
				"track": map[string]interface{}{
					"name":          r.URL.Query().Get("track"),
					"userplaycount": "250",
				},
			}
		case "artist.getinfo":
			body = map[string]interface{}{
				"artist": map[string]interface{}{
					"name":  r.URL.Query().Get("artist"),
					"stats": map[string]string{"userplaycount": "1000"},
					"tags":  map[string]interface{}{"tag": []map[string]string{{"name": "pop"}}},
				},
			}
		default:
			body = map[string]interface{}{"error": 3, "message": "Invalid Method"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the binary with an isolated home directory
func run(t *testing.T, home string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(testBinary, args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"LIBI_DATA_DIR="+home,
		"LIBI_LOG_LEVEL=error",
	)
	cmd.Env = append(cmd.Env, env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), nil, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "libi version") {
		t.Errorf("unexpected version output: %s", out)
	}
}

func TestEarningsCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), nil, "earnings", "250", "1000")
	if err != nil {
		t.Fatalf("earnings failed: %v\n%s", err, out)
	}
	for _, want := range []string{"$1.0000", "$4.0000", "Total: $5.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	if out, err := run(t, t.TempDir(), nil, "earnings", "lots"); err == nil {
		t.Errorf("expected invalid play count to fail:\n%s", out)
	}
}

func TestUserAndTheme(t *testing.T) {
	home := t.TempDir()

	if out, err := run(t, home, nil, "user"); err == nil {
		t.Fatalf("expected no saved user:\n%s", out)
	}
	if out, err := run(t, home, nil, "user", "set", "rj"); err != nil {
		t.Fatalf("user set failed: %v\n%s", err, out)
	}
	out, err := run(t, home, nil, "user")
	if err != nil || strings.TrimSpace(out) != "rj" {
		t.Fatalf("expected saved user rj, got %q (%v)", out, err)
	}

	out, err = run(t, home, nil, "theme", "toggle")
	if err != nil || !strings.Contains(out, "light") {
		t.Fatalf("expected theme toggled to light, got %q (%v)", out, err)
	}

	if out, err := run(t, home, nil, "user", "clear"); err != nil {
		t.Fatalf("user clear failed: %v\n%s", err, out)
	}
	out, err = run(t, home, nil, "theme")
	if err != nil || strings.TrimSpace(out) != "light" {
		t.Errorf("expected theme to survive user clear, got %q (%v)", out, err)
	}
}

func TestRecentCommand(t *testing.T) {
	srv := fakeLastFM(t)
	env := []string{
		"LASTFM_API_KEY=test_key",
		"LIBI_LASTFM_BASE_URL=" + srv.URL + "/",
	}

	out, err := run(t, t.TempDir(), env, "recent", "--user", "rj", "--json")
	if err != nil {
		t.Fatalf("recent failed: %v\n%s", err, out)
	}

	var resp struct {
		User        string `json:"user"`
		TotalItems  int    `json:"total_items"`
		ArtistTotal string `json:"artist_total"`
		Items       []struct {
			Name           string `json:"name"`
			TrackEarnings  string `json:"track_earnings"`
			ArtistEarnings string `json:"artist_earnings"`
			Genre          string `json:"genre"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if resp.User != "rj" || resp.TotalItems != 2 || len(resp.Items) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Items[0].TrackEarnings != "1.0000" || resp.Items[0].ArtistEarnings != "4.0000" {
		t.Errorf("unexpected earnings: %+v", resp.Items[0])
	}
	if resp.ArtistTotal != "$4.00" {
		t.Errorf("expected artist counted once, got %s", resp.ArtistTotal)
	}

	out, err = run(t, t.TempDir(), env, "recent", "--user", "rj", "--mode", "artist", "--format", "{{.Artist}}: {{.ArtistPlayCount}}")
	if err != nil {
		t.Fatalf("recent --mode artist failed: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "Cher: 1000" {
		t.Errorf("unexpected templated output %q", out)
	}
}

func TestRecentRequiresAPIKey(t *testing.T) {
	out, err := run(t, t.TempDir(), []string{"LASTFM_API_KEY=", "LIBI_LASTFM_API_KEY="}, "recent", "--user", "rj")
	if err == nil {
		t.Fatalf("expected missing API key to fail:\n%s", out)
	}
	if !strings.Contains(out, "API key") {
		t.Errorf("expected API key error, got:\n%s", out)
	}
}
