package session

import (
	"context"
	"errors"
	"testing"

	"github.com/aquafemi/libi/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_Defaults(t *testing.T) {
	sess, err := Load(context.Background(), openStore(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Username() != "" {
		t.Errorf("expected no username, got %q", sess.Username())
	}
	if sess.Theme() != ThemeDark {
		t.Errorf("expected dark theme, got %q", sess.Theme())
	}
}

func TestLoad_ReadsSavedPrefs(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	_ = st.SetPref(ctx, store.KeyUsername, "rj")
	_ = st.SetPref(ctx, store.KeyTheme, "light")

	sess, err := Load(ctx, st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Username() != "rj" || sess.Theme() != ThemeLight {
		t.Errorf("got username %q theme %q", sess.Username(), sess.Theme())
	}
}

func TestLoad_UnknownThemeFallsBack(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	_ = st.SetPref(ctx, store.KeyTheme, "sepia")

	sess, err := Load(ctx, st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Theme() != ThemeDark {
		t.Errorf("expected dark fallback, got %q", sess.Theme())
	}
}

func TestSetUsername(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	sess, _ := Load(ctx, st)

	var seen []string
	sess.OnChange(func(username string, _ Theme) { seen = append(seen, username) })

	if err := sess.SetUsername(ctx, "   "); !errors.Is(err, ErrBlankUsername) {
		t.Fatalf("expected ErrBlankUsername, got %v", err)
	}
	if err := sess.SetUsername(ctx, "  cher  "); err != nil {
		t.Fatalf("SetUsername: %v", err)
	}
	if sess.Username() != "cher" {
		t.Errorf("expected trimmed username, got %q", sess.Username())
	}

	saved, ok, _ := st.GetPref(ctx, store.KeyUsername)
	if !ok || saved != "cher" {
		t.Errorf("expected username to be persisted, got %q", saved)
	}
	if len(seen) != 1 || seen[0] != "cher" {
		t.Errorf("unexpected notifications: %v", seen)
	}
}

func TestThemes(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	sess, _ := Load(ctx, st)

	theme, err := sess.ToggleTheme(ctx)
	if err != nil || theme != ThemeLight {
		t.Fatalf("ToggleTheme = %q, %v", theme, err)
	}
	theme, err = sess.ToggleTheme(ctx)
	if err != nil || theme != ThemeDark {
		t.Fatalf("ToggleTheme = %q, %v", theme, err)
	}

	if err := sess.SetTheme(ctx, "neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
	if err := sess.SetTheme(ctx, ThemeLight); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	saved, _, _ := st.GetPref(ctx, store.KeyTheme)
	if saved != "light" {
		t.Errorf("expected light to be persisted, got %q", saved)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	sess, _ := Load(ctx, st)
	_ = sess.SetUsername(ctx, "rj")
	_ = sess.SetTheme(ctx, ThemeLight)

	if err := sess.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if sess.Username() != "" {
		t.Errorf("expected username cleared, got %q", sess.Username())
	}
	if sess.Theme() != ThemeLight {
		t.Errorf("expected theme kept, got %q", sess.Theme())
	}
	if _, ok, _ := st.GetPref(ctx, store.KeyUsername); ok {
		t.Error("expected username pref deleted")
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"dark", ThemeDark, false},
		{" Light ", ThemeLight, false},
		{"", "", true},
		{"blue", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, %v", tt.in, got, err)
		}
	}
}
