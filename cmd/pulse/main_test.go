package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pulse/internal/config"
	"pulse/internal/event"
	"pulse/internal/store"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()

	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`
[paths]
data_dir = %q
log_dir = %q

[labeling]
admins = ["alice"]

[trainer]
floor = 1
seed = 1
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedStore(t *testing.T, configPath string, unlabeled, real, fake int) {
	t.Helper()

	cfg, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	insert := func(n int, verification *int) {
		for i := 0; i < n; i++ {
			ev := &event.Event{
				Start:        now.Add(-time.Hour),
				End:          now.Add(time.Duration(i) * time.Second),
				Description:  "seeded event",
				Verification: verification,
				Payload:      event.Payload{MsgCount: 30 + i, AuthorCount: 7, Verification: verification},
			}
			if err := st.InsertEvent(ctx, ev); err != nil {
				t.Fatalf("insert event: %v", err)
			}
		}
	}
	realLabel := event.VerificationReal
	fakeLabel := event.VerificationFake
	insert(unlabeled, nil)
	insert(real, &realLabel)
	insert(fake, &fakeLabel)
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}
	if _, err := runCommand(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
}

func TestStatsRendersCounts(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	seedStore(t, configPath, 2, 3, 1)

	out, err := runCommand(t, "", "--config", configPath, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Events total", "Labeled real", "3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestTrainOnSeededStore(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	seedStore(t, configPath, 0, 6, 6)

	out, err := runCommand(t, "", "--config", configPath, "train", "--kind", "tree")
	if err != nil {
		t.Fatalf("train failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Trained tree on 12 rows") {
		t.Fatalf("unexpected train output:\n%s", out)
	}
}

func TestTrainInsufficientData(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	seedStore(t, configPath, 0, 4, 0)

	if _, err := runCommand(t, "", "--config", configPath, "train"); err == nil {
		t.Fatal("expected insufficient-data error")
	}
}

func TestLabelSessionOverStdin(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	seedStore(t, configPath, 3, 0, 0)

	// Label one real, one fake, then stop.
	out, err := runCommand(t, "r\nf\ns\n", "--config", configPath, "label", "--user", "alice")
	if err != nil {
		t.Fatalf("label session failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "break") {
		t.Fatalf("expected closing message in output:\n%s", out)
	}

	cfg, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	counts, err := st.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Real != 1 || counts.Fake != 1 || counts.Unlabeled != 1 {
		t.Fatalf("unexpected counts after session: %+v", counts)
	}
}

func TestLabelRejectsUnknownUser(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	if _, err := runCommand(t, "", "--config", configPath, "label", "--user", "mallory"); err == nil {
		t.Fatal("expected authorization error")
	}
}
