package execution

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"bctp/internal/config"
)

func TestRunner_Command(t *testing.T) {
	cfg := config.New()
	cfg.Company = "CRONUS International Ltd."
	runner := NewRunner(cfg)

	args, err := runner.Command("UNIT", "bc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"pwsh", "-NoProfile", "-NonInteractive", "-Command",
		"Import-Module BcContainerHelper; Run-TestsInBcContainer -containerName 'bc1' -testSuite 'UNIT' -companyName 'CRONUS International Ltd.' -detailed",
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}

	t.Run("empty command", func(t *testing.T) {
		cfg := config.New()
		cfg.TestCommand = "   "
		if _, err := NewRunner(cfg).Command("UNIT", "bc1"); err == nil {
			t.Error("expected error for empty command")
		}
	})

	t.Run("unterminated quote", func(t *testing.T) {
		cfg := config.New()
		cfg.TestCommand = `pwsh -Command "Run-Tests`
		if _, err := NewRunner(cfg).Command("UNIT", "bc1"); err == nil {
			t.Error("expected error for unterminated quote")
		}
	})
}
