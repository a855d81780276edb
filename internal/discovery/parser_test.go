package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const salesTestsSource = `codeunit 50100 "Sales Posting Tests"
{
    Subtype = Test;
    TestPermissions = Disabled;

    var
        Assert: Codeunit Assert;
        LibrarySales: Codeunit "Library - Sales";

    [Test]
    [HandlerFunctions('ConfirmHandler')]
    procedure PostInvoiceCreatesLedgerEntries()
    begin
    end;

    [Test]
    procedure "Post Invoice Without Lines Fails"()
    begin
    end;

    [ConfirmHandler]
    procedure ConfirmHandler(Question: Text[1024]; var Reply: Boolean)
    begin
        Reply := true;
    end;

    local procedure CreateInvoice()
    begin
    end;
}

codeunit 50150 SalesHelper
{
    procedure Help()
    begin
    end;
}
`

func TestParser_FindTestCodeunits(t *testing.T) {
	parser := NewParser()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "SalesPostingTests.Codeunit.al")
	if err := os.WriteFile(testFile, []byte(salesTestsSource), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	t.Run("finds test codeunits and procedures", func(t *testing.T) {
		codeunits, err := parser.FindTestCodeunits(testFile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(codeunits) != 1 {
			t.Fatalf("expected 1 test codeunit, got %d: %+v", len(codeunits), codeunits)
		}

		cu := codeunits[0]
		if cu.ID != 50100 || cu.Name != "Sales Posting Tests" {
			t.Errorf("unexpected codeunit header: %d %q", cu.ID, cu.Name)
		}
		if cu.FilePath != testFile {
			t.Errorf("expected file path %s, got %s", testFile, cu.FilePath)
		}

		want := []string{"PostInvoiceCreatesLedgerEntries", "Post Invoice Without Lines Fails"}
		if diff := cmp.Diff(want, cu.Functions); diff != "" {
			t.Errorf("functions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := parser.FindTestCodeunits("/non/existent/file.al")
		if err == nil {
			t.Error("expected error for non-existent file")
		}
	})
}
