//go:build integration
// +build integration

package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tordrt/pumlsql"
)

func TestSQLiteApply(t *testing.T) {
	ctx := context.Background()
	url := "sqlite://" + filepath.Join(t.TempDir(), "library.db")

	script := pumlsql.TranslateWithOptions(libraryDiagram, &pumlsql.Options{ForeignKeyColumns: true})

	s, err := pumlsql.ApplyDDL(ctx, url, script)
	if err != nil {
		t.Fatalf("Failed to apply DDL: %v", err)
	}

	verifyLibrary(t, s, "Author", "Book")
}
