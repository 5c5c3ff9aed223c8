package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

type stubAuditor struct {
	failOn map[string]bool
}

func (s *stubAuditor) AuditFile(ctx context.Context, path string, tags model.TagSet, deep bool) (*model.AuditResult, error) {
	if s.failOn[path] {
		return nil, fmt.Errorf("audit failed for %s", path)
	}
	return &model.AuditResult{
		Source: filepath.Base(path),
		Claims: model.NewRegistry(),
	}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	auditor := &stubAuditor{failOn: map[string]bool{"b.pdf": true}}
	bp := NewBatchProcessor(auditor, 2)

	outcomes := bp.ProcessPaths(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, nil, false)
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	var succeeded, failed []string
	for _, o := range outcomes {
		if o.Error != nil {
			failed = append(failed, o.Path)
		} else {
			succeeded = append(succeeded, o.Path)
		}
	}
	sort.Strings(succeeded)

	if !reflect.DeepEqual(succeeded, []string{"a.pdf", "c.pdf"}) {
		t.Errorf("unexpected successes: %v", succeeded)
	}
	if !reflect.DeepEqual(failed, []string{"b.pdf"}) {
		t.Errorf("unexpected failures: %v", failed)
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	bp := NewBatchProcessor(&stubAuditor{}, 2)
	outcomes := bp.ProcessPaths(context.Background(), nil, nil, false)
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.txt")
	content := `# annual reports
/data/a.pdf

/data/b.pdf
/data/a.pdf
  /data/c.pdf
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(path)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	want := []string{"/data/a.pdf", "/data/b.pdf", "/data/c.pdf"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestReadPathsFromFile_Missing(t *testing.T) {
	if _, err := ReadPathsFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing list file")
	}
}
