package gateways

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/dwarflocate/internal/domain/entities"
	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
)

func collectPaths(seq iter.Seq[entities.Candidate]) []string {
	var out []string
	for c := range seq {
		out = append(out, c.Path)
	}
	return out
}

// TestBuildIDCandidates tests the .build-id cache layout and ordering
func TestBuildIDCandidates(t *testing.T) {
	cfg := entities.Config{DebugDirectories: []string{"/usr/lib/debug", "/opt/debug"}}
	p := NewCandidateProvider(cfg, nil, &interfaces.NoOpLogger{})

	id := entities.NewBuildID([]byte{0xab, 0xcd, 0xef, 0x01})
	got := collectPaths(p.Candidates(context.Background(), "/home/user/bin/app", id))

	want := []string{
		"/home/user/bin/.build-id/ab/cdef01.debug",
		"/usr/lib/debug/.build-id/ab/cdef01.debug",
		"/opt/debug/.build-id/ab/cdef01.debug",
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestBuildIDCandidatesTooShort tests that a sub-2-byte build-id cannot
// form the two-level cache path and yields nothing
func TestBuildIDCandidatesTooShort(t *testing.T) {
	p := NewCandidateProvider(entities.DefaultConfig(), nil, &interfaces.NoOpLogger{})
	got := collectPaths(p.Candidates(context.Background(), "/bin/app", entities.NewBuildID([]byte{0xab})))
	if len(got) != 0 {
		t.Errorf("Candidates() = %v, want none", got)
	}
}

// TestDebugLinkCandidates tests the GDB search order for debug links
func TestDebugLinkCandidates(t *testing.T) {
	cfg := entities.Config{DebugDirectories: []string{"/usr/lib/debug"}}
	p := NewCandidateProvider(cfg, nil, &interfaces.NoOpLogger{})

	id := entities.NewDebugLink("app.debug", 0x1234)
	got := collectPaths(p.Candidates(context.Background(), "/home/user/bin/app", id))

	want := []string{
		"/home/user/bin/app.debug",
		"/home/user/bin/.debug/app.debug",
		"/usr/lib/debug/home/user/bin/app.debug",
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestDebugLinkCandidatesSkipsSelf tests that a debug link naming the
// binary itself never probes the binary
func TestDebugLinkCandidatesSkipsSelf(t *testing.T) {
	p := NewCandidateProvider(entities.Config{}, nil, &interfaces.NoOpLogger{})

	id := entities.NewDebugLink("app", 0x1234)
	got := collectPaths(p.Candidates(context.Background(), "/home/user/bin/app", id))

	for _, path := range got {
		if path == "/home/user/bin/app" {
			t.Errorf("Candidates() includes the binary itself: %v", got)
		}
	}
}

// TestDebugLinkCandidatesRejectsPathName tests that a link name with a
// path separator is rejected outright
func TestDebugLinkCandidatesRejectsPathName(t *testing.T) {
	p := NewCandidateProvider(entities.DefaultConfig(), nil, &interfaces.NoOpLogger{})
	id := entities.NewDebugLink("../../etc/passwd", 0)
	got := collectPaths(p.Candidates(context.Background(), "/bin/app", id))
	if len(got) != 0 {
		t.Errorf("Candidates() = %v, want none for traversal name", got)
	}
}

// stubIndex is a canned DSYMIndex
type stubIndex struct {
	bundles []string
}

func (s *stubIndex) LookupUUID(_ context.Context, _ [16]byte) []string {
	return s.bundles
}

// TestDSYMCandidates tests the dSYM bundle conventions: the bundle named
// after the binary first, then sibling bundles holding exactly one DWARF
// file, then index results
func TestDSYMCandidates(t *testing.T) {
	tmpDir := t.TempDir()
	binary := filepath.Join(tmpDir, "app")

	// Sibling bundle with a single DWARF file
	otherDWARF := filepath.Join(tmpDir, "other.dSYM", "Contents", "Resources", "DWARF")
	if err := os.MkdirAll(otherDWARF, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(otherDWARF, "other"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	// Sibling bundle with two DWARF files: ambiguous, must be skipped
	crowdedDWARF := filepath.Join(tmpDir, "crowded.dSYM", "Contents", "Resources", "DWARF")
	if err := os.MkdirAll(crowdedDWARF, 0750); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b"} {
		if err := os.WriteFile(filepath.Join(crowdedDWARF, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	// Indexed bundle elsewhere
	indexedDWARF := filepath.Join(tmpDir, "indexed", "app.dSYM", "Contents", "Resources", "DWARF")
	if err := os.MkdirAll(indexedDWARF, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(indexedDWARF, "app"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	index := &stubIndex{bundles: []string{filepath.Join(tmpDir, "indexed", "app.dSYM")}}
	p := NewCandidateProvider(entities.Config{}, index, &interfaces.NoOpLogger{})

	got := collectPaths(p.Candidates(context.Background(), binary, entities.NewUUID(testUUID(1))))

	want := []string{
		filepath.Join(tmpDir, "app.dSYM", "Contents", "Resources", "DWARF", "app"),
		filepath.Join(otherDWARF, "other"),
		filepath.Join(indexedDWARF, "app"),
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestPDBCandidates tests PDB search: embedded path, sibling, then the
// symbol-path layouts, with server entries skipped
func TestPDBCandidates(t *testing.T) {
	cfg := entities.Config{SymbolPath: []string{"srv*https://msdl.example.com", "/syms", "cache*/tmp/symcache"}}
	p := NewCandidateProvider(cfg, nil, &interfaces.NoOpLogger{})

	id := entities.NewCodeView(testUUID(1), 1, `C:\build\app.pdb`)
	got := collectPaths(p.Candidates(context.Background(), "/home/user/app.exe", id))

	want := []string{
		`C:\build\app.pdb`,
		"/home/user/app.pdb",
		"/syms/app.pdb",
		"/syms/exe/app.pdb",
		"/syms/symbols/exe/app.pdb",
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestPDBCandidatesNoExtension tests that a binary without an extension
// skips the extension-keyed symbol-path layouts
func TestPDBCandidatesNoExtension(t *testing.T) {
	cfg := entities.Config{SymbolPath: []string{"/syms"}}
	p := NewCandidateProvider(cfg, nil, &interfaces.NoOpLogger{})

	id := entities.NewCodeView(testUUID(1), 1, "")
	got := collectPaths(p.Candidates(context.Background(), "/home/user/app", id))

	want := []string{
		"/home/user/app.pdb",
		"/syms/app.pdb",
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestCandidatesNoneIdentifier tests that the None identifier produces
// an empty sequence
func TestCandidatesNoneIdentifier(t *testing.T) {
	p := NewCandidateProvider(entities.DefaultConfig(), nil, &interfaces.NoOpLogger{})
	got := collectPaths(p.Candidates(context.Background(), "/bin/app", entities.NoIdentifier()))
	if len(got) != 0 {
		t.Errorf("Candidates() = %v, want none", got)
	}
}
