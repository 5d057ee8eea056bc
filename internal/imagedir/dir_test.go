package imagedir

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestIsImageExt(t *testing.T) {
	for _, ext := range []string{".jpg", ".JPG", "jpeg", ".Png", ".tif", ".TIFF", ".bmp", ".gif"} {
		if !IsImageExt(ext) {
			t.Errorf("IsImageExt(%q) = false", ext)
		}
	}
	for _, ext := range []string{"", ".", ".xyz", ".webp", ".txt", ".jpgx"} {
		if IsImageExt(ext) {
			t.Errorf("IsImageExt(%q) = true", ext)
		}
	}
	if len(Extensions()) != len(imageExtensions) {
		t.Errorf("Extensions() out of sync with accepted set")
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing root: got %v, want ErrNotFound", err)
	}
	f := touch(t, dir, "file.jpg")
	if _, err := Open(f); !errors.Is(err, ErrNotDir) {
		t.Errorf("file root: got %v, want ErrNotDir", err)
	}
}

func TestOpen_Counts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg")
	touch(t, dir, "b.PNG")
	touch(t, dir, "notes.txt")
	touch(t, dir, "sub/c.tif")

	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Len() != 4 {
		t.Errorf("Len = %d, want 4", d.Len())
	}
	if d.ImageCount() != 3 {
		t.Errorf("ImageCount = %d, want 3", d.ImageCount())
	}
	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.PNG"),
		filepath.Join(dir, "sub", "c.tif"),
	}
	got := d.Images()
	if len(got) != len(want) {
		t.Fatalf("Images = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Images[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg")
	touch(t, dir, "sub/b.png")
	touch(t, dir, "Mixed.JPG")

	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"a.jpg", "a.jpg", true},
		{"./a.jpg", "a.jpg", true},
		{" a.jpg ", "a.jpg", true},
		{"sub/b.png", "sub/b.png", true},
		{`sub\b.png`, "sub/b.png", true},
		{"b.png", "sub/b.png", true},
		{"elsewhere/a.jpg", "a.jpg", true},
		{filepath.Base(dir) + "/sub/b.png", "sub/b.png", true},
		{"mixed.jpg", "Mixed.JPG", true},
		{"c.jpg", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := d.Lookup(tt.ref)
			if ok != tt.ok {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.ref, ok, tt.ok)
			}
			if ok && got != filepath.Join(dir, filepath.FromSlash(tt.want)) {
				t.Errorf("Lookup(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestLookup_DuplicateBaseFirstWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "x/dup.jpg")
	touch(t, dir, "y/dup.jpg")

	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, ok := d.Lookup("dup.jpg")
	if !ok || got != filepath.Join(dir, "x", "dup.jpg") {
		t.Errorf("Lookup(dup.jpg) = %q, %v", got, ok)
	}
	got, ok = d.Lookup("y/dup.jpg")
	if !ok || got != filepath.Join(dir, "y", "dup.jpg") {
		t.Errorf("Lookup(y/dup.jpg) = %q, %v", got, ok)
	}
}

func TestSelect(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.webp")
	touch(t, dir, "b.jpg")
	touch(t, dir, "c.txt")
	d, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := d.Select(func(name string) bool { return filepath.Ext(name) == ".webp" })
	if len(got) != 1 || got[0] != filepath.Join(dir, "a.webp") {
		t.Errorf("Select = %v", got)
	}
	if got := d.Select(func(string) bool { return false }); len(got) != 0 {
		t.Errorf("Select(none) = %v", got)
	}
}

func TestScanner_ErrorsBelowRootAreSkipped(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "sub/a.jpg")
	touch(t, dir, "b.jpg")
	fi, err := os.Stat(filepath.Join(dir, "sub"))
	if err != nil {
		t.Fatal(err)
	}
	subEntry := fs.FileInfoToDirEntry(fi)
	fi, err = os.Stat(filepath.Join(dir, "b.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	fileEntry := fs.FileInfoToDirEntry(fi)

	sc := &scanner{root: dir}
	if got := sc.visit(filepath.Join(dir, "sub"), subEntry, fs.ErrPermission); got != fs.SkipDir {
		t.Errorf("unreadable directory: got %v, want SkipDir", got)
	}
	if got := sc.visit(filepath.Join(dir, "gone.jpg"), nil, fs.ErrNotExist); got != nil {
		t.Errorf("vanished file: got %v, want nil", got)
	}
	if got := sc.visit(filepath.Join(dir, "b.jpg"), fileEntry, nil); got != nil {
		t.Errorf("regular file: got %v", got)
	}
	if got := sc.visit(dir, subEntry, fs.ErrPermission); !errors.Is(got, fs.ErrPermission) {
		t.Errorf("root error: got %v, want ErrPermission", got)
	}

	if len(sc.files) != 1 || sc.files[0] != "b.jpg" {
		t.Errorf("files = %v", sc.files)
	}
	if len(sc.unreadable) != 2 || sc.unreadable[0] != "sub" || sc.unreadable[1] != "gone.jpg" {
		t.Errorf("unreadable = %v", sc.unreadable)
	}
}

func TestOpen_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	touch(t, dir, "a.jpg")
	touch(t, dir, "locked/b.jpg")
	locked := filepath.Join(dir, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
	if u := d.Unreadable(); len(u) != 1 || u[0] != "locked" {
		t.Errorf("Unreadable = %v", u)
	}
}
