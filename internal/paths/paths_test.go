package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/folco/internal/errors"
)

func TestHome(t *testing.T) {
	got := Home()
	want, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("os.UserHomeDir() failed: %v", err)
	}
	if got != want {
		t.Errorf("Home() = %q, want %q", got, want)
	}
}

func TestResolveHome(t *testing.T) {
	got, err := ResolveHome()
	want, _ := os.UserHomeDir()

	if err != nil {
		// This might happen in some restricted environments,
		// but normally should succeed.
		if !errors.Is(err, ErrHomeDirNotFound) {
			t.Errorf("unexpected error type: %v", err)
		}
	} else if got != want {
		t.Errorf("ResolveHome() = %q, want %q", got, want)
	}
}

func TestConfigHome(t *testing.T) {
	got := ConfigHome()
	if got == "" {
		t.Error("ConfigHome() returned empty string")
	}
	// Verify it's an absolute path
	if !filepath.IsAbs(got) {
		t.Errorf("ConfigHome() = %q, want absolute path", got)
	}
}

func TestDataHome(t *testing.T) {
	got := DataHome()
	if got == "" {
		t.Error("DataHome() returned empty string")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("DataHome() = %q, want absolute path", got)
	}
}

func TestCacheHome(t *testing.T) {
	got := CacheHome()
	if got == "" {
		t.Error("CacheHome() returned empty string")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("CacheHome() = %q, want absolute path", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(ConfigDirEnv, "")
		want := filepath.Join(ConfigHome(), AppName)
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})

	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(ConfigDirEnv, dir)
		if got := ConfigDir(); got != dir {
			t.Errorf("ConfigDir() = %q, want %q", got, dir)
		}
		if got, want := ConfigFile(), filepath.Join(dir, "config.yaml"); got != want {
			t.Errorf("ConfigFile() = %q, want %q", got, want)
		}
	})
}

func TestIconSearchDirs(t *testing.T) {
	dirs := IconSearchDirs()
	if len(dirs) == 0 {
		t.Fatal("IconSearchDirs() returned no directories")
	}

	wantDataHome := filepath.Join(DataHome(), "icons")
	found := false
	seen := make(map[string]bool)
	for _, d := range dirs {
		if seen[d] {
			t.Errorf("IconSearchDirs() contains duplicate %q", d)
		}
		seen[d] = true
		if d == wantDataHome {
			found = true
		}
	}
	if !found {
		t.Errorf("IconSearchDirs() = %v, want to contain %q", dirs, wantDataHome)
	}
	if dirs[len(dirs)-1] != "/usr/share/pixmaps" {
		t.Errorf("IconSearchDirs() last = %q, want /usr/share/pixmaps", dirs[len(dirs)-1])
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates new directory with default perms", func(t *testing.T) {
		path := filepath.Join(tmpDir, "new-dir")
		err := EnsureDir(path, 0)
		if err != nil {
			t.Fatalf("EnsureDir failed: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("expected directory, got file")
		}
		// On some systems (like macOS), the mode might have extra bits (like 0700 or 0755)
		// but we want to check the permission bits.
		if info.Mode().Perm() != DefaultDirPerm {
			t.Errorf("expected perm %o, got %o", DefaultDirPerm, info.Mode().Perm())
		}
	})

	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(tmpDir, "parent", "child", "grandchild")
		err := EnsureDir(path, 0o755)
		if err != nil {
			t.Fatalf("EnsureDir failed: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("expected perm 0755, got %o", info.Mode().Perm())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		path := filepath.Join(tmpDir, "existing")
		err := os.Mkdir(path, 0o755)
		if err != nil {
			t.Fatal(err)
		}

		err = EnsureDir(path, 0o700)
		if err != nil {
			t.Errorf("EnsureDir failed on existing directory: %v", err)
		}

		// Note: MkdirAll (and thus EnsureDir) does NOT change permissions of existing directories.
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("expected original perm 0755 to be preserved, got %o", info.Mode().Perm())
		}
	})
}

// TestXDGHomeConsistency verifies XDG functions return consistent results
// across multiple calls.
func TestXDGHomeConsistency(t *testing.T) {
	// Call each function twice and verify consistency
	configHome1 := ConfigHome()
	configHome2 := ConfigHome()
	if configHome1 != configHome2 {
		t.Errorf("ConfigHome() not consistent: %q != %q", configHome1, configHome2)
	}

	dataHome1 := DataHome()
	dataHome2 := DataHome()
	if dataHome1 != dataHome2 {
		t.Errorf("DataHome() not consistent: %q != %q", dataHome1, dataHome2)
	}

	cacheHome1 := CacheHome()
	cacheHome2 := CacheHome()
	if cacheHome1 != cacheHome2 {
		t.Errorf("CacheHome() not consistent: %q != %q", cacheHome1, cacheHome2)
	}
}
