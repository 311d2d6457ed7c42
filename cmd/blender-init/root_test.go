package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/unclepomedev/blender-init/pkg/testutil"
)

// chdir switches into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
	})
}

func startTemplateServer(t *testing.T) *httptest.Server {
	t.Helper()
	archive := testutil.ZipArchive(t, map[string]string{
		"blender-addon-dev-template-main/blender_manifest.toml":     "id = \"addon_hello_world\"\nmaintainer = \"MAINTAINER_STRING\"\n",
		"blender-addon-dev-template-main/addon_hello_world/init.py": "# addon_hello_world\n",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitCmd(t *testing.T) {
	srv := startTemplateServer(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Setenv("BLENDER_INIT_TEMPLATE_ARCHIVE_HOST", srv.URL)

	target := testutil.TempDir(t)
	chdir(t, target)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"my_addon", "-m", "Ada Lovelace"})
	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	manifest := testutil.ReadFile(t, filepath.Join(target, "blender_manifest.toml"))
	want := "id = \"my_addon\"\nmaintainer = \"Ada Lovelace\"\n"
	if manifest != want {
		t.Errorf("manifest = %q, want %q", manifest, want)
	}

	if !testutil.FileExists(t, filepath.Join(target, "my_addon", "init.py")) {
		t.Error("renamed add-on directory was not written")
	}
	if !testutil.FileExists(t, filepath.Join(target, "README.md")) {
		t.Error("generated README.md was not written")
	}
}

func TestInitCmd_ConflictExitsNonZero(t *testing.T) {
	srv := startTemplateServer(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Setenv("BLENDER_INIT_TEMPLATE_ARCHIVE_HOST", srv.URL)

	target := testutil.TempDir(t)
	testutil.CreateFile(t, target, "blender_manifest.toml", "keep me")
	chdir(t, target)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"my_addon"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Execute() should fail on conflict")
	}

	if got := testutil.ReadFile(t, filepath.Join(target, "blender_manifest.toml")); got != "keep me" {
		t.Errorf("conflicting file was modified: %q", got)
	}
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	srv := startTemplateServer(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Setenv("BLENDER_INIT_TEMPLATE_ARCHIVE_HOST", srv.URL)

	target := testutil.TempDir(t)
	testutil.CreateFile(t, target, "blender_manifest.toml", "stale")
	chdir(t, target)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"my_addon", "-f"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() with -f failed: %v", err)
	}

	got := testutil.ReadFile(t, filepath.Join(target, "blender_manifest.toml"))
	if got == "stale" {
		t.Error("force run did not overwrite the conflicting file")
	}
}

func TestInitCmd_InvalidNameSkipsDownload(t *testing.T) {
	downloaded := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloaded = true
	}))
	t.Cleanup(srv.Close)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Setenv("BLENDER_INIT_TEMPLATE_ARCHIVE_HOST", srv.URL)

	chdir(t, testutil.TempDir(t))

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"my/addon"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("Execute() should reject an invalid add-on name")
	}

	if downloaded {
		t.Error("invalid add-on name must fail before the template download")
	}
}

func TestInitCmd_RequiresAddonName(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("Execute() without the addon name should fail")
	}
}
