package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "harriet.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[server]
listen = ":9900"

[log]
verbosity = 2

[security]
whitelist = ["handlers.list", "echo"]

[preload]
files = ["defs/boot.json", "/abs/extra.json"]
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Server.Listen != ":9900" {
		t.Errorf("listen = %q", m.Server.Listen)
	}
	if m.Log.Verbosity != 2 {
		t.Errorf("verbosity = %d", m.Log.Verbosity)
	}
	if len(m.Security.Whitelist) != 2 || m.Security.Whitelist[0] != "handlers.list" {
		t.Errorf("whitelist = %v", m.Security.Whitelist)
	}

	paths := m.PreloadPaths()
	if paths[0] != filepath.Join(m.Dir, "defs/boot.json") {
		t.Errorf("relative preload not resolved: %q", paths[0])
	}
	if paths[1] != "/abs/extra.json" {
		t.Errorf("absolute preload rewritten: %q", paths[1])
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "")

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Server.Listen != ":4567" {
		t.Errorf("default listen = %q", m.Server.Listen)
	}
	if len(m.Security.Whitelist) != 0 {
		t.Errorf("default whitelist = %v", m.Security.Whitelist)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of empty dir should fail")
	}
}

func TestLoadBadTOML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[server\nlisten=")
	if _, err := Load(dir); err == nil {
		t.Error("bad TOML accepted")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[server]\nlisten = \":1\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.Server.Listen != ":1" {
		t.Errorf("FindAndLoad = %+v", m)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Errorf("found unexpected manifest: %+v", m)
	}
}
