package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	binPath := filepath.Join(t.TempDir(), "gosurface")
	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/gosurface")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build gosurface: %v\n%s", err, out)
	}
	return binPath
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"go.mod": "module example.com/shop\n\ngo 1.23\n",
		"api/api.go": `package api

type Handler interface {
	Subscribe(topic string) error
}

type Server struct {
	Handler
	Addr string
}

type Client struct{}

type ServerOptions struct {
	Port int
}

type clientOptions struct{}
`,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestTypesCommand runs the types report on a generated module.
func TestTypesCommand(t *testing.T) {
	bin := buildBinary(t)
	dir := writeProject(t)

	cmd := exec.Command(bin, "types", "--env", "", dir)
	output, err := cmd.CombinedOutput()
	t.Logf("types output:\n%s", output)
	if err != nil {
		t.Fatalf("types failed: %v", err)
	}

	out := string(output)
	for _, want := range []string{"# api", "- Projects: 1", "`example.com/shop/api.Server`"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "clientOptions") {
		t.Error("unexported types must not be listed")
	}
}

// TestMembersCommand checks inherited members carry their declaring type.
func TestMembersCommand(t *testing.T) {
	bin := buildBinary(t)
	dir := writeProject(t)

	cmd := exec.Command(bin, "members", "--env", "", "--match", "subscribe", dir)
	output, err := cmd.CombinedOutput()
	t.Logf("members output:\n%s", output)
	if err != nil {
		t.Fatalf("members failed: %v", err)
	}
	if !strings.Contains(string(output), "(inherited from `Handler`)") {
		t.Error("expected Server to inherit Subscribe from Handler")
	}
}

// TestRunCommandWritesFiles runs every preset into an output directory.
func TestRunCommandWritesFiles(t *testing.T) {
	bin := buildBinary(t)
	dir := writeProject(t)
	outDir := filepath.Join(t.TempDir(), "reports")

	cmd := exec.Command(bin, "run", "--env", "", "--out-dir", outDir, dir)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}
	for _, name := range []string{"public-types.md", "public-options.md", "public-subscription-members.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

// TestUnknownCommand checks the usage exit code.
func TestUnknownCommand(t *testing.T) {
	bin := buildBinary(t)
	err := exec.Command(bin, "nope").Run()
	var exit *exec.ExitError
	if err == nil || !errors.As(err, &exit) || exit.ExitCode() != 2 {
		t.Fatalf("expected exit code 2, got %v", err)
	}
}
