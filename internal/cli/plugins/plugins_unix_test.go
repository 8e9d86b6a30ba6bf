//go:build unix

package plugins

import (
	"context"
	"testing"
)

func TestExecute_ExitCode(t *testing.T) {
	pluginDir, _ := isolate(t)
	t.Setenv("PATH", "/bin:/usr/bin")

	ok := writePlugin(t, pluginDir, "ok", "exit 0")
	if code := Execute(context.Background(), ok, nil); code != 0 {
		t.Errorf("Execute(ok) = %d, want 0", code)
	}

	failing := writePlugin(t, pluginDir, "fail", "exit 3")
	if code := Execute(context.Background(), failing, []string{"a"}); code != 3 {
		t.Errorf("Execute(fail) = %d, want 3", code)
	}
}
