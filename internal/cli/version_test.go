package cli

import (
	"bytes"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	SetBuildInfo("1.2.3", "abc123", "2024-06-01")
	t.Cleanup(func() { SetBuildInfo("dev", "unknown", "unknown") })

	buf := new(bytes.Buffer)
	versionCmd.SetOut(buf)
	versionCmd.Run(versionCmd, nil)

	want := "logmedic 1.2.3\ncommit: abc123\nbuilt:  2024-06-01\n"
	if got := buf.String(); got != want {
		t.Fatalf("version output = %q, want %q", got, want)
	}
	if rootCmd.Version != "1.2.3 (abc123) 2024-06-01" {
		t.Fatalf("root version = %q", rootCmd.Version)
	}
}
