package testkit

import (
	"testing"

	"hush/internal/source"
	"hush/internal/strip"
)

func TestCheckFileInvariants(t *testing.T) {
	fs := source.NewFileSet()
	good := fs.Get(fs.Decode("a.js", []byte("\xEF\xBB\xBFa();\r\nb();\r\n")))
	if err := CheckFileInvariants(good); err != nil {
		t.Fatalf("decoded file: %v", err)
	}

	broken := *good
	broken.LineIdx = []uint32{0}
	if err := CheckFileInvariants(&broken); err == nil {
		t.Fatal("expected error for wrong line offsets")
	}
	broken = *good
	broken.Hash[0] ^= 0xff
	if err := CheckFileInvariants(&broken); err == nil {
		t.Fatal("expected error for wrong hash")
	}
	if err := CheckFileInvariants(nil); err == nil {
		t.Fatal("expected error for nil file")
	}
}

func TestCheckStripInvariants(t *testing.T) {
	inputs := []string{
		"let x = 1;\nconsole.log(x);\nconsole.error(\"fail\");",
		"doWork(); console.log(\"x\"); doMore();",
		"p.catch(e => console.log(e));\n\n\n\nnext();\n",
		"plain();\n\n\n\n",
	}
	for _, in := range inputs {
		out, _ := strip.Strip(in)
		if err := CheckStripInvariants(in, out); err != nil {
			t.Errorf("Strip(%q): %v", in, err)
		}
	}
	if err := CheckStripInvariants("a();\n", "a();\nb();\n"); err == nil {
		t.Error("expected error for grown output")
	}
	if err := CheckStripInvariants("a();\nb();\n", "a();\n"); err == nil {
		t.Error("expected error for rewrite without targets")
	}
}
