package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var jsSeeds = []string{
	"let x = 1;\nconsole.log(x);\nconsole.error(\"fail\");",
	"doWork(); console.log(\"x\"); doMore();\n",
	"fetch(url).catch(e => console.log(e));\n",
	"fetch(url).catch(function (e) { console.warn(e); });\n",
	"\tconsole.warn(a); console.log(b);\r\nnext();\r\n",
	"a();\n\n\n\n\nb();\n",
	"console.log(f(x));\nconsole.log(\"a)b\");\n",
	"\xEF\xBB\xBFconsole.log(1);\n",
	"if (debug) { console.log(state); }\n",
	"console.log(1)\nconsole.info(2);\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range jsSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(path, ".js") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if len(src) > maxSeedBytes {
			src = src[:maxSeedBytes]
		}
		f.Add(bytes.Clone(src))
		return nil
	})
	if err != nil {
		f.Fatalf("walk testdata: %v", err)
	}
}
