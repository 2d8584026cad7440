package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/ropsmith/ropc"
)

func main() {
	var (
		sourcePath = flag.String("source", "", "Path to the program source file")
		libDir     = flag.String("lib-dir", "", "Directory of library files available to `import`")
		outputPath = flag.String("output", "/dev/stdout", "Path to the output file")
	)
	flag.Parse()

	if *sourcePath == "" {
		log.Fatal("source not informed")
	}

	sourceData, err := os.ReadFile(*sourcePath)
	if err != nil {
		log.Fatalf("can't read source file: %s", err.Error())
	}

	libraries, err := loadLibraryDir(*libDir)
	if err != nil {
		log.Fatalf("can't read library directory: %s", err.Error())
	}

	blocks, err := ropc.Compile(string(sourceData), libraries)
	if err != nil {
		log.Fatalf("compile error: %s", err.Error())
	}

	out, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf("can't open output: %s", err.Error())
	}
	defer out.Close()

	names := make([]string, 0, len(blocks))
	for name := range blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s: %s\n", name, blocks[name])
	}
}

// loadLibraryDir reads every file directly inside dir into a
// filename-to-content map, the shape Compile's `libraries` parameter
// expects. An empty dir is fine: programs that never `import` don't
// need one.
func loadLibraryDir(dir string) (map[string]string, error) {
	libraries := map[string]string{}
	if dir == "" {
		return libraries, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		libraries[entry.Name()] = string(content)
	}
	return libraries, nil
}
