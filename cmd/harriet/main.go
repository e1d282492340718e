// Harriet CLI - runs the tree-structured command dispatch runtime.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/harriet/eval"
	"github.com/chazu/harriet/manifest"
	"github.com/chazu/harriet/preload"
	"github.com/chazu/harriet/runtime"
	"github.com/chazu/harriet/server"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (0=notice, 1=info, 2=debug)")
	serveMode := flag.Bool("serve", false, "Start the dispatch server")
	port := flag.Int("port", 0, "Server port (overrides the manifest's listen address)")
	manifestDir := flag.String("manifest", "", "Directory containing harriet.toml (default: walk up from cwd)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: harriet [options] [preload.json...]\n\n")
		fmt.Fprintf(os.Stderr, "Starts the harriet dispatch runtime, preloading handler definitions\n")
		fmt.Fprintf(os.Stderr, "from the manifest and any extra files given on the command line.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  harriet                      # print the handler listing\n")
		fmt.Fprintf(os.Stderr, "  harriet --serve              # serve on the manifest's address\n")
		fmt.Fprintf(os.Stderr, "  harriet defs.json --serve --port 8080\n")
	}
	flag.Parse()

	m, err := loadManifest(*manifestDir)
	if err != nil {
		fatal(err)
	}

	level := *verbosity
	if m != nil && level == 0 {
		level = m.Log.Verbosity
	}
	commonlog.Configure(level, nil)

	ctx := runtime.NewContext(runtime.NewStaticTable(runtime.CoreHandlers()), eval.New())

	var files []string
	if m != nil {
		files = m.PreloadPaths()
	}
	files = append(files, flag.Args()...)
	for _, path := range files {
		count, err := preload.File(ctx, path)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Preloaded %d handler(s) from %s\n", count, path)
	}

	if !*serveMode {
		for _, e := range ctx.Listing(nil) {
			fmt.Printf("%-8s %s\n", e.Origin, e.Name)
		}
		return
	}

	addr := ":4567"
	if m != nil {
		addr = m.Server.Listen
	}
	if *port != 0 {
		addr = fmt.Sprintf(":%d", *port)
	}

	var opts []server.Option
	if m != nil && len(m.Security.Whitelist) > 0 {
		opts = append(opts, server.WithWhitelist(m.Security.Whitelist))
	}

	if err := server.New(ctx, opts...).ListenAndServe(addr); err != nil {
		fatal(err)
	}
}

func loadManifest(dir string) (*manifest.Manifest, error) {
	if dir != "" {
		return manifest.Load(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return manifest.FindAndLoad(cwd)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
