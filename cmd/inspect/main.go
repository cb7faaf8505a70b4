package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wirebind/mixin"
)

func main() {
	var (
		hostName    = flag.String("host", "", "Demo host type to describe (optional)")
		list        = flag.Bool("list", false, "List demo host types and exit")
		dump        = flag.Bool("dump", false, "Dump cached schemas as YAML")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose engine logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		mixin.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*hostName, *list, *dump); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func demoNames() []string {
	names := make([]string, 0, len(demoHosts))
	for name := range demoHosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func run(hostName string, listOnly, dumpYAML bool) error {
	if listOnly {
		fmt.Println("Demo host types:")
		for _, name := range demoNames() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}

	if hostName != "" {
		sample, ok := demoHosts[hostName]
		if !ok {
			return fmt.Errorf("unknown host %q (use -list)", hostName)
		}
		info, err := mixin.Describe(sample)
		if err != nil {
			return fmt.Errorf("describe %s: %w", hostName, err)
		}
		if dumpYAML {
			return writeYAML([]mixin.SchemaInfo{info})
		}
		fmt.Println(info)
		return nil
	}

	// Build every demo schema so the cache has something to show.
	for _, name := range demoNames() {
		if _, err := mixin.Describe(demoHosts[name]); err != nil {
			return fmt.Errorf("describe %s: %w", name, err)
		}
	}

	infos := mixin.CachedSchemas()
	if dumpYAML {
		return writeYAML(infos)
	}
	for i, info := range infos {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(info)
	}
	return nil
}

func writeYAML(infos []mixin.SchemaInfo) error {
	out, err := yaml.Marshal(infos)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
