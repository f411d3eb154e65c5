// Command rlvm is a thin CLI wrapper over the rlvm library: load a
// RealLive archive, disassemble or cross-reference one of its scenes, and
// optionally serve an inspector/tui view of a running scheduler. Grounded
// in the teacher's main.go flag-parsing-only wiring — no behavior lives
// here that isn't already implemented in a package; this command exists
// to make the packages reachable from a shell the way spec.md's "host
// shell is out of scope as a feature" still leaves room for a thin
// developer-facing entrypoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rlvm/rlvm/archive/reallive"
	"github.com/rlvm/rlvm/bytecode"
	"github.com/rlvm/rlvm/config"
	"github.com/rlvm/rlvm/inspector"
	"github.com/rlvm/rlvm/machine"
	"github.com/rlvm/rlvm/tools"
	"github.com/rlvm/rlvm/tui"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		archivePath = flag.String("archive", "", "path to a RealLive archive (.rl, .RealLive, etc.)")
		overrideDir = flag.String("overrides", "", "directory to scan for SEEN####.TXT overrides")
		regname     = flag.String("regname", "", "publisher/title fingerprint for second-level xor lookup")
		sceneIndex  = flag.Int("scene", -1, "scene index to disassemble/lint/xref and exit")
		action      = flag.String("action", "disasm", "one of: disasm, lint, xref (used with -scene)")
		configPath  = flag.String("config", "", "path to a TOML config file (default: the OS config path)")
		serveTUI    = flag.Bool("tui", false, "start the terminal scene/memory/object browser")
		serveAPI    = flag.Bool("inspector", false, "start the HTTP+WebSocket inspector service")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rlvm %s (%s)\n", version, commit)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rlvm: %v\n", err)
		os.Exit(1)
	}

	if *archivePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	ar, err := reallive.Open(*archivePath, *overrideDir, nil, *regname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rlvm: cannot open archive: %v\n", err)
		os.Exit(1)
	}

	if *sceneIndex >= 0 {
		runSceneAction(ar, *sceneIndex, *action)
		return
	}

	sched := machine.New(cfg.Execution.MaxTicksPerSession)

	if *serveAPI {
		runInspector(cfg, sched, ar)
		return
	}

	if *serveTUI {
		runTUI(ar, sched)
		return
	}

	flag.Usage()
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runSceneAction(ar *reallive.Archive, index int, action string) {
	scene, err := ar.Scene(index)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rlvm: cannot decode scene %d: %v\n", index, err)
		os.Exit(1)
	}

	switch action {
	case "disasm":
		fmt.Print(tools.DisassembleScene(scene))
	case "lint":
		for _, issue := range tools.LintScene(scene) {
			fmt.Println(issue.String())
		}
	case "xref":
		fmt.Print(tools.BuildXRefs(scene).Report())
	default:
		fmt.Fprintf(os.Stderr, "rlvm: unknown -action %q (want disasm, lint, or xref)\n", action)
		os.Exit(1)
	}
}

// archiveSceneProvider adapts *reallive.Archive to inspector.SceneProvider.
type archiveSceneProvider struct {
	ar *reallive.Archive
}

func (p archiveSceneProvider) Scene(id int) (*bytecode.Scene, error) {
	return p.ar.Scene(id)
}

func runInspector(cfg *config.Config, sched *machine.Scheduler, ar *reallive.Archive) {
	addr := cfg.Inspector.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	srv := inspector.NewServer(addr, sched, archiveSceneProvider{ar: ar})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "rlvm: inspector error: %v\n", err)
		}
	}()

	<-sigCh
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func runTUI(ar *reallive.Archive, sched *machine.Scheduler) {
	scene, err := ar.Scene(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rlvm: cannot decode scene 0: %v\n", err)
		os.Exit(1)
	}
	browser := tui.NewBrowser(scene, sched.Memory, sched.Objects)
	if err := browser.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "rlvm: tui error: %v\n", err)
		os.Exit(1)
	}
}
