package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", engine.DefaultDepth, "search depth in plies below the root move (default: saved value)")
	threads    = flag.Int("threads", 0, "root search workers (0 = saved or 1)")
	dbDir      = flag.String("db", "", "database directory (default: platform data dir)")
	noStore    = flag.Bool("nostore", false, "run without persistent storage")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine()

	store := openStorage()
	if store != nil {
		defer store.Close()
		applyPreferences(eng, store)
	}

	// Flags and environment override saved preferences.
	d, ok, err := searchDepth(isFlagSet("depth"), *depth)
	if err != nil {
		log.Fatalf("depth: %v", err)
	}
	if ok {
		eng.SetDepth(d)
	}
	if *threads < 0 {
		log.Printf("Warning: -threads %d ignored", *threads)
	} else if *threads > 0 {
		eng.SetWorkers(*threads)
	}
	log.Printf("search depth %d, %d worker(s)", eng.Depth(), eng.Workers())

	// Create and run protocol handler
	protocol := uci.New(eng, store, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		log.Printf("input: %v", err)
	}
}

// openStorage opens the database, or returns nil if storage is disabled
// or unavailable.
func openStorage() *storage.Storage {
	if *noStore {
		return nil
	}

	dir := *dbDir

	var (
		store *storage.Storage
		err   error
	)
	if dir != "" {
		store, err = storage.Open(dir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Printf("Warning: storage not available: %v", err)
		return nil
	}

	if first, err := store.IsFirstLaunch(); err == nil && first {
		log.Printf("First launch, using default preferences")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
	return store
}

func applyPreferences(eng *engine.Engine, store *storage.Storage) {
	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("Warning: preferences not loaded: %v", err)
		return
	}
	if err := eng.SetDepth(prefs.Depth); err != nil {
		log.Printf("Warning: saved depth ignored: %v", err)
	}
	eng.SetWorkers(prefs.Workers)
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// searchDepth returns the depth asked for by -depth or, failing that,
// CHESSCORE_DEPTH. ok is false when neither is given.
func searchDepth(flagSet bool, flagDepth int) (d int, ok bool, err error) {
	d = flagDepth
	if !flagSet && !envInt("CHESSCORE_DEPTH", &d) {
		return 0, false, nil
	}
	if d < 0 || d > engine.MaxPly-2 {
		return 0, false, fmt.Errorf("%w: got %d", engine.ErrInvalidDepth, d)
	}
	return d, true, nil
}

// envInt reads an integer environment variable into v.
func envInt(name string, v *int) bool {
	s := os.Getenv(name)
	if s == "" {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number", name, s)
		return false
	}
	*v = n
	return true
}
